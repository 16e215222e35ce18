package users

import (
	"errors"

	"gorm.io/gorm/clause"
)

var errInsufficientBalance = errors.New("insufficient balance")

func lockForUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}
