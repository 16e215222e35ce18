package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Withdrawal is an agent's request to cash out wallet profit to mobile money.
type Withdrawal struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	AgentID     uint            `gorm:"not null;index" json:"agent_id"`
	Reference   string          `gorm:"type:varchar(191);not null;uniqueIndex" json:"reference"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	MomoNumber  string          `gorm:"size:20;not null" json:"momo_number"`
	MomoNetwork string          `gorm:"size:20;not null" json:"momo_network"`
	Status      string          `gorm:"type:enum('pending','approved','rejected','paid');not null;default:'pending'" json:"status"`
	AdminNote   *string         `gorm:"type:text" json:"admin_note,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Agent *Agent `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
