package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Agent is a reseller with a custom storefront. Balance is the profit wallet,
// credited when an order placed through the agent's storefront is delivered.
type Agent struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;uniqueIndex" json:"user_id"`
	Slug      string          `gorm:"size:50;not null;uniqueIndex" json:"slug"`
	StoreName string          `gorm:"size:100;not null" json:"store_name"`
	MarginPct float64         `gorm:"type:decimal(5,2);not null;default:5.00" json:"margin_pct"`
	Balance   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0.00" json:"balance"`
	Status    string          `gorm:"type:enum('pending','approved','suspended');not null;default:'pending'" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Agent) TableName() string {
	return "agents"
}
