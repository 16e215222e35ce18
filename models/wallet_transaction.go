package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletTransaction is one entry of an agent's profit ledger. BalanceAfter is a
// snapshot taken inside the same DB transaction as the balance update so the
// ledger can be audited without replaying it.
type WalletTransaction struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	AgentID      uint            `gorm:"not null;index" json:"agent_id"`
	Reference    string          `gorm:"type:varchar(191);not null;uniqueIndex" json:"reference"`
	Flow         string          `gorm:"type:enum('credit','debit');not null" json:"flow"`
	Kind         string          `gorm:"type:varchar(50);not null" json:"kind"` // order_profit, withdrawal, adjustment
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	BalanceAfter decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"balance_after"`
	Note         *string         `gorm:"type:text" json:"note,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
