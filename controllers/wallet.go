package controllers

import (
	"fmt"

	"smartdata/database"
	"smartdata/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// creditAgentProfit credits the storefront agent's wallet once the order is
// delivered. Balance update and ledger entry land in one DB transaction so the
// ledger never disagrees with the balance.
func creditAgentProfit(tx *models.Transaction) error {
	if tx.AgentID == nil || tx.Profit <= 0 {
		return nil
	}
	profit := decimal.NewFromFloat(tx.Profit)

	return database.DB.Transaction(func(dbtx *gorm.DB) error {
		var agent models.Agent
		if err := dbtx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", *tx.AgentID).First(&agent).Error; err != nil {
			return err
		}

		newBalance := agent.Balance.Add(profit)
		if err := dbtx.Model(&agent).Update("balance", newBalance).Error; err != nil {
			return err
		}

		note := fmt.Sprintf("Profit for order %s", tx.Reference)
		entry := models.WalletTransaction{
			AgentID:      agent.ID,
			Reference:    fmt.Sprintf("%s-PROFIT", tx.Reference),
			Flow:         "credit",
			Kind:         "order_profit",
			Amount:       profit,
			BalanceAfter: newBalance,
			Note:         &note,
		}
		return dbtx.Create(&entry).Error
	})
}
