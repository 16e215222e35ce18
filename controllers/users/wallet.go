package users

import (
	"net/http"

	"smartdata/database"
	"smartdata/middleware"
	"smartdata/models"
	"smartdata/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetWalletHandler returns the agent's profit balance.
func GetWalletHandler(w http.ResponseWriter, r *http.Request) {
	agent, ok := requireAgent(w, r)
	if !ok {
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Wallet retrieved",
		Data: map[string]interface{}{
			"balance": agent.Balance,
		},
	})
}

// GetWalletLedgerHandler lists the agent's wallet entries, newest first.
func GetWalletLedgerHandler(w http.ResponseWriter, r *http.Request) {
	agent, ok := requireAgent(w, r)
	if !ok {
		return
	}

	page, size := parsePagination(r)
	var total int64
	q := database.DB.Model(&models.WalletTransaction{}).Where("agent_id = ?", agent.ID)
	if err := q.Count(&total).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to fetch ledger"})
		return
	}

	var entries []models.WalletTransaction
	if err := q.Order("created_at DESC").Limit(size).Offset((page - 1) * size).Find(&entries).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to fetch ledger"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Ledger retrieved",
		Data: map[string]interface{}{
			"entries": entries,
			"pagination": map[string]interface{}{
				"page":      page,
				"page_size": size,
				"total":     total,
			},
		},
	})
}

type WithdrawRequest struct {
	Amount      float64 `json:"amount" validate:"required"`
	MomoNumber  string  `json:"momo_number" validate:"required,phonegh"`
	MomoNetwork string  `json:"momo_network" validate:"required"`
}

// RequestWithdrawalHandler debits the wallet and opens a pending withdrawal
// for admin review. The debit happens up front so the balance can never be
// withdrawn twice while a request is in flight.
func RequestWithdrawalHandler(w http.ResponseWriter, r *http.Request) {
	agent, ok := requireAgent(w, r)
	if !ok {
		return
	}

	var req WithdrawRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	momo, err := utils.NormalizePhoneNumber(req.MomoNumber)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid mobile money number"})
		return
	}
	if _, ok := utils.DetectNetwork(momo); !ok {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Unrecognized mobile money number"})
		return
	}

	var setting models.Setting
	database.DB.First(&setting)
	if setting.MinWithdraw > 0 && req.Amount < setting.MinWithdraw {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Amount is below the minimum withdrawal"})
		return
	}
	if setting.MaxWithdraw > 0 && req.Amount > setting.MaxWithdraw {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Amount is above the maximum withdrawal"})
		return
	}

	amount := decimal.NewFromFloat(req.Amount)
	withdrawal := models.Withdrawal{
		AgentID:     agent.ID,
		Reference:   utils.GenerateWithdrawalReference(agent.ID),
		Amount:      amount,
		MomoNumber:  momo,
		MomoNetwork: req.MomoNetwork,
		Status:      "pending",
	}

	err = database.DB.Transaction(func(dbtx *gorm.DB) error {
		var fresh models.Agent
		if err := dbtx.Clauses(lockForUpdate()).First(&fresh, agent.ID).Error; err != nil {
			return err
		}
		if fresh.Balance.LessThan(amount) {
			return errInsufficientBalance
		}
		newBalance := fresh.Balance.Sub(amount)
		if err := dbtx.Model(&fresh).Update("balance", newBalance).Error; err != nil {
			return err
		}
		if err := dbtx.Create(&withdrawal).Error; err != nil {
			return err
		}
		return dbtx.Create(&models.WalletTransaction{
			AgentID:      agent.ID,
			Reference:    withdrawal.Reference,
			Flow:         "debit",
			Kind:         "withdrawal",
			Amount:       amount,
			BalanceAfter: newBalance,
		}).Error
	})
	if err == errInsufficientBalance {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Insufficient wallet balance"})
		return
	}
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to submit withdrawal"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Withdrawal request submitted",
		Data:    withdrawal,
	})
}

// GetWithdrawalsHandler lists the agent's withdrawal requests.
func GetWithdrawalsHandler(w http.ResponseWriter, r *http.Request) {
	agent, ok := requireAgent(w, r)
	if !ok {
		return
	}

	var withdrawals []models.Withdrawal
	if err := database.DB.Where("agent_id = ?", agent.ID).Order("created_at DESC").Limit(50).Find(&withdrawals).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to fetch withdrawals"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Withdrawals retrieved", Data: withdrawals})
}

// requireAgent loads the caller's approved agent record, writing the error
// response itself when the caller is not an approved agent.
func requireAgent(w http.ResponseWriter, r *http.Request) (*models.Agent, bool) {
	uid, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return nil, false
	}

	var agent models.Agent
	if err := database.DB.Where("user_id = ?", uid).First(&agent).Error; err != nil {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Agent account required"})
		return nil, false
	}
	if agent.Status != "approved" {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Agent account is not approved"})
		return nil, false
	}
	return &agent, true
}
