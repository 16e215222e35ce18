package admins

import (
	"net/http"
	"strconv"

	"smartdata/database"
	"smartdata/middleware"
	"smartdata/models"
	"smartdata/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListWithdrawalsHandler returns withdrawal requests, optionally by status.
func ListWithdrawalsHandler(w http.ResponseWriter, r *http.Request) {
	page, size := parsePagination(r)
	q := database.DB.Model(&models.Withdrawal{}).Preload("Agent")
	if v := r.URL.Query().Get("status"); v != "" {
		q = q.Where("status = ?", v)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to fetch withdrawals"})
		return
	}

	var withdrawals []models.Withdrawal
	if err := q.Order("created_at DESC").Limit(size).Offset((page - 1) * size).Find(&withdrawals).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to fetch withdrawals"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Withdrawals retrieved",
		Data: map[string]interface{}{
			"withdrawals": withdrawals,
			"pagination": map[string]interface{}{
				"page":      page,
				"page_size": size,
				"total":     total,
			},
		},
	})
}

type ReviewWithdrawalRequest struct {
	Action string  `json:"action" validate:"required"` // approve, reject, paid
	Note   *string `json:"note,omitempty"`
}

// ReviewWithdrawalHandler moves a withdrawal through its lifecycle. Rejecting
// a request refunds the held amount back to the agent's wallet.
func ReviewWithdrawalHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid withdrawal id"})
		return
	}

	var req ReviewWithdrawalRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	var newStatus string
	switch req.Action {
	case "approve":
		newStatus = "approved"
	case "reject":
		newStatus = "rejected"
	case "paid":
		newStatus = "paid"
	default:
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "action must be approve, reject or paid"})
		return
	}

	var withdrawal models.Withdrawal
	if err := database.DB.First(&withdrawal, id).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Withdrawal not found"})
		return
	}

	// Allowed moves: pending -> approved/rejected, approved -> paid
	valid := (withdrawal.Status == "pending" && (newStatus == "approved" || newStatus == "rejected")) ||
		(withdrawal.Status == "approved" && newStatus == "paid")
	if !valid {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{
			Success: false,
			Message: "Cannot move withdrawal from " + withdrawal.Status + " to " + newStatus,
		})
		return
	}

	err = database.DB.Transaction(func(dbtx *gorm.DB) error {
		updates := map[string]interface{}{"status": newStatus}
		if req.Note != nil {
			updates["admin_note"] = req.Note
		}
		if err := dbtx.Model(&withdrawal).Updates(updates).Error; err != nil {
			return err
		}
		if newStatus != "rejected" {
			return nil
		}

		// Refund the amount that was debited when the request was opened
		var agent models.Agent
		if err := dbtx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&agent, withdrawal.AgentID).Error; err != nil {
			return err
		}
		newBalance := agent.Balance.Add(withdrawal.Amount)
		if err := dbtx.Model(&agent).Update("balance", newBalance).Error; err != nil {
			return err
		}
		return dbtx.Create(&models.WalletTransaction{
			AgentID:      agent.ID,
			Reference:    withdrawal.Reference + "-REFUND",
			Flow:         "credit",
			Kind:         "withdrawal_refund",
			Amount:       withdrawal.Amount,
			BalanceAfter: newBalance,
			Note:         req.Note,
		}).Error
	})
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to update withdrawal"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Withdrawal " + newStatus})
}
