package controllers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"smartdata/database"
	"smartdata/models"
	"smartdata/utils"

	"gorm.io/gorm"
)

// Paystack charge webhook. The body is only a hint: the authoritative payment
// state always comes from a verify call back to the gateway.

type paystackEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
	} `json:"data"`
}

// PaystackWebhookHandler handles POST /callback/payments.
func PaystackWebhookHandler(w http.ResponseWriter, r *http.Request) {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid body"})
		return
	}

	if !utils.VerifyPaystackSignature(bodyBytes, r.Header.Get("x-paystack-signature")) {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Invalid signature"})
		return
	}

	var event paystackEvent
	if err := json.Unmarshal(bodyBytes, &event); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON"})
		return
	}

	// Only charge outcomes are relevant; acknowledge everything else so the
	// gateway stops redelivering.
	if event.Event != "charge.success" && event.Event != "charge.failed" {
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Ignored"})
		return
	}
	if event.Data.Reference == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Reference missing"})
		return
	}

	var tx models.Transaction
	if err := database.DB.Where("reference = ?", event.Data.Reference).First(&tx).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Order not found"})
		return
	}

	// Idempotency: a settled payment axis is never reprocessed
	if paymentSettled(&tx) {
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Already processed"})
		return
	}

	client := &http.Client{Timeout: 20 * time.Second}
	verify, err := utils.VerifyPaystackTransaction(r.Context(), client, tx.Reference)
	if err != nil {
		log.Printf("[payments] verify failed for %s: %v", tx.Reference, err)
		utils.WriteJSON(w, http.StatusBadGateway, utils.APIResponse{Success: false, Message: "Verification failed"})
		return
	}

	if verify.Data.Status == "success" {
		won, err := settlePayment(database.DB, tx.Reference, map[string]interface{}{"payment_status": models.PaymentPaid})
		if err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to update payment"})
			return
		}
		if !won {
			utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Already processed"})
			return
		}
		tx.PaymentStatus = models.PaymentPaid
		DispatchFulfillment(r.Context(), &tx)
	} else {
		won, err := settlePayment(database.DB, tx.Reference, map[string]interface{}{
			"payment_status": models.PaymentFailed,
			"status":         models.StatusFailed,
		})
		if err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to update payment"})
			return
		}
		if !won {
			utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Already processed"})
			return
		}
		prev := tx.Status
		tx.PaymentStatus = models.PaymentFailed
		tx.Status = models.StatusFailed
		NotifyOrderStatus(&tx, utils.EventOrderStatusUpdated, prev)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Processed"})
}

// paymentSettled reports whether the payment axis already left pending or the
// order is in a terminal state, in which case a redelivered webhook is
// acknowledged without reprocessing.
func paymentSettled(tx *models.Transaction) bool {
	return tx.PaymentStatus != models.PaymentPending || tx.IsTerminal()
}

// settlePayment moves the payment axis off pending in a single guarded
// update. Concurrent deliveries of the same webhook race to one winner; the
// losers see zero rows affected and must not dispatch fulfilment again.
func settlePayment(db *gorm.DB, reference string, updates map[string]interface{}) (bool, error) {
	res := pendingPaymentScope(db, reference).Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func pendingPaymentScope(db *gorm.DB, reference string) *gorm.DB {
	return db.Model(&models.Transaction{}).
		Where("reference = ? AND payment_status = ?", reference, models.PaymentPending)
}
