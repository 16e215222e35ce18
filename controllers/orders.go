package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"smartdata/database"
	"smartdata/models"
	"smartdata/utils"

	"github.com/gorilla/mux"
)

// Order status reconciliation. Delivery state arrives either through the
// vendor's callback or by polling via the cron endpoint; both paths converge
// on ApplyDeliveryUpdate, which owns the terminal-state guard and triggers the
// outbound webhook notification.

// GetOrderStatus handles GET /orders/{reference} for customers polling their order.
func GetOrderStatus(w http.ResponseWriter, r *http.Request) {
	reference := mux.Vars(r)["reference"]
	if reference == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Reference is required"})
		return
	}

	var tx models.Transaction
	if err := database.DB.Where("reference = ?", reference).First(&tx).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Order not found"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Order found", Data: map[string]interface{}{
		"reference":       tx.Reference,
		"status":          tx.Status,
		"payment_status":  tx.PaymentStatus,
		"delivery_status": tx.DeliveryStatus,
		"product_name":    tx.ProductName,
		"network":         tx.Network,
		"amount":          tx.Amount,
		"created_at":      tx.CreatedAt,
		"completed_at":    tx.CompletedAt,
	}})
}

type fulfillmentCallback struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	OrderID   string `json:"order_id"`
	Message   string `json:"message"`
}

// FulfillmentCallbackHandler receives delivery progress pushed by the vendor.
func FulfillmentCallbackHandler(w http.ResponseWriter, r *http.Request) {
	var payload fulfillmentCallback
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON"})
		return
	}
	if payload.Reference == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Reference is required"})
		return
	}

	deliveryStatus, ok := utils.MapVendorStatus(payload.Status)
	if !ok {
		log.Printf("[orders] unknown vendor status %q for %s, ignoring", payload.Status, payload.Reference)
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Ignored"})
		return
	}

	var tx models.Transaction
	if err := database.DB.Where("reference = ?", payload.Reference).First(&tx).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Order not found"})
		return
	}

	if err := ApplyDeliveryUpdate(&tx, deliveryStatus); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to update order"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Order updated"})
}

// CronReconcileOrdersHandler polls the vendor for every paid order whose
// delivery is still in flight. Protected via X-CRON-KEY header.
func CronReconcileOrdersHandler(w http.ResponseWriter, r *http.Request) {
	cronKey := os.Getenv("CRON_KEY")
	if cronKey == "" || r.Header.Get("X-CRON-KEY") != cronKey {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var pending []models.Transaction
	err := database.DB.
		Where("payment_status = ? AND delivery_status IN ? AND status = ?",
			models.PaymentPaid,
			[]string{models.DeliveryPending, models.DeliveryProcessing},
			models.StatusPending).
		Order("id ASC").Limit(100).Find(&pending).Error
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	client := &http.Client{Timeout: 15 * time.Second}
	checked, updated := 0, 0
	for i := range pending {
		tx := &pending[i]
		checked++
		resp, err := utils.CheckVendorOrderStatus(r.Context(), client, tx.Reference)
		if err != nil {
			log.Printf("[orders] reconcile %s: vendor check failed: %v", tx.Reference, err)
			continue
		}
		deliveryStatus, ok := utils.MapVendorStatus(resp.Status)
		if !ok || deliveryStatus == tx.DeliveryStatus {
			continue
		}
		if err := ApplyDeliveryUpdate(tx, deliveryStatus); err != nil {
			log.Printf("[orders] reconcile %s: update failed: %v", tx.Reference, err)
			continue
		}
		updated++
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Reconcile complete", Data: map[string]int{
		"checked": checked,
		"updated": updated,
	}})
}

// ApplyDeliveryUpdate moves a transaction along the delivery axis and derives
// the lifecycle status. Terminal transactions are never touched again; the
// outbound webhook fires after the row is persisted and can never roll the
// update back.
func ApplyDeliveryUpdate(tx *models.Transaction, deliveryStatus string) error {
	if tx.IsTerminal() {
		log.Printf("[orders] %s already %s, ignoring delivery update to %s", tx.Reference, tx.Status, deliveryStatus)
		return nil
	}
	if deliveryStatus == tx.DeliveryStatus {
		return nil
	}

	previousStatus := tx.Status
	updates := map[string]interface{}{"delivery_status": deliveryStatus}

	switch deliveryStatus {
	case models.DeliveryDelivered:
		now := time.Now()
		updates["status"] = models.StatusCompleted
		updates["completed_at"] = now
		tx.Status = models.StatusCompleted
		tx.CompletedAt = &now
	case models.DeliveryFailed:
		updates["status"] = models.StatusFailed
		tx.Status = models.StatusFailed
	}
	tx.DeliveryStatus = deliveryStatus

	if err := database.DB.Model(&models.Transaction{}).Where("reference = ?", tx.Reference).Updates(updates).Error; err != nil {
		return err
	}

	if tx.Status == models.StatusCompleted && tx.AgentID != nil {
		if err := creditAgentProfit(tx); err != nil {
			log.Printf("[wallet] failed to credit agent %d for %s: %v", *tx.AgentID, tx.Reference, err)
		}
	}

	NotifyOrderStatus(tx, utils.EventOrderStatusUpdated, previousStatus)
	return nil
}

// NotifyOrderStatus delivers the order webhook for the account that owns the
// transaction, if one is configured. Best-effort: runs in its own goroutine,
// outcome is recorded in webhook_deliveries for the admin view.
func NotifyOrderStatus(tx *models.Transaction, event, previousStatus string) {
	if tx.UserID == nil {
		return
	}

	var setting models.WebhookSetting
	if err := database.DB.Where("user_id = ? AND enabled = ?", *tx.UserID, true).First(&setting).Error; err != nil {
		return
	}

	payload := utils.BuildWebhookPayload(tx, event, previousStatus)
	reference := tx.Reference

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		result := utils.DeliverWebhook(ctx, setting.URL, payload, setting.Secret, utils.DefaultWebhookRetries)
		if !result.Success {
			log.Printf("[webhook] delivery to %s for %s failed after %d attempts: %s", setting.URL, reference, result.Attempts, result.Err)
		}

		record := models.WebhookDelivery{
			Reference:  reference,
			URL:        setting.URL,
			Event:      event,
			Success:    result.Success,
			StatusCode: result.StatusCode,
			Attempts:   result.Attempts,
		}
		if result.Err != "" {
			record.Error = &result.Err
		}
		if err := database.DB.Create(&record).Error; err != nil {
			log.Printf("[webhook] failed to record delivery for %s: %v", reference, err)
		}
	}()
}
