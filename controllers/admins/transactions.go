package admins

import (
	"net/http"
	"strconv"
	"strings"

	"smartdata/controllers"
	"smartdata/database"
	"smartdata/models"
	"smartdata/utils"

	"github.com/gorilla/mux"
)

func parsePagination(r *http.Request) (page, size int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	size, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	if size < 1 {
		size = 25
	}
	if size > 200 {
		size = 200
	}
	return page, size
}

// ListTransactionsHandler is the back-office order search: filter by any of
// the three status axes, product type, network, or a reference/phone search.
func ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	page, size := parsePagination(r)
	q := database.DB.Model(&models.Transaction{})

	if v := r.URL.Query().Get("status"); v != "" {
		q = q.Where("status = ?", v)
	}
	if v := r.URL.Query().Get("payment_status"); v != "" {
		q = q.Where("payment_status = ?", v)
	}
	if v := r.URL.Query().Get("delivery_status"); v != "" {
		q = q.Where("delivery_status = ?", v)
	}
	if v := r.URL.Query().Get("type"); v != "" {
		q = q.Where("product_type = ?", v)
	}
	if v := r.URL.Query().Get("network"); v != "" {
		q = q.Where("network = ?", v)
	}
	if v := strings.TrimSpace(r.URL.Query().Get("search")); v != "" {
		like := "%" + v + "%"
		q = q.Where("reference LIKE ? OR customer_phone LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to fetch transactions"})
		return
	}

	var txs []models.Transaction
	if err := q.Order("created_at DESC").Limit(size).Offset((page - 1) * size).Find(&txs).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to fetch transactions"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Transactions retrieved",
		Data: map[string]interface{}{
			"transactions": txs,
			"pagination": map[string]interface{}{
				"page":      page,
				"page_size": size,
				"total":     total,
			},
		},
	})
}

// GetTransactionHandler returns one order by reference.
func GetTransactionHandler(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["reference"]

	var tx models.Transaction
	if err := database.DB.Where("reference = ?", ref).First(&tx).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Transaction not found"})
		return
	}

	var deliveries []models.WebhookDelivery
	database.DB.Where("reference = ?", ref).Order("created_at DESC").Find(&deliveries)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Transaction retrieved",
		Data: map[string]interface{}{
			"transaction":        tx,
			"webhook_deliveries": deliveries,
		},
	})
}

// ResendWebhookHandler re-fires the status notification for an order. Used
// when a customer's endpoint was down during the original delivery.
func ResendWebhookHandler(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["reference"]

	var tx models.Transaction
	if err := database.DB.Where("reference = ?", ref).First(&tx).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Transaction not found"})
		return
	}
	if tx.UserID == nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Guest orders have no webhook subscriber"})
		return
	}

	controllers.NotifyOrderStatus(&tx, utils.EventOrderStatusUpdated, tx.Status)

	utils.WriteJSON(w, http.StatusAccepted, utils.APIResponse{Success: true, Message: "Webhook resend queued"})
}

// RetryDeliveryHandler re-submits a paid but undelivered order to the vendor.
func RetryDeliveryHandler(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["reference"]

	var tx models.Transaction
	if err := database.DB.Where("reference = ?", ref).First(&tx).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Transaction not found"})
		return
	}
	if tx.PaymentStatus != "paid" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Only paid orders can be retried"})
		return
	}
	if tx.DeliveryStatus == "delivered" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Order is already delivered"})
		return
	}

	controllers.DispatchFulfillment(r.Context(), &tx)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Delivery retry submitted"})
}
