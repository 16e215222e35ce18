package admins

import (
	"net/http"

	"smartdata/database"
	"smartdata/models"
	"smartdata/utils"
)

// ListWebhookDeliveriesHandler is the delivery audit log. Filter by success
// flag or reference to chase a customer complaint.
func ListWebhookDeliveriesHandler(w http.ResponseWriter, r *http.Request) {
	page, size := parsePagination(r)
	q := database.DB.Model(&models.WebhookDelivery{})

	if v := r.URL.Query().Get("reference"); v != "" {
		q = q.Where("reference = ?", v)
	}
	switch r.URL.Query().Get("success") {
	case "true":
		q = q.Where("success = ?", true)
	case "false":
		q = q.Where("success = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to fetch deliveries"})
		return
	}

	var deliveries []models.WebhookDelivery
	if err := q.Order("created_at DESC").Limit(size).Offset((page - 1) * size).Find(&deliveries).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to fetch deliveries"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Webhook deliveries retrieved",
		Data: map[string]interface{}{
			"deliveries": deliveries,
			"pagination": map[string]interface{}{
				"page":      page,
				"page_size": size,
				"total":     total,
			},
		},
	})
}
