package users

import (
	"net/http"
	"strconv"

	"smartdata/database"
	"smartdata/models"
	"smartdata/utils"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// parsePagination reads page/page_size query params, clamping to sane bounds.
func parsePagination(r *http.Request) (page, size int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	size, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

// GetTransactionsHandler lists the caller's orders, newest first. Optional
// filters: status, payment_status, delivery_status, type, network.
func GetTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	page, size := parsePagination(r)
	q := database.DB.Model(&models.Transaction{}).Where("user_id = ?", uid)

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
