package controllers

import (
	"net/http"
	"strings"

	"smartdata/database"
	"smartdata/models"
	"smartdata/utils"

	"github.com/gorilla/mux"
)

// GetProductsHandler handles GET /products, optionally filtered to one carrier
// via GET /products/{network}.
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	network := strings.TrimSpace(mux.Vars(r)["network"])

	query := database.DB.Where("is_active = ?", true)
	if network != "" {
		query = query.Where("network = ?", network)
	}

	var products []models.Product
	if err := query.Order("network, volume_mb").Find(&products).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Products", Data: products})
}

// GetCheckerStockHandler handles GET /result-checkers: available stock counts
// and price per checker type.
func GetCheckerStockHandler(w http.ResponseWriter, r *http.Request) {
	type stockRow struct {
		CheckerType string  `json:"checker_type"`
		Available   int64   `json:"available"`
		Price       float64 `json:"price"`
	}

	var rows []stockRow
	err := database.DB.Model(&models.ResultCheckerPin{}).
		Select("checker_type, COUNT(*) AS available, MAX(price) AS price").
		Where("status = ?", "available").
		Group("checker_type").
		Scan(&rows).Error
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Result checker stock", Data: rows})
}
