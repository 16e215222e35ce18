package admins

import (
	"net/http"
	"strconv"

	"smartdata/database"
	"smartdata/middleware"
	"smartdata/models"
	"smartdata/utils"

	"github.com/gorilla/mux"
)

type ProductRequest struct {
	Name       string  `json:"name" validate:"required"`
	Network    string  `json:"network" validate:"required"`
	VolumeMB   int     `json:"volume_mb" validate:"required"`
	Price      float64 `json:"price" validate:"required"`
	AgentPrice float64 `json:"agent_price" validate:"required"`
	VendorCode string  `json:"vendor_code"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

func validNetwork(n string) bool {
	return n == "MTN" || n == "Telecel" || n == "AirtelTigo"
}

// ListProductsHandler returns all products including inactive ones.
func ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	var products []models.Product
	q := database.DB.Order("network, volume_mb")
	if v := r.URL.Query().Get("network"); v != "" {
		q = q.Where("network = ?", v)
	}
	if err := q.Find(&products).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to fetch products"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Products retrieved", Data: products})
}

func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if !validNetwork(req.Network) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Network must be MTN, Telecel or AirtelTigo"})
		return
	}
	if req.Price <= 0 || req.AgentPrice <= 0 || req.AgentPrice > req.Price {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Agent price must be positive and not above the retail price"})
		return
	}

	product := models.Product{
		Name:       req.Name,
		Network:    req.Network,
		VolumeMB:   req.VolumeMB,
		Price:      req.Price,
		AgentPrice: req.AgentPrice,
		VendorCode: req.VendorCode,
		IsActive:   true,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := database.DB.Create(&product).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to create product"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Product created", Data: product})
}

func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid product id"})
		return
	}

	var product models.Product
	if err := database.DB.First(&product, id).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Product not found"})
		return
	}

	var req ProductRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if !validNetwork(req.Network) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Network must be MTN, Telecel or AirtelTigo"})
		return
	}
	if req.Price <= 0 || req.AgentPrice <= 0 || req.AgentPrice > req.Price {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Agent price must be positive and not above the retail price"})
		return
	}

	updates := map[string]interface{}{
		"name":        req.Name,
		"network":     req.Network,
		"volume_mb":   req.VolumeMB,
		"price":       req.Price,
		"agent_price": req.AgentPrice,
		"vendor_code": req.VendorCode,
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := database.DB.Model(&product).Updates(updates).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to update product"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Product updated"})
}

// DeleteProductHandler deactivates a product. Rows are never removed because
// past transactions reference them.
func DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid product id"})
		return
	}

	res := database.DB.Model(&models.Product{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to deactivate product"})
		return
	}
	if res.RowsAffected == 0 {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Product not found"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Product deactivated"})
}
