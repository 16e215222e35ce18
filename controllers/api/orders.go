package api

import (
	"log"
	"net/http"
	"time"

	"smartdata/controllers"
	"smartdata/database"
	"smartdata/middleware"
	"smartdata/models"
	"smartdata/utils"

	"github.com/gorilla/mux"
)

// Developer API surface. Authentication is an API key; requests act on behalf
// of the key's account, so orders land in that account's history and trigger
// the account's webhook.

// CreateOrderHandler handles POST /api/orders for single and bulk bundle
// orders. The response carries the payment authorization URL; delivery starts
// once the charge is confirmed, exactly like a storefront checkout.
func CreateOrderHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.ApiKeyUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req controllers.CheckoutRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if req.ProductID == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "product_id is required"})
		return
	}

	var product models.Product
	if err := database.DB.Where("id = ? AND is_active = ?", req.ProductID, true).First(&product).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Product not found"})
		return
	}

	tx, _, status, err := controllers.BuildBundleOrder(&product, &req)
	if err != nil {
		utils.WriteJSON(w, status, utils.APIResponse{Success: false, Message: err.Error()})
		return
	}
	tx.UserID = &uid

	if err := database.DB.Create(tx).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to create order"})
		return
	}

	client := &http.Client{Timeout: 20 * time.Second}
	initResp, err := utils.InitializePaystackTransaction(r.Context(), client, tx.Reference, req.Email, tx.Amount)
	if err != nil {
		log.Printf("[api] paystack init failed for %s: %v", tx.Reference, err)
		utils.WriteJSON(w, http.StatusBadGateway, utils.APIResponse{Success: false, Message: "Payment initialization failed"})
		return
	}

	controllers.NotifyOrderStatus(tx, utils.EventOrderCreated, "")

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Order created",
		Data: map[string]interface{}{
			"reference":         tx.Reference,
			"amount":            tx.Amount,
			"authorization_url": initResp.Data.AuthorizationURL,
		},
	})
}

// GetOrderHandler returns one of the account's orders by reference.
func GetOrderHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.ApiKeyUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	ref := mux.Vars(r)["reference"]
	var tx models.Transaction
	if err := database.DB.Where("reference = ? AND user_id = ?", ref, uid).First(&tx).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Order not found"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Order retrieved", Data: tx})
}

// GetBalanceHandler returns the account's agent wallet balance. Accounts
// without a storefront get a zero balance rather than an error.
func GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.ApiKeyUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	balance := "0.00"
	var agent models.Agent
	if err := database.DB.Where("user_id = ?", uid).First(&agent).Error; err == nil {
		balance = agent.Balance.StringFixed(2)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Balance retrieved",
		Data:    map[string]interface{}{"balance": balance, "currency": "GHS"},
	})
}
