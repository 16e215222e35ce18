package controllers

import (
	"log"
	"net/http"
	"time"

	"smartdata/database"
	"smartdata/middleware"
	"smartdata/models"
	"smartdata/utils"

	"github.com/gin-gonic/gin"
)

// Agent storefronts are served by a small gin sub-app mounted under /store.
// Prices shown there carry the agent's margin; the difference between the
// storefront price and the agent price is the profit credited on delivery.

// NewStorefrontRouter builds the gin engine mounted by the main router.
func NewStorefrontRouter(limiter *middleware.IPRateLimiter) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.GinAdapter(limiter.Middleware))

	store := engine.Group("/store/:slug")
	store.GET("", GetStorefrontHandler)
	store.GET("/products", GetStorefrontProductsHandler)
	store.POST("/checkout", StorefrontCheckoutHandler)

	return engine
}

func findApprovedAgent(c *gin.Context) (*models.Agent, bool) {
	slug := c.Param("slug")
	var agent models.Agent
	if err := database.DB.Where("slug = ? AND status = ?", slug, "approved").First(&agent).Error; err != nil {
		c.JSON(http.StatusNotFound, utils.APIResponse{Success: false, Message: "Store not found"})
		return nil, false
	}
	return &agent, true
}

// storefrontPrice applies the agent's margin on top of the agent price.
func storefrontPrice(agent *models.Agent, p *models.Product) float64 {
	return p.AgentPrice * (1 + agent.MarginPct/100)
}

// GetStorefrontHandler handles GET /store/:slug
func GetStorefrontHandler(c *gin.Context) {
	agent, ok := findApprovedAgent(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, utils.APIResponse{Success: true, Message: "Store", Data: map[string]interface{}{
		"store_name": agent.StoreName,
		"slug":       agent.Slug,
	}})
}

// GetStorefrontProductsHandler handles GET /store/:slug/products
func GetStorefrontProductsHandler(c *gin.Context) {
	agent, ok := findApprovedAgent(c)
	if !ok {
		return
	}

	var products []models.Product
	if err := database.DB.Where("is_active = ?", true).Order("network, volume_mb").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	type storefrontProduct struct {
		ID       uint    `json:"id"`
		Name     string  `json:"name"`
		Network  string  `json:"network"`
		VolumeMB int     `json:"volume_mb"`
		Price    float64 `json:"price"`
	}
	items := make([]storefrontProduct, 0, len(products))
	for _, p := range products {
		items = append(items, storefrontProduct{
			ID:       p.ID,
			Name:     p.Name,
			Network:  p.Network,
			VolumeMB: p.VolumeMB,
			Price:    storefrontPrice(agent, &p),
		})
	}
	c.JSON(http.StatusOK, utils.APIResponse{Success: true, Message: "Products", Data: items})
}

// StorefrontCheckoutHandler handles POST /store/:slug/checkout. Same flow as
// the main checkout, with the agent attached and profit precomputed.
func StorefrontCheckoutHandler(c *gin.Context) {
	agent, ok := findApprovedAgent(c)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	if req.ProductID == 0 {
		c.JSON(http.StatusBadRequest, utils.APIResponse{Success: false, Message: "product_id is required"})
		return
	}

	var product models.Product
	if err := database.DB.Where("id = ? AND is_active = ?", req.ProductID, true).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, utils.APIResponse{Success: false, Message: "Product not found"})
		return
	}

	tx, items, status, err := BuildBundleOrder(&product, &req)
	if err != nil {
		c.JSON(status, utils.APIResponse{Success: false, Message: err.Error()})
		return
	}

	// Reprice each recipient's bundle with the agent margin; bulk entries may
	// have resolved to an override bundle, never the base price alone.
	amount, profit := 0.0, 0.0
	for i := range items {
		unit := storefrontPrice(agent, &items[i])
		amount += unit
		profit += unit - items[i].AgentPrice
	}
	tx.Amount = amount
	tx.Profit = profit
	tx.AgentID = &agent.ID
	tx.UserID = &agent.UserID

	if err := database.DB.Create(tx).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to create order"})
		return
	}

	client := &http.Client{Timeout: 20 * time.Second}
	initResp, err := utils.InitializePaystackTransaction(c.Request.Context(), client, tx.Reference, req.Email, tx.Amount)
	if err != nil {
		log.Printf("[storefront] paystack init failed for %s: %v", tx.Reference, err)
		c.JSON(http.StatusBadGateway, utils.APIResponse{Success: false, Message: "Payment initialization failed, please try again"})
		return
	}

	NotifyOrderStatus(tx, utils.EventOrderCreated, "")

	c.JSON(http.StatusCreated, utils.APIResponse{Success: true, Message: "Order created", Data: checkoutResponse{
		Reference:        tx.Reference,
		Amount:           tx.Amount,
		AuthorizationURL: initResp.Data.AuthorizationURL,
	}})
}
