package routes

import (
	"net/http"
	"time"

	"smartdata/controllers/admins"
	"smartdata/controllers/api"
	"smartdata/middleware"

	"github.com/gorilla/mux"
)

func SetAdminRoutes(r *mux.Router) {
	// Rate limiter for admin login: 5 attempts per IP per minute
	adminLoginLimiter := middleware.NewIPRateLimiter(5, time.Minute)

	// Public admin routes
	r.Handle("/admin/login", adminLoginLimiter.Middleware(http.HandlerFunc(admins.LoginHandler))).Methods(http.MethodPost)

	// Protected admin routes
	adminRouter := r.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middleware.AdminAuthMiddleware)

	// Dashboard stats
	adminRouter.Handle("/dashboard", http.HandlerFunc(admins.DashboardHandler)).Methods(http.MethodGet)

	// Orders
	adminRouter.Handle("/transactions", http.HandlerFunc(admins.ListTransactionsHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/transactions/{reference}", http.HandlerFunc(admins.GetTransactionHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/transactions/{reference}/resend-webhook", http.HandlerFunc(admins.ResendWebhookHandler)).Methods(http.MethodPost)
	adminRouter.Handle("/transactions/{reference}/retry-delivery", http.HandlerFunc(admins.RetryDeliveryHandler)).Methods(http.MethodPost)

	// Product management
	adminRouter.Handle("/products", http.HandlerFunc(admins.ListProductsHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/products", http.HandlerFunc(admins.CreateProductHandler)).Methods(http.MethodPost)
	adminRouter.Handle("/products/{id:[0-9]+}", http.HandlerFunc(admins.UpdateProductHandler)).Methods(http.MethodPut)
	adminRouter.Handle("/products/{id:[0-9]+}", http.HandlerFunc(admins.DeleteProductHandler)).Methods(http.MethodDelete)

	// Result-checker stock
	adminRouter.Handle("/pins", http.HandlerFunc(admins.UploadPinsHandler)).Methods(http.MethodPost)
	adminRouter.Handle("/pins/stock", http.HandlerFunc(admins.ListPinStockHandler)).Methods(http.MethodGet)

	// Agents
	adminRouter.Handle("/agents", http.HandlerFunc(admins.ListAgentsHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/agents/{id:[0-9]+}/status", http.HandlerFunc(admins.SetAgentStatusHandler)).Methods(http.MethodPut)

	// Withdrawals
	adminRouter.Handle("/withdrawals", http.HandlerFunc(admins.ListWithdrawalsHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/withdrawals/{id:[0-9]+}", http.HandlerFunc(admins.ReviewWithdrawalHandler)).Methods(http.MethodPut)

	// Webhook delivery log
	adminRouter.Handle("/webhook-deliveries", http.HandlerFunc(admins.ListWebhookDeliveriesHandler)).Methods(http.MethodGet)

	// Store settings
	adminRouter.Handle("/settings", http.HandlerFunc(admins.GetSettingsHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/settings", http.HandlerFunc(admins.UpdateSettingsHandler)).Methods(http.MethodPut)
}

// SetApiRoutes registers the API-key-authenticated developer surface.
func SetApiRoutes(r *mux.Router) {
	apiLimiter := middleware.NewIPRateLimiter(300, time.Minute)

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(apiLimiter.Middleware)
	apiRouter.Use(middleware.ApiKeyMiddleware)

	apiRouter.Handle("/orders", http.HandlerFunc(api.CreateOrderHandler)).Methods(http.MethodPost)
	apiRouter.Handle("/orders/{reference}", http.HandlerFunc(api.GetOrderHandler)).Methods(http.MethodGet)
	apiRouter.Handle("/balance", http.HandlerFunc(api.GetBalanceHandler)).Methods(http.MethodGet)
}
