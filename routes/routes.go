package routes

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"smartdata/controllers"
	"smartdata/middleware"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

func optionsHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   "smartdata-api",
	})
}

func InitRouter() *mux.Router {
	r := mux.NewRouter()

	// Health check endpoint for Docker health checks (root level)
	r.Handle("/health", http.HandlerFunc(healthHandler)).Methods(http.MethodGet)

	// CORS: origins from CORS_ALLOWED_ORIGINS (comma-separated) or defaults
	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	origins := []string{
		"https://smartdatastoregh.com", "https://admin.smartdatastoregh.com",
		"http://localhost:3000", "http://localhost:8080", "http://127.0.0.1:3000", "http://127.0.0.1:8080",
	}
	if originsEnv != "" {
		for _, p := range strings.Split(originsEnv, ",") {
			if o := strings.TrimSpace(p); o != "" {
				origins = append(origins, o)
			}
		}
	}
	r.Use(func(next http.Handler) http.Handler {
		return handlers.CORS(
			handlers.AllowedOrigins(origins),
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}),
			handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-API-Key", "X-CRON-KEY", "X-Requested-With", "X-Request-ID"}),
			handlers.AllowCredentials(),
		)(next)
	})

	api := r.PathPrefix("/v1").Subrouter()

	// Catch-all OPTIONS handler for CORS preflight
	api.PathPrefix("/").HandlerFunc(optionsHandler).Methods(http.MethodOptions)

	// Rate limiter for cron: 1000/hour
	cronLimiter := middleware.NewIPRateLimiter(1000, time.Hour)
	// Rate limiter for inbound callbacks: 500/ip, whitelist, sliding window
	webhookLimiter := middleware.NewWebhookLimiter(500, time.Hour, []string{"127.0.0.1"})
	// Rate limiter for public checkout endpoints
	checkoutLimiter := middleware.NewIPRateLimiter(60, 5*time.Minute)

	// Payment gateway callback (signature-checked in the handler)
	api.Handle("/callback/payments", webhookLimiter.Middleware(http.HandlerFunc(controllers.PaystackWebhookHandler))).Methods(http.MethodPost)

	// Bundle vendor delivery callback
	api.Handle("/callback/fulfillment", webhookLimiter.Middleware(http.HandlerFunc(controllers.FulfillmentCallbackHandler))).Methods(http.MethodPost)

	// Cron endpoint reconciling stuck deliveries (protected via X-CRON-KEY header)
	api.Handle("/cron/reconcile-orders", cronLimiter.Middleware(http.HandlerFunc(controllers.CronReconcileOrdersHandler))).Methods(http.MethodPost)

	// Public catalog and order tracking
	api.Handle("/products", http.HandlerFunc(controllers.GetProductsHandler)).Methods(http.MethodGet)
	api.Handle("/products/{network}", http.HandlerFunc(controllers.GetProductsHandler)).Methods(http.MethodGet)
	api.Handle("/checkers/stock", http.HandlerFunc(controllers.GetCheckerStockHandler)).Methods(http.MethodGet)
	api.Handle("/orders/{reference}", http.HandlerFunc(controllers.GetOrderStatus)).Methods(http.MethodGet)

	// Public checkout (guest or authenticated)
	api.Handle("/checkout", checkoutLimiter.Middleware(http.HandlerFunc(controllers.CheckoutHandler))).Methods(http.MethodPost)
	api.Handle("/checkout/result-checker", checkoutLimiter.Middleware(http.HandlerFunc(controllers.CheckerCheckoutHandler))).Methods(http.MethodPost)

	// Public application info
	api.Handle("/info", http.HandlerFunc(controllers.InfoPublicHandler)).Methods(http.MethodGet)

	// Health check endpoint for Docker health checks
	api.Handle("/health", http.HandlerFunc(healthHandler)).Methods(http.MethodGet)

	// Live chat support
	chatLimiter := middleware.NewIPRateLimiter(500, 5*time.Minute)
	api.Handle("/chat/start", chatLimiter.Middleware(http.HandlerFunc(controllers.StartChatHandler))).Methods(http.MethodPost)
	api.Handle("/chat/{session_id:[0-9]+}/message", chatLimiter.Middleware(http.HandlerFunc(controllers.SendMessageHandler))).Methods(http.MethodPost)
	api.Handle("/chat/{session_id:[0-9]+}", chatLimiter.Middleware(http.HandlerFunc(controllers.GetChatHistoryHandler))).Methods(http.MethodGet)
	api.Handle("/chat/{session_id:[0-9]+}/end", chatLimiter.Middleware(http.HandlerFunc(controllers.EndChatHandler))).Methods(http.MethodPost)

	UsersRoutes(api)
	SetAdminRoutes(api)
	SetApiRoutes(api)

	// Agent storefront sub-app (gin)
	storefrontLimiter := middleware.NewIPRateLimiter(300, 5*time.Minute)
	r.PathPrefix("/store").Handler(controllers.NewStorefrontRouter(storefrontLimiter))

	return r
}
