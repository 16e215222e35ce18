package routes

import (
	"net/http"
	"time"

	"smartdata/controllers/auth"
	"smartdata/controllers/users"
	"smartdata/middleware"

	"github.com/gorilla/mux"
)

// UsersRoutes registers account, wallet and developer-key routes.
func UsersRoutes(api *mux.Router) {
	// Rate limiter for login/register: 60 per IP per 5 minutes
	loginLimiter := middleware.NewIPRateLimiter(60, 5*time.Minute)

	// Register & Login
	api.Handle("/register", loginLimiter.Middleware(http.HandlerFunc(auth.RegisterHandler))).Methods(http.MethodPost)
	api.Handle("/login", loginLimiter.Middleware(http.HandlerFunc(auth.LoginHandler))).Methods(http.MethodPost)
	api.Handle("/refresh", loginLimiter.Middleware(http.HandlerFunc(auth.RefreshHandler))).Methods(http.MethodPost)
	api.Handle("/logout", http.HandlerFunc(auth.LogoutHandler)).Methods(http.MethodPost)
	api.Handle("/logout-all", middleware.AuthMiddleware(http.HandlerFunc(auth.LogoutAllHandler))).Methods(http.MethodPost)

	// Account
	api.Handle("/user/profile", middleware.AuthMiddleware(http.HandlerFunc(users.GetProfileHandler))).Methods(http.MethodGet)
	api.Handle("/user/profile", middleware.AuthMiddleware(http.HandlerFunc(users.UpdateProfileHandler))).Methods(http.MethodPut)
	api.Handle("/user/change-password", middleware.AuthMiddleware(http.HandlerFunc(users.ChangePasswordHandler))).Methods(http.MethodPost)

	// Order history
	api.Handle("/user/transactions", middleware.AuthMiddleware(http.HandlerFunc(users.GetTransactionsHandler))).Methods(http.MethodGet)

	// Agent storefront management
	api.Handle("/user/agent", middleware.AuthMiddleware(http.HandlerFunc(users.BecomeAgentHandler))).Methods(http.MethodPost)
	api.Handle("/user/agent", middleware.AuthMiddleware(http.HandlerFunc(users.GetStorefrontHandler))).Methods(http.MethodGet)
	api.Handle("/user/agent", middleware.AuthMiddleware(http.HandlerFunc(users.UpdateStorefrontHandler))).Methods(http.MethodPut)

	// Wallet
	api.Handle("/user/wallet", middleware.AuthMiddleware(http.HandlerFunc(users.GetWalletHandler))).Methods(http.MethodGet)
	api.Handle("/user/wallet/ledger", middleware.AuthMiddleware(http.HandlerFunc(users.GetWalletLedgerHandler))).Methods(http.MethodGet)
	api.Handle("/user/wallet/withdraw", middleware.AuthMiddleware(http.HandlerFunc(users.RequestWithdrawalHandler))).Methods(http.MethodPost)
	api.Handle("/user/wallet/withdrawals", middleware.AuthMiddleware(http.HandlerFunc(users.GetWithdrawalsHandler))).Methods(http.MethodGet)

	// Developer API keys
	api.Handle("/user/api-keys", middleware.AuthMiddleware(http.HandlerFunc(users.ListApiKeysHandler))).Methods(http.MethodGet)
	api.Handle("/user/api-keys", middleware.AuthMiddleware(http.HandlerFunc(users.CreateApiKeyHandler))).Methods(http.MethodPost)
	api.Handle("/user/api-keys/{id:[0-9]+}", middleware.AuthMiddleware(http.HandlerFunc(users.RevokeApiKeyHandler))).Methods(http.MethodDelete)

	// Webhook subscription
	api.Handle("/user/webhook", middleware.AuthMiddleware(http.HandlerFunc(users.GetWebhookSettingHandler))).Methods(http.MethodGet)
	api.Handle("/user/webhook", middleware.AuthMiddleware(http.HandlerFunc(users.SetWebhookSettingHandler))).Methods(http.MethodPut)
	api.Handle("/user/webhook/rotate-secret", middleware.AuthMiddleware(http.HandlerFunc(users.RotateWebhookSecretHandler))).Methods(http.MethodPost)
	api.Handle("/user/webhook/test", middleware.AuthMiddleware(http.HandlerFunc(users.TestWebhookHandler))).Methods(http.MethodPost)
}
