package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"smartdata/database"
	"smartdata/models"
	"smartdata/utils"
)

// ApiKeyMiddleware authenticates developer API requests via bearer API keys.
// The key must match the issued format before any lookup; hashes are compared
// in constant time inside utils.VerifyApiKey. Failures never retry and always
// map to 401.
func ApiKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
				Success: false,
				Message: "Unauthorized: API key required",
			})
			return
		}
		presented := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))

		// Cheap shape check before touching the database
		if !utils.IsValidKeyFormat(presented) {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
				Success: false,
				Message: "Unauthorized: Malformed API key",
			})
			return
		}

		var key models.ApiKey
		if err := database.DB.Where("key_hash = ? AND revoked = ?", utils.HashApiKey(presented), false).First(&key).Error; err != nil {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
				Success: false,
				Message: "Unauthorized: Invalid API key",
			})
			return
		}

		if !utils.VerifyApiKey(presented, key.KeyHash) {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
				Success: false,
				Message: "Unauthorized: Invalid API key",
			})
			return
		}

		now := time.Now()
		_ = database.DB.Model(&key).Update("last_used_at", now).Error

		ctx := context.WithValue(r.Context(), utils.ApiKeyUserKey, key.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ApiKeyUserID extracts the key owner's user id placed in context by ApiKeyMiddleware.
func ApiKeyUserID(r *http.Request) (uint, bool) {
	v := r.Context().Value(utils.ApiKeyUserKey)
	id, ok := v.(uint)
	return id, ok
}
