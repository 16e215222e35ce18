package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"smartdata/database"
	"smartdata/models"
	"smartdata/utils"
)

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

// LogoutHandler revokes the presented access token (via the jti revocation
// list) and the refresh token when provided.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	authz := r.Header.Get("Authorization")
	if authz != "" && strings.HasPrefix(authz, "Bearer ") {
		if _, claims, err := utils.ValidateAccessToken(strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))); err == nil {
			utils.RevokeToken(claims)
		}
	}

	var req LogoutRequest
	// Body is optional
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.RefreshToken != "" {
		_ = database.DB.Model(&models.RefreshToken{}).
			Where("id = ?", req.RefreshToken).
			Update("revoked", true).Error
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Logged out"})
}

// LogoutAllHandler revokes every refresh token belonging to the caller.
func LogoutAllHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	if err := database.DB.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", uid, false).
		Update("revoked", true).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to log out"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Logged out from all devices"})
}
