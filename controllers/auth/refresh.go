package auth

import (
	"net/http"
	"time"

	"smartdata/database"
	"smartdata/middleware"
	"smartdata/models"
	"smartdata/utils"
)

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshHandler rotates the refresh token and issues a new access token.
func RefreshHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	var rt models.RefreshToken
	if err := database.DB.Where("id = ?", req.RefreshToken).First(&rt).Error; err != nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Invalid refresh token"})
		return
	}
	if rt.Revoked || time.Now().After(rt.ExpiresAt) {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Refresh token expired, please log in again"})
		return
	}

	// Rotate: revoke the used token, issue a fresh one
	if err := database.DB.Model(&rt).Update("revoked", true).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to refresh session"})
		return
	}

	accessToken, err := utils.GenerateAccessToken(rt.UserID, "user")
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to refresh session"})
		return
	}
	newRefresh, err := utils.GenerateRefreshToken(rt.UserID)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to refresh session"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Session refreshed", Data: map[string]interface{}{
		"access_token":  accessToken,
		"refresh_token": newRefresh,
	}})
}
