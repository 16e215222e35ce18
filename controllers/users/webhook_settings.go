package users

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"smartdata/database"
	"smartdata/middleware"
	"smartdata/models"
	"smartdata/utils"
)

type WebhookSettingRequest struct {
	URL     string `json:"url" validate:"required"`
	Enabled *bool  `json:"enabled,omitempty"`
}

// GetWebhookSettingHandler returns the caller's webhook subscription. The
// signing secret is included here so the user can configure their receiver.
func GetWebhookSettingHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var setting models.WebhookSetting
	if err := database.DB.Where("user_id = ?", uid).First(&setting).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "No webhook configured"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Webhook setting retrieved",
		Data: map[string]interface{}{
			"url":     setting.URL,
			"secret":  setting.Secret,
			"enabled": setting.Enabled,
		},
	})
}

// SetWebhookSettingHandler creates or replaces the caller's webhook URL. A
// fresh signing secret is generated on first setup and kept on URL changes.
func SetWebhookSettingHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req WebhookSettingRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	parsed, err := url.Parse(req.URL)
	if err != nil || parsed.Scheme != "https" || parsed.Host == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Webhook URL must be a valid https URL"})
		return
	}

	var setting models.WebhookSetting
	if err := database.DB.Where("user_id = ?", uid).First(&setting).Error; err != nil {
		secret, err := generateWebhookSecret()
		if err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to save webhook"})
			return
		}
		setting = models.WebhookSetting{UserID: uid, URL: req.URL, Secret: secret, Enabled: true}
		if req.Enabled != nil {
			setting.Enabled = *req.Enabled
		}
		if err := database.DB.Create(&setting).Error; err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to save webhook"})
			return
		}
	} else {
		updates := map[string]interface{}{"url": req.URL}
		if req.Enabled != nil {
			updates["enabled"] = *req.Enabled
		}
		if err := database.DB.Model(&setting).Updates(updates).Error; err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to save webhook"})
			return
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Webhook saved",
		Data: map[string]interface{}{
			"url":     req.URL,
			"secret":  setting.Secret,
			"enabled": setting.Enabled,
		},
	})
}

// RotateWebhookSecretHandler replaces the signing secret. Existing deliveries
// in flight keep the old signature; rotate on the receiving side first.
func RotateWebhookSecretHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var setting models.WebhookSetting
	if err := database.DB.Where("user_id = ?", uid).First(&setting).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "No webhook configured"})
		return
	}

	secret, err := generateWebhookSecret()
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to rotate secret"})
		return
	}
	if err := database.DB.Model(&setting).Update("secret", secret).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to rotate secret"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Webhook secret rotated",
		Data:    map[string]interface{}{"secret": secret},
	})
}

// TestWebhookHandler fires a sample payload at the configured URL and reports
// the delivery outcome synchronously.
func TestWebhookHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var setting models.WebhookSetting
	if err := database.DB.Where("user_id = ? AND enabled = ?", uid, true).First(&setting).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "No enabled webhook configured"})
		return
	}

	sample := models.Transaction{
		Reference:      fmt.Sprintf("SDS-TEST-%d", time.Now().Unix()),
		Amount:         1.00,
		ProductName:    "Test Bundle 1GB",
		ProductType:    "bundle",
		Network:        "MTN",
		CustomerPhone:  "0240000000",
		Status:         "completed",
		PaymentStatus:  "paid",
		DeliveryStatus: "delivered",
		CreatedAt:      time.Now(),
	}
	payload := utils.BuildWebhookPayload(&sample, utils.EventOrderStatusUpdated, "pending")

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	result := utils.DeliverWebhook(ctx, setting.URL, payload, setting.Secret, 1)

	msg := "Test webhook delivered"
	if !result.Success {
		msg = "Test webhook failed"
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: result.Success,
		Message: msg,
		Data: map[string]interface{}{
			"status_code": result.StatusCode,
			"attempts":    result.Attempts,
		},
	})
}

func generateWebhookSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "whsec_" + hex.EncodeToString(b), nil
}
