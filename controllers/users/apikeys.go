package users

import (
	"net/http"
	"strconv"
	"time"

	"smartdata/database"
	"smartdata/middleware"
	"smartdata/models"
	"smartdata/utils"

	"github.com/gorilla/mux"
)

type CreateApiKeyRequest struct {
	Label    string `json:"label"`
	KeyClass string `json:"key_class"` // secret (default) or public
}

// ListApiKeysHandler returns the caller's keys. Raw keys are never returned
// here, only the display prefix.
func ListApiKeysHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var keys []models.ApiKey
	if err := database.DB.Where("user_id = ?", uid).Order("created_at DESC").Find(&keys).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to fetch API keys"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "API keys retrieved", Data: keys})
}

// CreateApiKeyHandler issues a new key. The raw key appears once in this
// response; only its hash is stored. Issuance is capped per account per hour.
func CreateApiKeyHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req CreateApiKeyRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	keyClass := req.KeyClass
	if keyClass == "" {
		keyClass = "secret"
	}
	if keyClass != "secret" && keyClass != "public" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "key_class must be secret or public"})
		return
	}

	allowed, retryAt := utils.AllowKeyIssuance(uid)
	if !allowed {
		utils.WriteJSON(w, http.StatusTooManyRequests, utils.APIResponse{
			Success: false,
			Message: "Key generation limit reached. Try again later.",
			Data:    map[string]interface{}{"retry_at": retryAt.UTC().Format(time.RFC3339)},
		})
		return
	}

	var raw string
	var err error
	if keyClass == "public" {
		raw, err = utils.GeneratePublicKey()
	} else {
		raw, err = utils.GenerateSecretKey()
	}
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to generate key"})
		return
	}

	key := models.ApiKey{
		UserID:   uid,
		Label:    req.Label,
		KeyHash:  utils.HashApiKey(raw),
		Prefix:   utils.KeyPrefix(raw),
		KeyClass: keyClass,
	}
	if err := database.DB.Create(&key).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to save key"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "API key created. Store it now; it will not be shown again.",
		Data: map[string]interface{}{
			"key":       raw,
			"id":        key.ID,
			"prefix":    key.Prefix,
			"key_class": key.KeyClass,
		},
	})
}

// RevokeApiKeyHandler marks a key as revoked. Revoked keys fail auth
// immediately; the record is kept for the audit trail.
func RevokeApiKeyHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid key id"})
		return
	}

	res := database.DB.Model(&models.ApiKey{}).
		Where("id = ? AND user_id = ?", id, uid).
		Update("revoked", true)
	if res.Error != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to revoke key"})
		return
	}
	if res.RowsAffected == 0 {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Key not found"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "API key revoked"})
}
