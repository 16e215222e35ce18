package users

import (
	"net/http"
	"regexp"
	"strings"

	"smartdata/database"
	"smartdata/middleware"
	"smartdata/models"
	"smartdata/utils"

	"gorm.io/gorm"
)

var slugRe = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{1,48}[a-z0-9])?$`)

type BecomeAgentRequest struct {
	Slug      string  `json:"slug" validate:"required"`
	StoreName string  `json:"store_name" validate:"required,nameok"`
	MarginPct float64 `json:"margin_pct"`
}

// BecomeAgentHandler registers the caller as a reseller. The storefront slug
// must be unique. New agents start as pending until an admin approves them.
func BecomeAgentHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req BecomeAgentRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !slugRe.MatchString(slug) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Slug must be 2-50 lowercase letters, digits or hyphens"})
		return
	}
	if req.MarginPct < 0 || req.MarginPct > 50 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Margin must be between 0 and 50 percent"})
		return
	}

	var existing models.Agent
	if err := database.DB.Where("user_id = ?", uid).First(&existing).Error; err == nil {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "You already have a storefront"})
		return
	}
	if err := database.DB.Where("slug = ?", slug).First(&existing).Error; err == nil {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "This store link is taken"})
		return
	}

	margin := req.MarginPct
	if margin == 0 {
		margin = 5
	}

	agent := models.Agent{
		UserID:    uid,
		Slug:      slug,
		StoreName: strings.TrimSpace(req.StoreName),
		MarginPct: margin,
		Status:    "pending",
	}

	err := database.DB.Transaction(func(dbtx *gorm.DB) error {
		if err := dbtx.Create(&agent).Error; err != nil {
			return err
		}
		return dbtx.Model(&models.User{}).Where("id = ?", uid).Update("is_agent", true).Error
	})
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to create storefront"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Storefront created. It goes live once approved.",
		Data:    agent,
	})
}

type UpdateStorefrontRequest struct {
	StoreName string   `json:"store_name,omitempty"`
	MarginPct *float64 `json:"margin_pct,omitempty"`
}

func UpdateStorefrontHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var agent models.Agent
	if err := database.DB.Where("user_id = ?", uid).First(&agent).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "You do not have a storefront"})
		return
	}

	var req UpdateStorefrontRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	updates := map[string]interface{}{}
	if s := strings.TrimSpace(req.StoreName); s != "" {
		updates["store_name"] = s
	}
	if req.MarginPct != nil {
		if *req.MarginPct < 0 || *req.MarginPct > 50 {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Margin must be between 0 and 50 percent"})
			return
		}
		updates["margin_pct"] = *req.MarginPct
	}
	if len(updates) == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Nothing to update"})
		return
	}

	if err := database.DB.Model(&agent).Updates(updates).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to update storefront"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Storefront updated"})
}

// GetStorefrontHandler returns the caller's own storefront settings.
func GetStorefrontHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var agent models.Agent
	if err := database.DB.Where("user_id = ?", uid).First(&agent).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "You do not have a storefront"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Storefront retrieved", Data: agent})
}
