package admins

import (
	"net/http"

	"smartdata/database"
	"smartdata/middleware"
	"smartdata/models"
	"smartdata/utils"
)

type SettingsRequest struct {
	StoreName      *string  `json:"store_name,omitempty"`
	SupportPhone   *string  `json:"support_phone,omitempty"`
	MinWithdraw    *float64 `json:"min_withdraw,omitempty"`
	MaxWithdraw    *float64 `json:"max_withdraw,omitempty"`
	Maintenance    *bool    `json:"maintenance,omitempty"`
	ClosedRegister *bool    `json:"closed_register,omitempty"`
}

func GetSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var setting models.Setting
	if err := database.DB.First(&setting).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to fetch settings"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Settings retrieved", Data: setting})
}

// UpdateSettingsHandler patches the single settings row. Only the fields
// present in the request change.
func UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	updates := map[string]interface{}{}
	if req.StoreName != nil {
		updates["store_name"] = *req.StoreName
	}
	if req.SupportPhone != nil {
		updates["support_phone"] = *req.SupportPhone
	}
	if req.MinWithdraw != nil {
		if *req.MinWithdraw < 0 {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "min_withdraw cannot be negative"})
			return
		}
		updates["min_withdraw"] = *req.MinWithdraw
	}
	if req.MaxWithdraw != nil {
		if *req.MaxWithdraw < 0 {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "max_withdraw cannot be negative"})
			return
		}
		updates["max_withdraw"] = *req.MaxWithdraw
	}
	if req.Maintenance != nil {
		updates["maintenance"] = *req.Maintenance
	}
	if req.ClosedRegister != nil {
		updates["closed_register"] = *req.ClosedRegister
	}
	if len(updates) == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Nothing to update"})
		return
	}

	var setting models.Setting
	if err := database.DB.FirstOrCreate(&setting).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to update settings"})
		return
	}
	if err := database.DB.Model(&setting).Updates(updates).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to update settings"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Settings updated"})
}
