package controllers

import (
	"net/http"

	"smartdata/database"
	"smartdata/models"
	"smartdata/utils"
)

// InfoPublicHandler returns the public store profile used by the frontend
// (name, support contact, maintenance flag).
func InfoPublicHandler(w http.ResponseWriter, r *http.Request) {
	var setting models.Setting
	if err := database.DB.First(&setting).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Store info", Data: map[string]interface{}{
		"store_name":      setting.StoreName,
		"support_phone":   setting.SupportPhone,
		"maintenance":     setting.Maintenance,
		"closed_register": setting.ClosedRegister,
	}})
}
