package auth

import (
	"net/http"
	"strings"

	"smartdata/database"
	"smartdata/middleware"
	"smartdata/models"
	"smartdata/utils"

	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Name            string `json:"name" validate:"required,nameok"`
	Phone           string `json:"phone" validate:"required,phonegh"`
	Email           string `json:"email,omitempty"`
	Password        string `json:"password" validate:"required,pwdmin"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// RegisterHandler creates a customer account keyed by phone number.
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var setting models.Setting
	if err := database.DB.First(&setting).Error; err == nil && setting.ClosedRegister {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Registration is currently closed"})
		return
	}

	var req RegisterRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	phone, err := utils.NormalizePhoneNumber(req.Phone)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
		return
	}

	var existing models.User
	if err := database.DB.Where("phone = ?", phone).First(&existing).Error; err == nil {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "An account with this phone number already exists"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to create account"})
		return
	}

	user := models.User{
		Name:     strings.TrimSpace(req.Name),
		Phone:    phone,
		Password: string(hashed),
		Status:   "Active",
	}
	if req.Email != "" {
		email := strings.ToLower(strings.TrimSpace(req.Email))
		user.Email = &email
	}

	if err := database.DB.Create(&user).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to create account"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Account created", Data: map[string]interface{}{
		"id":    user.ID,
		"name":  user.Name,
		"phone": user.Phone,
	}})
}
