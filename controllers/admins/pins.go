package admins

import (
	"net/http"
	"strings"

	"smartdata/database"
	"smartdata/middleware"
	"smartdata/models"
	"smartdata/utils"

	"gorm.io/gorm"
)

type UploadPinsRequest struct {
	CheckerType string  `json:"checker_type" validate:"required"`
	Price       float64 `json:"price" validate:"required"`
	Pins        []struct {
		Serial string `json:"serial"`
		Pin    string `json:"pin"`
	} `json:"pins" validate:"required"`
}

func validCheckerType(t string) bool {
	return t == "WASSCE" || t == "BECE" || t == "NOVDEC"
}

// UploadPinsHandler loads a batch of result-checker pins into stock. The whole
// batch is inserted in one transaction; a duplicate serial rejects the batch.
func UploadPinsHandler(w http.ResponseWriter, r *http.Request) {
	var req UploadPinsRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	checkerType := strings.ToUpper(strings.TrimSpace(req.CheckerType))
	if !validCheckerType(checkerType) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "checker_type must be WASSCE, BECE or NOVDEC"})
		return
	}
	if req.Price <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Price must be positive"})
		return
	}
	if len(req.Pins) == 0 || len(req.Pins) > 1000 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Upload between 1 and 1000 pins per batch"})
		return
	}

	rows := make([]models.ResultCheckerPin, 0, len(req.Pins))
	for _, p := range req.Pins {
		serial := strings.TrimSpace(p.Serial)
		pin := strings.TrimSpace(p.Pin)
		if serial == "" || pin == "" {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Every entry needs both serial and pin"})
			return
		}
		rows = append(rows, models.ResultCheckerPin{
			CheckerType: checkerType,
			Serial:      serial,
			Pin:         pin,
			Price:       req.Price,
			Status:      "available",
		})
	}

	err := database.DB.Transaction(func(dbtx *gorm.DB) error {
		return dbtx.CreateInBatches(rows, 100).Error
	})
	if err != nil {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Upload rejected: duplicate or invalid serials in batch"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Pins uploaded",
		Data:    map[string]interface{}{"count": len(rows)},
	})
}

// ListPinStockHandler summarizes available and sold pins per checker type.
func ListPinStockHandler(w http.ResponseWriter, r *http.Request) {
	var stock []struct {
		CheckerType string `json:"checker_type"`
		Status      string `json:"status"`
		Count       int64  `json:"count"`
	}
	if err := database.DB.Model(&models.ResultCheckerPin{}).
		Select("checker_type, status, COUNT(*) as count").
		Group("checker_type, status").
		Scan(&stock).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to fetch stock"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Stock retrieved", Data: stock})
}
