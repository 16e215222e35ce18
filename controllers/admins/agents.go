package admins

import (
	"net/http"
	"strconv"

	"smartdata/database"
	"smartdata/models"
	"smartdata/utils"

	"github.com/gorilla/mux"
)

// ListAgentsHandler returns agents, optionally filtered by status.
func ListAgentsHandler(w http.ResponseWriter, r *http.Request) {
	page, size := parsePagination(r)
	q := database.DB.Model(&models.Agent{}).Preload("User")
	if v := r.URL.Query().Get("status"); v != "" {
		q = q.Where("status = ?", v)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to fetch agents"})
		return
	}

	var agents []models.Agent
	if err := q.Order("created_at DESC").Limit(size).Offset((page - 1) * size).Find(&agents).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to fetch agents"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Agents retrieved",
		Data: map[string]interface{}{
			"agents": agents,
			"pagination": map[string]interface{}{
				"page":      page,
				"page_size": size,
				"total":     total,
			},
		},
	})
}

// SetAgentStatusHandler approves or suspends a storefront.
func SetAgentStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid agent id"})
		return
	}

	status := r.URL.Query().Get("status")
	if status != "approved" && status != "suspended" && status != "pending" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "status must be pending, approved or suspended"})
		return
	}

	res := database.DB.Model(&models.Agent{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to update agent"})
		return
	}
	if res.RowsAffected == 0 {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Agent not found"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Agent status updated"})
}
