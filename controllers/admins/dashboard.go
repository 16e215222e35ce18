package admins

import (
	"net/http"
	"time"

	"smartdata/database"
	"smartdata/models"
	"smartdata/utils"
)

// DashboardHandler returns the headline numbers shown on the admin home
// screen: today's sales, pending work, and stock levels.
func DashboardHandler(w http.ResponseWriter, r *http.Request) {
	todayStart := time.Now().Truncate(24 * time.Hour)

	var (
		todayOrders   int64
		todayRevenue  *float64
		pendingOrders int64
		failedToday   int64
		pendingCash   int64
		agentCount    int64
		checkerStock  []struct {
			CheckerType string `json:"checker_type"`
			Available   int64  `json:"available"`
		}
	)

	database.DB.Model(&models.Transaction{}).
		Where("payment_status = ? AND created_at >= ?", "paid", todayStart).
		Count(&todayOrders)

	database.DB.Model(&models.Transaction{}).
		Where("payment_status = ? AND created_at >= ?", "paid", todayStart).
		Select("SUM(amount)").Scan(&todayRevenue)

	database.DB.Model(&models.Transaction{}).
		Where("payment_status = ? AND delivery_status IN ?", "paid", []string{"pending", "processing"}).
		Count(&pendingOrders)

	database.DB.Model(&models.Transaction{}).
		Where("status = ? AND created_at >= ?", "failed", todayStart).
		Count(&failedToday)

	database.DB.Model(&models.Withdrawal{}).
		Where("status = ?", "pending").
		Count(&pendingCash)

	database.DB.Model(&models.Agent{}).
		Where("status = ?", "approved").
		Count(&agentCount)

	database.DB.Model(&models.ResultCheckerPin{}).
		Where("status = ?", "available").
		Select("checker_type, COUNT(*) as available").
		Group("checker_type").
		Scan(&checkerStock)

	revenue := 0.0
	if todayRevenue != nil {
		revenue = *todayRevenue
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Dashboard retrieved",
		Data: map[string]interface{}{
			"today_orders":        todayOrders,
			"today_revenue":       revenue,
			"pending_deliveries":  pendingOrders,
			"failed_today":        failedToday,
			"pending_withdrawals": pendingCash,
			"approved_agents":     agentCount,
			"checker_stock":       checkerStock,
		},
	})
}
