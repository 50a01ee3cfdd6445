package admin

import (
	"net/http"
	"time"

	"github.com/Dafi-web/abunearegawi/db"
	"github.com/Dafi-web/abunearegawi/models"

	"github.com/gin-gonic/gin"
)

// @Summary Dashboard statistics
// @Description Member and user counts, total completed donations and current-month subscription revenue, amounts in cents (admin only)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "totalMembers, totalUsers, totalDonations, monthlyRevenue"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /admin/stats [get]
func GetStats(c *gin.Context) {
	var totalMembers int64
	if err := db.DB.Model(&models.User{}).Where("is_member = ?", true).Count(&totalMembers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var totalUsers int64
	if err := db.DB.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var totalDonations int64
	err := db.DB.Model(&models.Payment{}).
		Where("type = ? AND status = ?", models.PaymentDonation, models.PaymentCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalDonations).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var monthlyRevenue int64
	err = db.DB.Model(&models.Payment{}).
		Where("type = ? AND status = ? AND created_at >= ?", models.PaymentSubscription, models.PaymentCompleted, monthStart).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&monthlyRevenue).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalMembers":   totalMembers,
		"totalUsers":     totalUsers,
		"totalDonations": totalDonations,
		"monthlyRevenue": monthlyRevenue,
	})
}
