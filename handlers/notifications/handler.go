package notifications

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Dafi-web/abunearegawi/db"
	"github.com/Dafi-web/abunearegawi/models"
	"github.com/Dafi-web/abunearegawi/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const paymentReminderMessage = "This is a reminder that your monthly membership payment is due. Please make your payment to continue your membership."

// @Summary Send a notification to a user
// @Description Create an in-app notification for the given user (admin only)
// @Tags notifications
// @Accept json
// @Produce json
// @Param notification body models.NotificationCreate true "Notification content"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Notification sent successfully"
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 404 {object} map[string]string "error: User not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /notifications/send [post]
func SendNotification(c *gin.Context) {
	var input models.NotificationCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var user models.User
	if err := db.DB.First(&user, "id = ?", input.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	notificationType := input.Type
	if notificationType == "" {
		notificationType = models.NotificationGeneral
	}

	notification := models.Notification{
		UserID:  user.ID,
		Message: input.Message,
		Type:    notificationType,
	}
	if err := db.DB.Create(&notification).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification sent successfully"})
}

type reminderInput struct {
	UserID string `json:"userId" binding:"required"`
}

// @Summary Send a payment reminder to a member
// @Description Create a payment reminder notification for one member (admin only)
// @Tags notifications
// @Accept json
// @Produce json
// @Param body body reminderInput true "Member to remind"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Payment reminder sent successfully"
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 404 {object} map[string]string "error: Member not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /notifications/payment-reminder [post]
func SendPaymentReminder(c *gin.Context) {
	var input reminderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var user models.User
	if err := db.DB.First(&user, "id = ?", input.UserID).Error; err != nil || !user.IsMember {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	notification := models.Notification{
		UserID:  user.ID,
		Message: paymentReminderMessage,
		Type:    models.NotificationPaymentReminder,
	}
	if err := db.DB.Create(&notification).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment reminder sent successfully"})
}

// RemindAllUnpaid is the admin bulk reminder: every member lacking a completed
// subscription payment for the given period gets a reminder notification.
// Unlike the scheduled job there is no per-day dedup, an admin pressing the
// button twice reminds twice.
//
// @Summary Remind all unpaid members
// @Description Send a payment reminder notification to every member without a completed payment for the given month/year (admin only). Defaults to the current period.
// @Tags notifications
// @Produce json
// @Param month query int false "Billing month (1-12)"
// @Param year query int false "Billing year"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Reminders sent to N members"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /notifications/remind-all-unpaid [post]
func RemindAllUnpaid(c *gin.Context) {
	now := time.Now()
	month := int(now.Month())
	year := now.Year()

	if m, err := strconv.Atoi(c.Query("month")); err == nil && m >= 1 && m <= 12 {
		month = m
	}
	if y, err := strconv.Atoi(c.Query("year")); err == nil && y > 0 {
		year = y
	}

	var members []models.User
	if err := db.DB.Where("is_member = ?", true).Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	remindedCount := 0
	for _, member := range members {
		var payment models.Payment
		err := db.DB.First(&payment,
			"user_id = ? AND type = ? AND month = ? AND year = ? AND status = ?",
			member.ID, models.PaymentSubscription, month, year, models.PaymentCompleted).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.LogErrorWithUser(member.ID, err, "Error checking the payment status for the bulk reminder")
			continue
		}

		notification := models.Notification{
			UserID:  member.ID,
			Message: paymentReminderMessage,
			Type:    models.NotificationPaymentReminder,
		}
		if err := db.DB.Create(&notification).Error; err != nil {
			utils.LogErrorWithUser(member.ID, err, "Error creating the bulk reminder notification")
			continue
		}
		remindedCount++
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Reminders sent to %d members", remindedCount)})
}

// @Summary List the connected user's notifications
// @Description Return the notifications of the connected user, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Notification
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /notifications/my-notifications [get]
func GetMyNotifications(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var notifications []models.Notification
	err := db.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&notifications).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// @Summary Mark a notification as read
// @Description Mark one of the connected user's notifications as read
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Notification marked as read"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Notification not found"
// @Router /notifications/{id}/read [put]
func MarkAsRead(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	notificationID := c.Param("id")

	result := db.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating the notification"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// @Summary Mark all notifications as read
// @Description Mark every notification of the connected user as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: All notifications marked as read"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /notifications/read-all [put]
func MarkAllAsRead(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	err := db.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating the notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}
