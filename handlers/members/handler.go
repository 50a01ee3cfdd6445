package members

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Dafi-web/abunearegawi/db"
	"github.com/Dafi-web/abunearegawi/models"
	"github.com/Dafi-web/abunearegawi/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// @Summary List all members
// @Description Retrieve all users with an active membership (admin only)
// @Tags members
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /members [get]
func GetAllMembers(c *gin.Context) {
	var members []models.User
	result := db.DB.Where("is_member = ?", true).Order("created_at DESC").Find(&members)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}

	c.JSON(http.StatusOK, members)
}

// @Summary Subscription payment history of a member
// @Description Retrieve the subscription payments of a member (admin only)
// @Tags members
// @Produce json
// @Param id path string true "Member ID"
// @Security BearerAuth
// @Success 200 {array} models.Payment
// @Failure 400 {object} map[string]string "error: Invalid member ID"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /members/{id}/payments [get]
func GetMemberPayments(c *gin.Context) {
	memberID := c.Param("id")
	if _, err := uuid.Parse(memberID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}

	var payments []models.Payment
	result := db.DB.Where("user_id = ? AND type = ?", memberID, models.PaymentSubscription).
		Order("created_at DESC").Find(&payments)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}

	c.JSON(http.StatusOK, payments)
}

type memberPaymentStatus struct {
	Member struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"member"`
	Paid               bool                      `json:"paid"`
	PaymentDate        *time.Time                `json:"paymentDate"`
	SubscriptionStatus models.SubscriptionStatus `json:"subscriptionStatus"`
}

// @Summary Payment status of all members for a billing period
// @Description For each member, whether the subscription payment for the given month/year is completed (admin only). Defaults to the current period.
// @Tags members
// @Produce json
// @Param month query int false "Billing month (1-12)"
// @Param year query int false "Billing year"
// @Security BearerAuth
// @Success 200 {array} memberPaymentStatus
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /members/payments/status [get]
func GetPaymentsStatus(c *gin.Context) {
	now := time.Now()
	month := now.Month()
	year := now.Year()

	if m, err := strconv.Atoi(c.Query("month")); err == nil && m >= 1 && m <= 12 {
		month = time.Month(m)
	}
	if y, err := strconv.Atoi(c.Query("year")); err == nil && y > 0 {
		year = y
	}

	var members []models.User
	if err := db.DB.Where("is_member = ?", true).Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status := make([]memberPaymentStatus, 0, len(members))
	for _, member := range members {
		entry := memberPaymentStatus{
			Paid:               false,
			SubscriptionStatus: member.SubscriptionStatus,
		}
		entry.Member.ID = member.ID
		entry.Member.Name = member.Name
		entry.Member.Email = member.Email

		var payment models.Payment
		err := db.DB.First(&payment,
			"user_id = ? AND type = ? AND month = ? AND year = ? AND status = ?",
			member.ID, models.PaymentSubscription, int(month), year, models.PaymentCompleted).Error
		if err == nil {
			entry.Paid = true
			paidAt := payment.CreatedAt
			entry.PaymentDate = &paidAt
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.LogErrorWithUser(member.ID, err, "Error checking the payment status")
		}

		status = append(status, entry)
	}

	c.JSON(http.StatusOK, status)
}
