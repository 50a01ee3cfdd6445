package payments

import (
	"math"
	"net/http"
	"os"
	"time"

	"github.com/Dafi-web/abunearegawi/db"
	"github.com/Dafi-web/abunearegawi/models"
	"github.com/Dafi-web/abunearegawi/utils"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/paymentmethod"
	"github.com/stripe/stripe-go/v82/setupintent"
	stripeSubscription "github.com/stripe/stripe-go/v82/subscription"
)

type donationInput struct {
	Amount float64 `json:"amount" binding:"required,min=1"`
}

type subscribeInput struct {
	PaymentMethodId string `json:"paymentMethodId" binding:"required"`
}

// @Summary Create a donation payment intent
// @Description Start a one-time donation payment. Anonymous donors are allowed; authenticated donors are attributed.
// @Tags payments
// @Accept json
// @Produce json
// @Param donation body donationInput true "Donation amount in EUR"
// @Success 200 {object} map[string]string "clientSecret: Stripe client secret"
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 500 {object} map[string]string "error: Stripe error"
// @Router /payments/donation [post]
func CreateDonationIntent(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe is not configured"})
		return
	}

	var input donationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	amountInCents := int64(math.Round(input.Amount * 100))

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountInCents),
		Currency:           stripe.String(string(stripe.CurrencyEUR)),
		PaymentMethodTypes: stripe.StringSlice([]string{"ideal", "card"}),
		Metadata: map[string]string{
			"type": string(models.PaymentDonation),
		},
	}

	// Attribute the donation when the donor is logged in and known to Stripe.
	if userID, exists := c.Get("user_id"); exists {
		var donor models.User
		if err := db.DB.First(&donor, "id = ?", userID).Error; err == nil && donor.StripeCustomerId != "" {
			params.Customer = stripe.String(donor.StripeCustomerId)
		}
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		utils.LogError(err, "Error creating the donation payment intent")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment intent"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"clientSecret": pi.ClientSecret})
}

// @Summary Create a setup intent
// @Description Collect a payment method for a future membership subscription
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "clientSecret: Stripe client secret"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Stripe error"
// @Router /payments/setup-intent [post]
func CreateSetupIntent(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe is not configured"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	params := &stripe.SetupIntentParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card", "ideal"}),
	}

	var user models.User
	if err := db.DB.First(&user, "id = ?", userID).Error; err == nil && user.StripeCustomerId != "" {
		params.Customer = stripe.String(user.StripeCustomerId)
	}

	si, err := setupintent.New(params)
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error creating the setup intent")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create setup intent"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"clientSecret": si.ClientSecret})
}

// @Summary Subscribe to the monthly membership
// @Description Create the Stripe customer and the €10/month membership subscription for the connected user
// @Tags payments
// @Accept json
// @Produce json
// @Param body body subscribeInput true "Payment method collected on the frontend"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "subscriptionId, clientSecret"
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: User not found"
// @Failure 500 {object} map[string]string "error: Stripe error"
// @Router /payments/subscribe [post]
func Subscribe(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe is not configured"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input subscribeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var user models.User
	if err := db.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if user.StripeCustomerId != "" {
		// Recreate the customer if Stripe no longer knows it.
		if _, err := customer.Get(user.StripeCustomerId, nil); err != nil {
			user.StripeCustomerId = ""
		}
	}
	if user.StripeCustomerId == "" {
		cust, err := customer.New(&stripe.CustomerParams{
			Email: stripe.String(user.Email),
			Name:  stripe.String(user.Name),
		})
		if err != nil {
			utils.LogErrorWithUser(userID, err, "Error creating the Stripe customer")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the Stripe customer"})
			return
		}
		db.DB.Model(&user).Update("stripe_customer_id", cust.ID)
		user.StripeCustomerId = cust.ID
	}

	if _, err := paymentmethod.Attach(input.PaymentMethodId, &stripe.PaymentMethodAttachParams{
		Customer: stripe.String(user.StripeCustomerId),
	}); err != nil {
		utils.LogErrorWithUser(userID, err, "Error attaching the payment method")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error attaching the payment method"})
		return
	}

	if _, err := customer.Update(user.StripeCustomerId, &stripe.CustomerParams{
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(input.PaymentMethodId),
		},
	}); err != nil {
		utils.LogErrorWithUser(userID, err, "Error setting the default payment method")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error setting the default payment method"})
		return
	}

	priceID := os.Getenv("STRIPE_MEMBERSHIP_PRICE_ID")
	if priceID == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Membership price not configured"})
		return
	}

	sub, err := stripeSubscription.New(&stripe.SubscriptionParams{
		Customer: stripe.String(user.StripeCustomerId),
		Items: []*stripe.SubscriptionItemsParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		PaymentBehavior: stripe.String("default_incomplete"),
		PaymentSettings: &stripe.SubscriptionPaymentSettingsParams{
			SaveDefaultPaymentMethod: stripe.String("on_subscription"),
		},
		Expand: []*string{stripe.String("latest_invoice.confirmation_secret")},
	})
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error creating the Stripe subscription")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the Stripe subscription"})
		return
	}

	now := time.Now()
	subscriptionStatus := models.SubscriptionIncomplete
	paymentStatus := models.PaymentPending
	if sub.Status == stripe.SubscriptionStatusActive {
		subscriptionStatus = models.SubscriptionActive
		paymentStatus = models.PaymentCompleted
	}

	updates := map[string]interface{}{
		"stripe_subscription_id": sub.ID,
		"subscription_status":    subscriptionStatus,
		"is_member":              true,
	}
	if user.MemberSince == nil {
		updates["member_since"] = now
	}
	if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Error updating the member after subscribing")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating the member"})
		return
	}

	payment := models.Payment{
		UserID:               &user.ID,
		Type:                 models.PaymentSubscription,
		Amount:               1000,
		Currency:             "eur",
		Status:               paymentStatus,
		StripeSubscriptionId: sub.ID,
		Month:                int(now.Month()),
		Year:                 now.Year(),
		PaymentMethod:        "card",
	}
	if err := db.DB.Create(&payment).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Error creating the subscription payment record")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the payment record"})
		return
	}

	var clientSecret string
	if sub.LatestInvoice != nil && sub.LatestInvoice.ConfirmationSecret != nil {
		clientSecret = sub.LatestInvoice.ConfirmationSecret.ClientSecret
	}

	utils.LogSuccessWithUser(userID, "Membership subscription created")
	c.JSON(http.StatusOK, gin.H{
		"subscriptionId": sub.ID,
		"clientSecret":   clientSecret,
	})
}

// @Summary List the connected user's payments
// @Description Return the payment history (subscriptions and donations) of the connected user
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Payment
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /payments/my-payments [get]
func GetMyPayments(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var payments []models.Payment
	err := db.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&payments).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error fetching the payment history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching payments"})
		return
	}

	c.JSON(http.StatusOK, payments)
}
