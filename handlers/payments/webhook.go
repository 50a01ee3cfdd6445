package payments

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Dafi-web/abunearegawi/db"
	"github.com/Dafi-web/abunearegawi/models"
	"github.com/Dafi-web/abunearegawi/utils"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StripeWebhookHandler reconciles billing lifecycle events from Stripe with
// the local member and payment records. Every branch is idempotent: Stripe
// delivers at least once and may deliver out of order, so a redelivered event
// must never create a duplicate payment or flip state twice. A signature
// failure is a permanent 400 reject; an internal error is a 500 so Stripe
// redelivers later.
//
// @Summary Stripe webhook endpoint
// @Description Receive and verify signed Stripe billing events
// @Tags payments
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "message: event processed or ignored"
// @Failure 400 {object} map[string]string "error: signature verification failed"
// @Failure 500 {object} map[string]string "error: processing error, event will be redelivered"
// @Router /payments/webhook [post]
func StripeWebhookHandler(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Could not read the request body"})
		return
	}

	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if secret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook secret not configured"})
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sig, secret)
	if err != nil {
		utils.LogError(err, "Stripe signature verification failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stripe signature verification failed"})
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		handlePaymentIntentSucceeded(c, event)
	case "invoice.payment_succeeded":
		handleInvoicePaymentSucceeded(c, event)
	case "invoice.payment_failed":
		handleInvoicePaymentFailed(c, event)
	case "customer.subscription.deleted":
		handleSubscriptionDeleted(c, event)
	default:
		// Acknowledge everything else so Stripe does not keep redelivering.
		c.JSON(http.StatusOK, gin.H{"message": "Event ignored"})
	}
}

// handlePaymentIntentSucceeded records one-time donations. The payment intent
// id is the idempotency key: a redelivered event finds the existing record
// and acknowledges without writing. The donation is attributed to a member
// when the Stripe customer matches one on file, else left anonymous.
func handlePaymentIntentSucceeded(c *gin.Context, event stripe.Event) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing PaymentIntent"})
		return
	}

	if pi.Metadata["type"] != string(models.PaymentDonation) {
		// Subscription charges arrive as invoice events, nothing to do here.
		c.JSON(http.StatusOK, gin.H{"message": "Event ignored"})
		return
	}

	if pi.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "PaymentIntent without ID"})
		return
	}

	var existing models.Payment
	err := db.DB.First(&existing, "stripe_payment_intent_id = ?", pi.ID).Error
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Payment already recorded"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.LogError(err, "Error checking for an existing donation payment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook handler failed"})
		return
	}

	var userID *string
	if pi.Customer != nil {
		var donor models.User
		if err := db.DB.First(&donor, "stripe_customer_id = ?", pi.Customer.ID).Error; err == nil {
			userID = &donor.ID
		}
	}

	paymentMethod := "card"
	if len(pi.PaymentMethodTypes) > 0 {
		paymentMethod = pi.PaymentMethodTypes[0]
	}

	payment := models.Payment{
		UserID:                userID,
		Type:                  models.PaymentDonation,
		Amount:                pi.AmountReceived,
		Currency:              string(pi.Currency),
		Status:                models.PaymentCompleted,
		StripePaymentIntentId: pi.ID,
		PaymentMethod:         paymentMethod,
	}

	if err := db.DB.Create(&payment).Error; err != nil {
		utils.LogError(err, "Error creating the donation payment record")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook handler failed"})
		return
	}

	utils.LogSuccess("Donation recorded via payment_intent.succeeded")
	c.JSON(http.StatusOK, gin.H{"message": "Donation recorded"})
}

// handleInvoicePaymentSucceeded appends a completed subscription payment for
// the invoice's billing period and marks the member active. The (user, month,
// year) pair carries at most one completed subscription payment, so a
// redelivered invoice event is a no-op. The member row is locked inside the
// transaction so concurrent events for the same member serialize.
func handleInvoicePaymentSucceeded(c *gin.Context, event stripe.Event) {
	invoice, ok := parseInvoice(c, event)
	if !ok {
		return
	}

	if invoice.customerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invoice without customer"})
		return
	}

	period := time.Unix(invoice.periodStart, 0)
	month := int(period.Month())
	year := period.Year()

	var alreadyRecorded bool
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, "stripe_customer_id = ?", invoice.customerID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No member on file for this customer, nothing to update.
			utils.LogInfo("Invoice for unknown Stripe customer " + invoice.customerID)
			alreadyRecorded = true
			return nil
		}
		if err != nil {
			return err
		}

		if user.StripeSubscriptionId == "" {
			utils.LogInfo("Invoice for a member without subscription reference: " + user.ID)
			alreadyRecorded = true
			return nil
		}

		var existing models.Payment
		err = tx.First(&existing,
			"user_id = ? AND type = ? AND month = ? AND year = ? AND status = ?",
			user.ID, models.PaymentSubscription, month, year, models.PaymentCompleted).Error
		if err == nil {
			alreadyRecorded = true
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		payment := models.Payment{
			UserID:                &user.ID,
			Type:                  models.PaymentSubscription,
			Amount:                invoice.amountPaid,
			Currency:              invoice.currency,
			Status:                models.PaymentCompleted,
			StripePaymentIntentId: invoice.paymentIntentID,
			StripeSubscriptionId:  invoice.subscriptionID,
			Month:                 month,
			Year:                  year,
			PaymentMethod:         "card",
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		return tx.Model(&user).Updates(map[string]interface{}{
			"subscription_status": models.SubscriptionActive,
			"is_member":           true,
		}).Error
	})
	if err != nil {
		utils.LogError(err, "Error reconciling invoice.payment_succeeded")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook handler failed"})
		return
	}

	if alreadyRecorded {
		c.JSON(http.StatusOK, gin.H{"message": "Invoice already reconciled"})
		return
	}

	utils.LogSuccess("Subscription payment recorded via invoice.payment_succeeded")
	c.JSON(http.StatusOK, gin.H{"message": "Subscription payment recorded"})
}

// handleInvoicePaymentFailed marks the member past due. Membership itself is
// kept: a failed charge is recoverable, unlike a cancellation.
func handleInvoicePaymentFailed(c *gin.Context, event stripe.Event) {
	invoice, ok := parseInvoice(c, event)
	if !ok {
		return
	}

	if invoice.customerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invoice without customer"})
		return
	}

	result := db.DB.Model(&models.User{}).
		Where("stripe_customer_id = ?", invoice.customerID).
		Update("subscription_status", models.SubscriptionPastDue)
	if result.Error != nil {
		utils.LogError(result.Error, "Error reconciling invoice.payment_failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook handler failed"})
		return
	}
	if result.RowsAffected == 0 {
		utils.LogInfo("Failed invoice for unknown Stripe customer " + invoice.customerID)
		c.JSON(http.StatusOK, gin.H{"message": "No member for this customer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member marked past due"})
}

// handleSubscriptionDeleted ends the membership. The subscription reference
// is cleared with the member flag, it is meaningless without it.
func handleSubscriptionDeleted(c *gin.Context, event stripe.Event) {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing Subscription"})
		return
	}

	if sub.Customer == nil || sub.Customer.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Subscription without customer"})
		return
	}

	result := db.DB.Model(&models.User{}).
		Where("stripe_customer_id = ?", sub.Customer.ID).
		Updates(map[string]interface{}{
			"subscription_status":    models.SubscriptionCanceled,
			"is_member":              false,
			"stripe_subscription_id": "",
		})
	if result.Error != nil {
		utils.LogError(result.Error, "Error reconciling customer.subscription.deleted")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook handler failed"})
		return
	}
	if result.RowsAffected == 0 {
		utils.LogInfo("Deleted subscription for unknown Stripe customer " + sub.Customer.ID)
		c.JSON(http.StatusOK, gin.H{"message": "No member for this customer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Membership canceled"})
}

type invoiceFields struct {
	customerID      string
	subscriptionID  string
	paymentIntentID string
	amountPaid      int64
	currency        string
	periodStart     int64
}

// parseInvoice extracts the fields we need from an invoice event. The
// subscription reference moved under parent.subscription_details in recent
// Stripe API versions, so both shapes are accepted.
func parseInvoice(c *gin.Context, event stripe.Event) (invoiceFields, bool) {
	var raw map[string]interface{}
	if err := json.Unmarshal(event.Data.Raw, &raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing Invoice"})
		return invoiceFields{}, false
	}

	var inv invoiceFields

	switch cust := raw["customer"].(type) {
	case string:
		inv.customerID = cust
	case map[string]interface{}:
		if id, ok := cust["id"].(string); ok {
			inv.customerID = id
		}
	}

	if parent, ok := raw["parent"].(map[string]interface{}); ok {
		if details, ok := parent["subscription_details"].(map[string]interface{}); ok {
			if sub, ok := details["subscription"].(string); ok {
				inv.subscriptionID = sub
			}
		}
	}
	if inv.subscriptionID == "" {
		if sub, ok := raw["subscription"].(string); ok {
			inv.subscriptionID = sub
		}
	}

	if pi, ok := raw["payment_intent"].(string); ok {
		inv.paymentIntentID = pi
	}
	if amount, ok := raw["amount_paid"].(float64); ok {
		inv.amountPaid = int64(amount)
	}
	if currency, ok := raw["currency"].(string); ok {
		inv.currency = currency
	} else {
		inv.currency = "eur"
	}
	if start, ok := raw["period_start"].(float64); ok {
		inv.periodStart = int64(start)
	} else {
		inv.periodStart = time.Now().Unix()
	}

	return inv, true
}
