package routes

import (
	"github.com/Dafi-web/abunearegawi/handlers/payments"
	"github.com/Dafi-web/abunearegawi/middleware"

	"github.com/gin-gonic/gin"
)

func PaymentsRoutes(r *gin.Engine) {
	paymentsRoutes := r.Group("/payments")
	{
		paymentsRoutes.POST("/donation", middleware.OptionalAuth(), payments.CreateDonationIntent)
		paymentsRoutes.POST("/setup-intent", middleware.JWTAuth(), payments.CreateSetupIntent)
		paymentsRoutes.POST("/subscribe", middleware.JWTAuth(), payments.Subscribe)
		paymentsRoutes.GET("/my-payments", middleware.JWTAuth(), payments.GetMyPayments)
	}
	// Authenticated by its Stripe signature, not by a JWT.
	r.POST("/payments/webhook", payments.StripeWebhookHandler)
}
