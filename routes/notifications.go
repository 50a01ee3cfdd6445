package routes

import (
	"github.com/Dafi-web/abunearegawi/handlers/notifications"
	"github.com/Dafi-web/abunearegawi/middleware"

	"github.com/gin-gonic/gin"
)

func NotificationsRoutes(r *gin.Engine) {
	notificationsRoutes := r.Group("/notifications")
	{
		notificationsRoutes.POST("/send", middleware.AdminAuth(), notifications.SendNotification)
		notificationsRoutes.POST("/payment-reminder", middleware.AdminAuth(), notifications.SendPaymentReminder)
		notificationsRoutes.POST("/remind-all-unpaid", middleware.AdminAuth(), notifications.RemindAllUnpaid)
		notificationsRoutes.GET("/my-notifications", middleware.JWTAuth(), notifications.GetMyNotifications)
		notificationsRoutes.PUT("/:id/read", middleware.JWTAuth(), notifications.MarkAsRead)
		notificationsRoutes.PUT("/read-all", middleware.JWTAuth(), notifications.MarkAllAsRead)
	}
}
