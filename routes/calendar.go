package routes

import (
	"github.com/Dafi-web/abunearegawi/handlers/calendar"
	"github.com/Dafi-web/abunearegawi/middleware"

	"github.com/gin-gonic/gin"
)

func CalendarRoutes(r *gin.Engine) {
	calendarRoutes := r.Group("/calendar")
	{
		calendarRoutes.GET("/", calendar.GetAllEvents)
		calendarRoutes.GET("/:id", calendar.GetEvent)
		calendarRoutes.POST("/", middleware.AdminAuth(), calendar.CreateEvent)
		calendarRoutes.PUT("/:id", middleware.AdminAuth(), calendar.UpdateEvent)
		calendarRoutes.DELETE("/:id", middleware.AdminAuth(), calendar.DeleteEvent)
		calendarRoutes.POST("/:id/join", middleware.JWTAuth(), calendar.JoinEvent)
	}
}
