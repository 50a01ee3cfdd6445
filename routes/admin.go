package routes

import (
	"github.com/Dafi-web/abunearegawi/handlers/admin"
	"github.com/Dafi-web/abunearegawi/middleware"

	"github.com/gin-gonic/gin"
)

func AdminRoutes(r *gin.Engine) {
	adminRoutes := r.Group("/admin")
	adminRoutes.Use(middleware.AdminAuth())
	{
		adminRoutes.GET("/stats", admin.GetStats)
	}
}
