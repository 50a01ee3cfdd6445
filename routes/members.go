package routes

import (
	"github.com/Dafi-web/abunearegawi/handlers/members"
	"github.com/Dafi-web/abunearegawi/middleware"

	"github.com/gin-gonic/gin"
)

func MembersRoutes(r *gin.Engine) {
	membersRoutes := r.Group("/members")
	membersRoutes.Use(middleware.AdminAuth())
	{
		membersRoutes.GET("/", members.GetAllMembers)
		membersRoutes.GET("/:id/payments", members.GetMemberPayments)
		membersRoutes.GET("/payments/status", members.GetPaymentsStatus)
	}
}
