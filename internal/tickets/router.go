package tickets

import (
	"github.com/gin-gonic/gin"

	"gatherly/internal/shared/middleware"
	"gatherly/internal/users"
)

func SetupTicketRoutes(router *gin.RouterGroup, controller Controller) {
	tickets := router.Group("/tickets")
	tickets.Use(middleware.JWTAuth())
	{
		tickets.GET("/booking/:bookingId", controller.GetTicketsByBooking) // GET /api/v1/tickets/booking/:bookingId
		tickets.GET("/:number", controller.GetTicket)                      // GET /api/v1/tickets/:number
	}

	// Gate staff check-in
	checkin := router.Group("/tickets")
	checkin.Use(middleware.JWTAuth(), middleware.RequireRoles(users.RoleOrganizer, users.RoleAdmin))
	{
		checkin.POST("/:number/checkin", controller.CheckIn) // POST /api/v1/tickets/:number/checkin
	}
}
