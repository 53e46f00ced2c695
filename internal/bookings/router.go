package bookings

import (
	"github.com/gin-gonic/gin"

	"gatherly/internal/shared/middleware"
)

func SetupBookingRoutes(router *gin.RouterGroup, controller Controller, rateLimiter gin.HandlerFunc) {
	bookings := router.Group("/bookings")
	bookings.Use(middleware.JWTAuth())
	if rateLimiter != nil {
		bookings.Use(rateLimiter)
	}
	{
		bookings.POST("", controller.CreateBooking)                     // POST /api/v1/bookings
		bookings.GET("", controller.GetUserBookings)                    // GET /api/v1/bookings
		bookings.GET("/:reference", controller.GetBooking)              // GET /api/v1/bookings/:reference
		bookings.POST("/:reference/confirm", controller.ConfirmBooking) // POST /api/v1/bookings/:reference/confirm
		bookings.POST("/:reference/cancel", controller.CancelBooking)   // POST /api/v1/bookings/:reference/cancel
	}
}
