package events

import (
	"github.com/gin-gonic/gin"

	"gatherly/internal/shared/middleware"
	"gatherly/internal/users"
)

func SetupEventRoutes(router *gin.RouterGroup, controller Controller) {
	// Public routes - anyone can browse published events
	publicEvents := router.Group("/events")
	{
		publicEvents.GET("", controller.GetAllEvents)               // GET /api/v1/events
		publicEvents.GET("/upcoming", controller.GetUpcomingEvents) // GET /api/v1/events/upcoming
		publicEvents.GET("/slug/:slug", controller.GetEventBySlug)  // GET /api/v1/events/slug/:slug
		publicEvents.GET("/:eventId", controller.GetEvent)          // GET /api/v1/events/:eventId
	}

	// Organizer routes - event lifecycle management
	organizerEvents := router.Group("/organizer/events")
	organizerEvents.Use(middleware.JWTAuth(), middleware.RequireRoles(users.RoleOrganizer, users.RoleAdmin))
	{
		organizerEvents.POST("", controller.CreateEvent)                       // POST /api/v1/organizer/events
		organizerEvents.PUT("/:eventId", controller.UpdateEvent)               // PUT /api/v1/organizer/events/:eventId
		organizerEvents.DELETE("/:eventId", controller.DeleteEvent)            // DELETE /api/v1/organizer/events/:eventId
		organizerEvents.POST("/:eventId/publish", controller.PublishEvent)     // POST /api/v1/organizer/events/:eventId/publish
		organizerEvents.POST("/:eventId/unpublish", controller.UnpublishEvent) // POST /api/v1/organizer/events/:eventId/unpublish
	}
}
