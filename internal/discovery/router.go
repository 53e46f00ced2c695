package discovery

import (
	"github.com/gin-gonic/gin"
)

func SetupDiscoveryRoutes(router *gin.RouterGroup, controller Controller) {
	// Public discovery endpoints
	discover := router.Group("/discovery")
	{
		discover.GET("/nearby", controller.FindNearby) // GET /api/v1/discovery/nearby
		discover.GET("/cities", controller.ListCities) // GET /api/v1/discovery/cities
	}
}
