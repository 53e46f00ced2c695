package discovery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gatherly/internal/shared/utils/response"
)

type Controller interface {
	FindNearby(c *gin.Context)
	ListCities(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) FindNearby(c *gin.Context) {
	var query NearbyEventsQuery

	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	if (query.Latitude == nil) != (query.Longitude == nil) {
		response.RespondJSON(c, "error", http.StatusBadRequest, "lat and lng must be provided together", nil, nil)
		return
	}

	results, err := ctrl.service.FindNearby(c.Request.Context(), query, c.ClientIP())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Nearby events retrieved successfully", results, nil)
}

func (ctrl *controller) ListCities(c *gin.Context) {
	response.RespondJSON(c, "success", http.StatusOK, "Cities retrieved successfully", ctrl.service.ListCities(), nil)
}
