package bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gatherly/internal/events"
	"gatherly/internal/shared/utils/response"
)

type Controller interface {
	CreateBooking(c *gin.Context)
	ConfirmBooking(c *gin.Context)
	CancelBooking(c *gin.Context)
	GetBooking(c *gin.Context)
	GetUserBookings(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func authenticatedUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Not authenticated", nil, nil)
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw.(string))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Invalid user ID format", nil, nil)
		return uuid.Nil, false
	}
	return id, true
}

// bookingStatusCode maps service errors to HTTP status codes.
func bookingStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, events.ErrEventNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBookingNotOwned):
		return http.StatusForbidden
	case errors.Is(err, ErrCapacityExceeded),
		errors.Is(err, ErrPerUserLimitExceeded),
		errors.Is(err, ErrInvalidStateTransition),
		errors.Is(err, ErrHoldExpired):
		return http.StatusConflict
	case errors.Is(err, ErrBookingWindowClosed),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrAttendeeMismatch):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (ctrl *controller) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	booking, err := ctrl.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		response.RespondJSON(c, "error", bookingStatusCode(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Booking created successfully", booking, nil)
}

func (ctrl *controller) ConfirmBooking(c *gin.Context) {
	reference := c.Param("reference")

	var req ConfirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	confirmation, err := ctrl.service.ConfirmBooking(c.Request.Context(), userID, reference, req)
	if err != nil {
		response.RespondJSON(c, "error", bookingStatusCode(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking confirmed successfully", confirmation, nil)
}

func (ctrl *controller) CancelBooking(c *gin.Context) {
	reference := c.Param("reference")

	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	booking, err := ctrl.service.CancelBooking(c.Request.Context(), userID, reference)
	if err != nil {
		response.RespondJSON(c, "error", bookingStatusCode(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking cancelled successfully", booking, nil)
}

func (ctrl *controller) GetBooking(c *gin.Context) {
	reference := c.Param("reference")

	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	booking, err := ctrl.service.GetBooking(c.Request.Context(), userID, reference)
	if err != nil {
		response.RespondJSON(c, "error", bookingStatusCode(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

func (ctrl *controller) GetUserBookings(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	bookings, err := ctrl.service.GetUserBookings(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Bookings retrieved successfully", bookings, nil)
}
