package tickets

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gatherly/internal/shared/utils/response"
)

type Controller interface {
	GetTicketsByBooking(c *gin.Context)
	GetTicket(c *gin.Context)
	CheckIn(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func ticketStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrTicketNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTicketNotActive):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (ctrl *controller) GetTicketsByBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	tickets, err := ctrl.service.GetTicketsByBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.RespondJSON(c, "error", ticketStatusCode(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Tickets retrieved successfully", tickets, nil)
}

func (ctrl *controller) GetTicket(c *gin.Context) {
	number := c.Param("number")

	ticket, err := ctrl.service.GetTicket(c.Request.Context(), number)
	if err != nil {
		response.RespondJSON(c, "error", ticketStatusCode(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Ticket retrieved successfully", ticket, nil)
}

func (ctrl *controller) CheckIn(c *gin.Context) {
	number := c.Param("number")

	ticket, err := ctrl.service.CheckIn(c.Request.Context(), number)
	if err != nil {
		response.RespondJSON(c, "error", ticketStatusCode(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Ticket checked in successfully", ticket, nil)
}
