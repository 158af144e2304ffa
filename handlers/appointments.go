package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Skarath13/bloom-sub003/services/booking"
	"github.com/Skarath13/bloom-sub003/services/scheduling"
	"github.com/Skarath13/bloom-sub003/utils"
)

// AppointmentHandler drives booking creation and status transitions.
type AppointmentHandler struct {
	Booking booking.BookingService
}

func NewAppointmentHandler(svc booking.BookingService) *AppointmentHandler {
	return &AppointmentHandler{Booking: svc}
}

// CreateAppointment handles POST /api/appointments.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var input struct {
		LocationID   string `json:"locationId" binding:"required"`
		TechnicianID string `json:"technicianId" binding:"required"`
		ServiceID    string `json:"serviceId" binding:"required"`
		ClientID     string `json:"clientId" binding:"required"`
		Date         string `json:"date" binding:"required"`
		Start        int    `json:"start"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	appt, err := h.Booking.CreateAppointment(c.Request.Context(), booking.BookingRequest{
		LocationID:   input.LocationID,
		TechnicianID: input.TechnicianID,
		ServiceID:    input.ServiceID,
		ClientID:     input.ClientID,
		Date:         input.Date,
		Start:        input.Start,
	})
	if err != nil {
		switch {
		case errors.Is(err, scheduling.ErrInvalidDate):
			utils.JSONError(c, http.StatusBadRequest, "invalid input", "date must be formatted YYYY-MM-DD")
		case errors.Is(err, scheduling.ErrServiceNotFound), errors.Is(err, scheduling.ErrTechnicianNotFound):
			utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
		case errors.Is(err, booking.ErrTechnicianNotWorking):
			utils.JSONError(c, http.StatusUnprocessableEntity, "cannot book", err.Error())
		case errors.Is(err, booking.ErrSlotTaken):
			utils.JSONError(c, http.StatusConflict, "slot taken", "the selected slot was just booked; pick another time")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "failed to create appointment", err.Error())
		}
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// GetAppointment handles GET /api/appointments/:id.
func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	appt, err := h.Booking.GetAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, booking.ErrAppointmentNotFound) {
			utils.JSONError(c, http.StatusNotFound, "appointment not found", c.Param("id"))
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch appointment", err.Error())
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) transition(c *gin.Context, fn func(string) error) {
	id := c.Param("id")
	if err := fn(id); err != nil {
		switch {
		case errors.Is(err, booking.ErrAppointmentNotFound):
			utils.JSONError(c, http.StatusNotFound, "appointment not found", id)
		case errors.Is(err, booking.ErrInvalidTransition):
			utils.JSONError(c, http.StatusConflict, "invalid transition", err.Error())
		default:
			utils.JSONError(c, http.StatusInternalServerError, "failed to update appointment", err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "updated": true})
}

// Confirm handles PATCH /api/appointments/:id/confirm.
func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.transition(c, func(id string) error { return h.Booking.Confirm(c.Request.Context(), id) })
}

// Cancel handles PATCH /api/appointments/:id/cancel.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.transition(c, func(id string) error { return h.Booking.Cancel(c.Request.Context(), id) })
}

// MarkNoShow handles PATCH /api/appointments/:id/no-show.
func (h *AppointmentHandler) MarkNoShow(c *gin.Context) {
	h.transition(c, func(id string) error { return h.Booking.MarkNoShow(c.Request.Context(), id) })
}

// Complete handles PATCH /api/appointments/:id/complete.
func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, func(id string) error { return h.Booking.Complete(c.Request.Context(), id) })
}
