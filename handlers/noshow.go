package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Skarath13/bloom-sub003/services/payments"
	"github.com/Skarath13/bloom-sub003/utils"
)

// NoShowFeeHandler charges no-show fees.
type NoShowFeeHandler struct {
	Fees payments.NoShowFeeService
}

func NewNoShowFeeHandler(svc payments.NoShowFeeService) *NoShowFeeHandler {
	return &NoShowFeeHandler{Fees: svc}
}

// ChargeNoShowFee handles POST /api/appointments/:id/no-show-fee.
func (h *NoShowFeeHandler) ChargeNoShowFee(c *gin.Context) {
	var input struct {
		AmountCents int64  `json:"amountCents" binding:"required"`
		Reason      string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	id := c.Param("id")
	reference, err := h.Fees.ChargeNoShowFee(c.Request.Context(), id, input.AmountCents, input.Reason)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrInvalidAmount):
			utils.JSONError(c, http.StatusBadRequest, "invalid amount", "amountCents must be greater than zero")
		case errors.Is(err, payments.ErrAppointmentNotFound):
			utils.JSONError(c, http.StatusNotFound, "appointment not found", id)
		case errors.Is(err, payments.ErrAlreadyCharged):
			utils.JSONError(c, http.StatusConflict, "already charged", "the no-show fee for this appointment was already charged")
		case errors.Is(err, payments.ErrNoPaymentMethod):
			utils.JSONError(c, http.StatusUnprocessableEntity, "no payment method", "the client has no stored payment method")
		case errors.Is(err, payments.ErrCardDeclined):
			utils.JSONError(c, http.StatusPaymentRequired, "card declined", "the client's card was declined")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "failed to charge no-show fee", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointmentId": id, "chargeRef": reference})
}
