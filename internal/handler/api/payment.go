package api

import (
	"errors"
	"net/http"

	reqdto "parkflow/internal/handler/dto/request"
	resdto "parkflow/internal/handler/dto/response"
	"parkflow/internal/pkg/errs"
	"parkflow/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	paymentCommands commands.PaymentCommands
}

func NewPaymentHandler(paymentCommands commands.PaymentCommands) *PaymentHandler {
	return &PaymentHandler{
		paymentCommands: paymentCommands,
	}
}

// @Summary Confirm payment
// @Description Settle an exit-pending session after kiosk payment
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body reqdto.ConfirmPaymentRequest true "Payment confirmation"
// @Success 200 {object} resdto.PaymentResultResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /sessions/{id}/payment [post]
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid session ID",
		})
		return
	}

	var req reqdto.ConfirmPaymentRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.paymentCommands.ConfirmPayment(c.Request.Context(), commands.PaymentInput{
		SessionID: sessionID,
		Amount:    req.Amount,
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Session not found",
			})
		case errors.Is(err, errs.ErrSessionClosed):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Session is already closed",
			})
		case errors.Is(err, commands.ErrPaymentNotDue):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Session is not awaiting payment",
			})
		case errors.Is(err, commands.ErrAmountMismatch):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Paid amount does not match the final fee",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromPaymentResult(result))
}

// @Summary Force close session
// @Description Operator override that closes a stuck session without opening any barrier
// @Tags payments
// @Produce json
// @Param id path string true "Session ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /sessions/{id}/force-close [post]
func (h *PaymentHandler) ForceClose(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid session ID",
		})
		return
	}

	if err := h.paymentCommands.ForceClose(c.Request.Context(), sessionID); err != nil {
		switch {
		case errors.Is(err, errs.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Session not found",
			})
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Session is already closed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
