package api

import (
	"errors"
	"net/http"

	reqdto "parkflow/internal/handler/dto/request"
	resdto "parkflow/internal/handler/dto/response"
	"parkflow/internal/pkg/errs"
	"parkflow/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type GateHandler struct {
	gateCommands commands.GateCommands
}

func NewGateHandler(gateCommands commands.GateCommands) *GateHandler {
	return &GateHandler{
		gateCommands: gateCommands,
	}
}

// @Summary Ingest entry capture
// @Description Process a plate recognition from an entry lane camera
// @Tags gate
// @Accept json
// @Produce json
// @Param request body reqdto.PlateCaptureRequest true "Plate capture"
// @Success 201 {object} resdto.EntryResultResponse
// @Success 200 {object} resdto.EntryResultResponse
// @Failure 400 {object} map[string]string
// @Router /gate/entries [post]
func (h *GateHandler) ProcessEntry(c *gin.Context) {
	var req reqdto.PlateCaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.gateCommands.ProcessEntry(c.Request.Context(), req.ToEntryCapture())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidPlate):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid plate number",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	// A suppressed duplicate is still a recorded capture, not an error.
	status := http.StatusCreated
	if !result.SessionCreated {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromEntryResult(result))
}

// @Summary Ingest exit capture
// @Description Process a plate recognition from an exit lane camera
// @Tags gate
// @Accept json
// @Produce json
// @Param request body reqdto.PlateCaptureRequest true "Plate capture"
// @Success 200 {object} resdto.ExitResultResponse
// @Failure 400 {object} map[string]string
// @Router /gate/exits [post]
func (h *GateHandler) ProcessExit(c *gin.Context) {
	var req reqdto.PlateCaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.gateCommands.ProcessExit(c.Request.Context(), req.ToExitCapture())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidPlate):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid plate number",
			})
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Session cannot transition from its current state",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromExitResult(result))
}
