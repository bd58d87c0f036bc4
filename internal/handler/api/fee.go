package api

import (
	"errors"
	"net/http"

	reqdto "parkflow/internal/handler/dto/request"
	"parkflow/internal/infra"
	"parkflow/internal/pkg/errs"
	"parkflow/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type FeeHandler struct {
	feeQueries queries.FeeQueries
}

func NewFeeHandler(feeQueries queries.FeeQueries) *FeeHandler {
	return &FeeHandler{
		feeQueries: feeQueries,
	}
}

// @Summary Quote a fee
// @Description Price a hypothetical stay without creating a session
// @Tags fees
// @Accept json
// @Produce json
// @Param request body reqdto.QuoteRequest true "Quote request"
// @Success 200 {object} billing.Breakdown
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /fees/quote [post]
func (h *FeeHandler) Quote(c *gin.Context) {
	var req reqdto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	breakdown, err := h.feeQueries.Quote(c.Request.Context(), queries.QuoteInput{
		EntryAt:         req.EntryAt,
		ExitAt:          req.ExitAt,
		RatePlanID:      req.RatePlanID,
		DiscountRuleIDs: req.DiscountRuleIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Exit time must not precede entry time",
			})
		case errors.Is(err, errs.ErrRatePlanNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Rate plan not found",
			})
		case infra.IsKind(err, infra.KindNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Discount rule not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, breakdown)
}
