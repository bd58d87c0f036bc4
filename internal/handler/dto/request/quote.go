package request

import (
	"time"

	"github.com/google/uuid"
)

// QuoteRequest prices a hypothetical stay.
type QuoteRequest struct {
	EntryAt         time.Time   `json:"entry_at" binding:"required"`
	ExitAt          time.Time   `json:"exit_at" binding:"required"`
	RatePlanID      *uuid.UUID  `json:"rate_plan_id,omitempty"`
	DiscountRuleIDs []uuid.UUID `json:"discount_rule_ids,omitempty"`
}
