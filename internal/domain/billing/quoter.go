package billing

import (
	"time"

	"parkflow/internal/domain/discount"
	"parkflow/internal/domain/tariff"
)

// Quoter composes rate resolution, tiered fee calculation and discount
// application into one breakdown. It is stateless and deterministic:
// identical inputs always yield an identical Breakdown, so callers may
// recompute freely.
type Quoter interface {
	Quote(entryAt, exitAt time.Time, rules tariff.RateRules, discounts []*discount.Rule) Breakdown
}

type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) Quote(entryAt, exitAt time.Time, rules tariff.RateRules, discounts []*discount.Rule) Breakdown {
	category := tariff.ResolveCategory(entryAt, rules)
	charge := tariff.Calculate(entryAt, exitAt, rules.TierFor(category))

	breakdown := Breakdown{
		ParkingMinutes:    charge.ParkingMinutes,
		FreeMinutesUsed:   charge.FreeMinutesUsed,
		ChargeableMinutes: charge.ChargeableMinutes,
		BaseMinutes:       charge.BaseMinutes,
		BaseFee:           charge.BaseFee,
		AdditionalMinutes: charge.AdditionalMinutes,
		AdditionalFee:     charge.AdditionalFee,
		UncappedFee:       charge.UncappedFee,
		DailyMaxApplied:   charge.DailyMaxApplied,
		RawFee:            charge.RawFee,
		RateCategory:      category,
	}

	if len(discounts) > 0 {
		effects := make([]discount.Effect, 0, len(discounts))
		for _, rule := range discounts {
			effects = append(effects, discount.ComputeEffect(charge.RawFee, charge.ChargeableMinutes, rule))
		}
		breakdown.Discounts = effects
		breakdown.DiscountTotal = discount.TotalOf(effects)
	}

	breakdown.FinalFee = discount.FinalFee(charge.RawFee, breakdown.DiscountTotal)

	return breakdown
}
