package discount

// ComputeEffect turns one rule into its monetary effect on a raw fee.
// The engine applies whatever rule it is given unconditionally; stacking
// eligibility and per-rule application-count limits are policy enforced
// by the caller beforehand.
func ComputeEffect(rawFee int64, chargeableMinutes int, rule *Rule) Effect {
	effect := Effect{
		RuleID:   rule.ID(),
		RuleName: rule.Name(),
		Type:     rule.Type(),
	}

	switch rule.Type() {
	case TypeAmount:
		effect.AppliedValue = min64(rule.Value(), rawFee)

	case TypePercent:
		percent := rule.Value()
		if percent > 100 {
			percent = 100
		}
		effect.AppliedValue = rawFee * percent / 100

	case TypeFreeMinutes:
		// Approximates a per-minute rate by spreading the raw fee evenly
		// over the chargeable minutes. This is intentionally not an exact
		// inverse of the tiered schedule; downstream figures depend on
		// this exact approximation.
		minutes := chargeableMinutes
		if minutes < 1 {
			minutes = 1
		}
		perMinute := rawFee / int64(minutes)
		effect.AppliedValue = min64(perMinute*rule.Value(), rawFee)

	case TypeFreeAll:
		effect.AppliedValue = rawFee
	}

	return effect
}

// TotalOf sums effects without capping; the uncapped total stays visible
// for audit even when it exceeds the raw fee.
func TotalOf(effects []Effect) int64 {
	var total int64
	for _, e := range effects {
		total += e.AppliedValue
	}
	return total
}

// FinalFee clamps the discounted fee at zero.
func FinalFee(rawFee int64, discountTotal int64) int64 {
	final := rawFee - discountTotal
	if final < 0 {
		return 0
	}
	return final
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
