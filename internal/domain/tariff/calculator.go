package tariff

import "time"

// Charge is the raw-fee part of a fee breakdown, before discounts.
type Charge struct {
	ParkingMinutes    int
	FreeMinutesUsed   int
	ChargeableMinutes int
	BaseMinutes       int
	BaseFee           int64
	AdditionalMinutes int
	AdditionalFee     int64
	UncappedFee       int64
	DailyMaxApplied   bool
	RawFee            int64
}

// Calculate prices the span between entry and exit against one tier.
// All arithmetic is non-negative integer math; a negative raw duration
// (clock anomaly, manual correction) is clamped to zero rather than
// failing, since billing must never block a physical exit.
func Calculate(entryAt, exitAt time.Time, tier TariffTier) Charge {
	minutes := int(exitAt.Sub(entryAt) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}

	charge := Charge{ParkingMinutes: minutes}

	if minutes <= tier.FreeMinutes {
		charge.FreeMinutesUsed = minutes
		return charge
	}

	charge.FreeMinutesUsed = tier.FreeMinutes
	chargeable := minutes - tier.FreeMinutes
	charge.ChargeableMinutes = chargeable

	// The base tier covers up to BaseMinutes of chargeable time for a
	// flat BaseFee, even when less than that is used.
	base := chargeable
	if base > tier.BaseMinutes {
		base = tier.BaseMinutes
	}
	charge.BaseMinutes = base
	charge.BaseFee = tier.BaseFee
	fee := tier.BaseFee

	if remaining := chargeable - tier.BaseMinutes; remaining > 0 && tier.AdditionalMinutes > 0 {
		units := (remaining + tier.AdditionalMinutes - 1) / tier.AdditionalMinutes
		charge.AdditionalMinutes = remaining
		charge.AdditionalFee = int64(units) * tier.AdditionalFee
		fee += charge.AdditionalFee
	}

	charge.UncappedFee = fee
	charge.RawFee = fee
	if tier.DailyMax > 0 && fee > tier.DailyMax {
		charge.RawFee = tier.DailyMax
		charge.DailyMaxApplied = true
	}

	return charge
}
