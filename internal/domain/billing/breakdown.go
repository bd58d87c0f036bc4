package billing

import (
	"parkflow/internal/domain/discount"
	"parkflow/internal/domain/tariff"
)

// Breakdown is the full result of one fee computation. It is an
// immutable value: a recomputation produces a new Breakdown, never a
// mutation of an existing one.
type Breakdown struct {
	ParkingMinutes    int                 `json:"parking_minutes"`
	FreeMinutesUsed   int                 `json:"free_minutes_used"`
	ChargeableMinutes int                 `json:"chargeable_minutes"`
	BaseMinutes       int                 `json:"base_minutes"`
	BaseFee           int64               `json:"base_fee"`
	AdditionalMinutes int                 `json:"additional_minutes"`
	AdditionalFee     int64               `json:"additional_fee"`
	UncappedFee       int64               `json:"uncapped_fee"`
	DailyMaxApplied   bool                `json:"daily_max_applied"`
	RawFee            int64               `json:"raw_fee"`
	RateCategory      tariff.RateCategory `json:"rate_category"`
	Discounts         []discount.Effect   `json:"discounts,omitempty"`
	DiscountTotal     int64               `json:"discount_total"`
	FinalFee          int64               `json:"final_fee"`
}
