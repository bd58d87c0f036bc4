package tariff

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTimeOfDay = errors.New("time of day must be in HH:MM form within 00:00-23:59")
	ErrInvalidTier      = errors.New("tariff tier values must be non-negative")
)

// TariffTier is one complete billing configuration. All values are
// non-negative; fees are integer won. Immutable once a calculation
// references it.
type TariffTier struct {
	FreeMinutes       int   `json:"free_minutes"`
	BaseMinutes       int   `json:"base_minutes"`
	BaseFee           int64 `json:"base_fee"`
	AdditionalMinutes int   `json:"additional_minutes"`
	AdditionalFee     int64 `json:"additional_fee"`
	DailyMax          int64 `json:"daily_max"`
}

func (t TariffTier) Validate() error {
	if t.FreeMinutes < 0 || t.BaseMinutes < 0 || t.BaseFee < 0 ||
		t.AdditionalMinutes < 0 || t.AdditionalFee < 0 || t.DailyMax < 0 {
		return ErrInvalidTier
	}
	return nil
}

// TimeOfDay is minutes since local midnight.
type TimeOfDay int

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, ErrInvalidTimeOfDay
	}
	return TimeOfDay(hour*60 + minute), nil
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, ErrInvalidTimeOfDay
	}
	return NewTimeOfDay(hour, minute)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func timeOfDayOf(at time.Time) TimeOfDay {
	return TimeOfDay(at.Hour()*60 + at.Minute())
}

// NightWindow is a daily time-of-day window. It may wrap past midnight
// (e.g. 22:00-06:00). A zero-width window contains nothing.
type NightWindow struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

func (w NightWindow) Contains(at time.Time) bool {
	tod := timeOfDayOf(at)
	if w.Start == w.End {
		return false
	}
	if w.Start < w.End {
		return tod >= w.Start && tod < w.End
	}
	// wraps past midnight
	return tod >= w.Start || tod < w.End
}

// RateRules is the full tariff of a rate plan: a default tier plus
// optional conditional tiers. A disabled or absent conditional tier
// falls back to the default tier. Read-only during computation.
type RateRules struct {
	TimeBasedEnabled    bool        `json:"time_based_enabled"`
	Default             TariffTier  `json:"default"`
	NightEnabled        bool        `json:"night_enabled"`
	Night               TariffTier  `json:"night"`
	NightWindow         NightWindow `json:"night_window"`
	WeekendEnabled      bool        `json:"weekend_enabled"`
	Weekend             TariffTier  `json:"weekend"`
	WeekendNightEnabled bool        `json:"weekend_night_enabled"`
	WeekendNight        TariffTier  `json:"weekend_night"`
}

// TierFor returns the tier billing a session in the given category,
// falling back to the default tier when the category's tier is disabled.
func (r RateRules) TierFor(category RateCategory) TariffTier {
	switch category {
	case CategoryNight:
		if r.NightEnabled {
			return r.Night
		}
	case CategoryWeekend:
		if r.WeekendEnabled {
			return r.Weekend
		}
	case CategoryWeekendNight:
		if r.WeekendNightEnabled {
			return r.WeekendNight
		}
	}
	return r.Default
}
