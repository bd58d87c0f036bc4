package tariff

import "time"

// ResolveCategory selects which tier category applies to a session, based
// solely on its entry instant in the lot's local time. The category is
// never re-evaluated mid-session, even when the exit crosses a day or
// night-window boundary.
//
// The chain is evaluated in strict priority order; the first match wins:
//
//  1. time-based selection disabled        -> default
//  2. weekend-night enabled, both hold     -> weekendNight
//  3. weekend enabled, weekend non-night   -> weekend
//  4. night enabled, night non-weekend     -> night
//  5. weekend enabled, weekend (fallback when no weekend-night tier) -> weekend
//  6. night enabled, night (fallback)      -> night
//  7. otherwise                            -> default
func ResolveCategory(entryAt time.Time, rules RateRules) RateCategory {
	if !rules.TimeBasedEnabled {
		return CategoryDefault
	}

	weekend := isWeekend(entryAt)
	night := rules.NightWindow.Contains(entryAt)

	switch {
	case rules.WeekendNightEnabled && weekend && night:
		return CategoryWeekendNight
	case rules.WeekendEnabled && weekend && !night:
		return CategoryWeekend
	case rules.NightEnabled && night && !weekend:
		return CategoryNight
	case rules.WeekendEnabled && weekend:
		return CategoryWeekend
	case rules.NightEnabled && night:
		return CategoryNight
	default:
		return CategoryDefault
	}
}

func isWeekend(at time.Time) bool {
	switch at.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}
