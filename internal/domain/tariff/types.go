package tariff

// RateCategory identifies which tier of a rate plan priced a session.
type RateCategory string

const (
	CategoryDefault      RateCategory = "default"
	CategoryNight        RateCategory = "night"
	CategoryWeekend      RateCategory = "weekend"
	CategoryWeekendNight RateCategory = "weekendNight"
)

func (c RateCategory) String() string {
	return string(c)
}

func (c RateCategory) IsValid() bool {
	switch c {
	case CategoryDefault, CategoryNight, CategoryWeekend, CategoryWeekendNight:
		return true
	default:
		return false
	}
}
