//go:build unit || e2e

package builder

import (
	"parkflow/internal/domain/discount"
	"parkflow/internal/domain/tariff"

	"github.com/google/uuid"
)

// TariffBuilder produces the standard lot tariff used across tests:
// 30 free minutes, 1000 for the first hour, then 500 per 30 minutes,
// capped at 15000 per stay.
type TariffBuilder struct {
	Rules tariff.RateRules
}

func NewTariffBuilder() *TariffBuilder {
	return &TariffBuilder{
		Rules: tariff.RateRules{
			TimeBasedEnabled: true,
			Default: tariff.TariffTier{
				FreeMinutes:       30,
				BaseMinutes:       60,
				BaseFee:           1000,
				AdditionalMinutes: 30,
				AdditionalFee:     500,
				DailyMax:          15000,
			},
		},
	}
}

func (b *TariffBuilder) With(mutate func(*TariffBuilder)) *TariffBuilder {
	mutate(b)
	return b
}

func (b *TariffBuilder) WithNight(window tariff.NightWindow, tier tariff.TariffTier) *TariffBuilder {
	b.Rules.NightEnabled = true
	b.Rules.Night = tier
	b.Rules.NightWindow = window
	return b
}

func (b *TariffBuilder) WithWeekend(tier tariff.TariffTier) *TariffBuilder {
	b.Rules.WeekendEnabled = true
	b.Rules.Weekend = tier
	return b
}

func (b *TariffBuilder) Build() tariff.RateRules {
	return b.Rules
}

// Discount rule builders

func AmountRule(value int64) *discount.Rule {
	rule, _ := discount.NewRule(uuid.New(), "amount off", discount.TypeAmount, value, true, 0)
	return rule
}

func PercentRule(value int64) *discount.Rule {
	rule, _ := discount.NewRule(uuid.New(), "percent off", discount.TypePercent, value, true, 0)
	return rule
}

func FreeAllRule() *discount.Rule {
	rule, _ := discount.NewRule(uuid.New(), "comp ticket", discount.TypeFreeAll, 0, false, 0)
	return rule
}
