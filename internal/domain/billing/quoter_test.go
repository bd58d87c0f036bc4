//go:build unit

package billing_test

import (
	"testing"
	"time"

	"parkflow/internal/domain/billing"
	"parkflow/internal/domain/discount"
	"parkflow/internal/domain/tariff"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func standardRules() tariff.RateRules {
	return tariff.RateRules{
		Default: tariff.TariffTier{
			FreeMinutes:       30,
			BaseMinutes:       30,
			BaseFee:           1000,
			AdditionalMinutes: 10,
			AdditionalFee:     500,
			DailyMax:          15000,
		},
	}
}

func rule(t *testing.T, ruleType discount.Type, value int64) *discount.Rule {
	t.Helper()
	r, err := discount.NewRule(uuid.New(), "rule", ruleType, value, true, 1)
	require.NoError(t, err)
	return r
}

func TestQuote(t *testing.T) {
	engine := billing.NewEngine()
	entry := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	t.Run("no discounts", func(t *testing.T) {
		b := engine.Quote(entry, entry.Add(65*time.Minute), standardRules(), nil)

		assert.Equal(t, int64(1500), b.RawFee)
		assert.Equal(t, int64(0), b.DiscountTotal)
		assert.Equal(t, int64(1500), b.FinalFee)
		assert.Equal(t, tariff.CategoryDefault, b.RateCategory)
		assert.Empty(t, b.Discounts)
	})

	t.Run("stacked discounts clamp final fee at zero", func(t *testing.T) {
		discounts := []*discount.Rule{
			rule(t, discount.TypeAmount, 3000),
			rule(t, discount.TypeAmount, 3000),
		}
		// 2h20m -> raw fee 5000; discounts total 6000
		b := engine.Quote(entry, entry.Add(140*time.Minute), standardRules(), discounts)

		require.Equal(t, int64(5000), b.RawFee)
		assert.Equal(t, int64(6000), b.DiscountTotal)
		assert.Equal(t, int64(0), b.FinalFee)
	})

	t.Run("free all overrides any raw fee", func(t *testing.T) {
		b := engine.Quote(entry, entry.Add(10*time.Hour), standardRules(), []*discount.Rule{
			rule(t, discount.TypeFreeAll, 0),
		})

		assert.Equal(t, int64(15000), b.RawFee)
		assert.Equal(t, int64(0), b.FinalFee)
	})

	t.Run("rate category follows entry time", func(t *testing.T) {
		rules := standardRules()
		rules.TimeBasedEnabled = true
		rules.WeekendEnabled = true
		rules.Weekend = tariff.TariffTier{FreeMinutes: 30, BaseMinutes: 60, BaseFee: 500}

		saturday := time.Date(2025, 6, 7, 10, 0, 0, 0, time.UTC)
		b := engine.Quote(saturday, saturday.Add(80*time.Minute), rules, nil)

		assert.Equal(t, tariff.CategoryWeekend, b.RateCategory)
		assert.Equal(t, int64(500), b.RawFee)
	})
}

func TestQuoteIdempotent(t *testing.T) {
	engine := billing.NewEngine()
	entry := time.Date(2025, 6, 7, 23, 30, 0, 0, time.UTC)
	exit := entry.Add(9*time.Hour + 17*time.Minute)
	discounts := []*discount.Rule{
		rule(t, discount.TypePercent, 20),
		rule(t, discount.TypeFreeMinutes, 60),
	}

	first := engine.Quote(entry, exit, standardRules(), discounts)
	second := engine.Quote(entry, exit, standardRules(), discounts)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("recomputation produced a different breakdown (-first +second):\n%s", diff)
	}
}
