// Package planning implements the goal funding engine: return phases, required
// payments, multi-goal allocation and progress reconciliation. Everything here is
// pure and deterministic; callers own clocks, storage and logging.
package planning

import (
	"github.com/shopspring/decimal"

	"github.com/goal-planner/backend/internal/domain/entity"
	domainerror "github.com/goal-planner/backend/internal/domain/error"
)

// scale is the number of decimal places kept for rates, growth factors and balances.
const scale int32 = 10

// powPrecision is the number of decimal places kept while raising growth factors to
// fractional powers.
const powPrecision int32 = 20

var (
	one          = decimal.NewFromInt(1)
	drawdownRate = decimal.RequireFromString("0.02")
	twelfth      = one.Div(decimal.NewFromInt(12))
)

var defaultRates = map[entity.RiskProfile]entity.RateSet{
	entity.RiskProfileConservative: {
		High: decimal.RequireFromString("0.04"),
		Mid:  decimal.RequireFromString("0.03"),
		Low:  decimal.RequireFromString("0.02"),
	},
	entity.RiskProfileBalanced: {
		High: decimal.RequireFromString("0.06"),
		Mid:  decimal.RequireFromString("0.05"),
		Low:  decimal.RequireFromString("0.03"),
	},
	entity.RiskProfileGrowth: {
		High: decimal.RequireFromString("0.08"),
		Mid:  decimal.RequireFromString("0.07"),
		Low:  decimal.RequireFromString("0.05"),
	},
}

// DefaultRates returns the rate table of a risk profile.
func DefaultRates(profile entity.RiskProfile) (entity.RateSet, bool) {
	rates, ok := defaultRates[profile]
	return rates, ok
}

// ResolveRates picks the custom rates when given, otherwise the profile's defaults.
func ResolveRates(profile entity.RiskProfile, custom *entity.RateSet) (entity.RateSet, error) {
	if custom != nil {
		minRate := one.Neg()
		for _, rate := range []decimal.Decimal{custom.High, custom.Mid, custom.Low} {
			if rate.LessThanOrEqual(minRate) {
				return entity.RateSet{}, domainerror.NewInvalidGoalError(
					domainerror.ErrCodeInvalidCustomRates,
					"custom rates must be greater than -1",
				)
			}
		}
		return *custom, nil
	}

	rates, ok := DefaultRates(profile)
	if !ok {
		return entity.RateSet{}, domainerror.NewInvalidGoalError(
			domainerror.ErrCodeInvalidRiskProfile,
			"profile must be 'conservative', 'balanced', or 'growth'",
		)
	}
	return rates, nil
}

// MonthlyRate converts an annual rate to the equivalent monthly compounding rate,
// (1+annual)^(1/12) - 1.
func MonthlyRate(annual decimal.Decimal) decimal.Decimal {
	if annual.IsZero() {
		return decimal.Zero
	}
	growth, err := one.Add(annual).PowWithPrecision(twelfth, powPrecision)
	if err != nil {
		// only a total loss or worse has no fractional root
		return one.Neg()
	}
	return growth.Sub(one).Round(scale)
}
