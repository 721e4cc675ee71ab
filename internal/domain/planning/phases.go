package planning

import (
	"github.com/goal-planner/backend/internal/domain/entity"
	domainerror "github.com/goal-planner/backend/internal/domain/error"
)

const (
	// singlePhaseMaxMonths is the longest horizon kept in one low-rate phase.
	singlePhaseMaxMonths = 36
	// twoPhaseMaxMonths is the longest horizon split into a high and a low phase.
	twoPhaseMaxMonths = 84
	// deRiskMonths is the final low-rate window of a two-phase horizon.
	deRiskMonths = 24
)

// BuildReturnPhases lays out the return phases of a goal. Accumulation phases sum to
// horizonMonths; a drawdown phase of paymentPeriod*12 months at 2% follows when a
// payment period is given.
func BuildReturnPhases(horizonMonths int, profile entity.RiskProfile, paymentPeriod *int, custom *entity.RateSet) ([]entity.ReturnPhase, error) {
	if horizonMonths < 1 {
		return nil, domainerror.NewGoalError(
			domainerror.ErrCodeInvalidHorizon,
			"horizon must be at least one month",
			domainerror.ErrInvalidHorizon,
		)
	}
	if paymentPeriod != nil && *paymentPeriod < 1 {
		return nil, domainerror.NewInvalidGoalError(
			domainerror.ErrCodeInvalidPaymentPeriod,
			"payment period must be at least one year",
		)
	}

	rates, err := ResolveRates(profile, custom)
	if err != nil {
		return nil, err
	}

	var phases []entity.ReturnPhase
	switch {
	case horizonMonths <= singlePhaseMaxMonths:
		phases = []entity.ReturnPhase{
			{Length: horizonMonths, Rate: rates.Low},
		}
	case horizonMonths <= twoPhaseMaxMonths:
		phases = []entity.ReturnPhase{
			{Length: horizonMonths - deRiskMonths, Rate: rates.High},
			{Length: deRiskMonths, Rate: rates.Low},
		}
	default:
		// 72/16/12 split, remainder to the last phase
		high := horizonMonths * 72 / 100
		mid := horizonMonths * 16 / 100
		phases = []entity.ReturnPhase{
			{Length: high, Rate: rates.High},
			{Length: mid, Rate: rates.Mid},
			{Length: horizonMonths - high - mid, Rate: rates.Low},
		}
	}

	if paymentPeriod != nil {
		phases = append(phases, entity.ReturnPhase{
			Length:   *paymentPeriod * 12,
			Rate:     drawdownRate,
			Drawdown: true,
		})
	}

	return phases, nil
}

// AccumulationMonths sums the lengths of the non-drawdown phases.
func AccumulationMonths(phases []entity.ReturnPhase) int {
	total := 0
	for _, phase := range phases {
		if !phase.Drawdown && phase.Length > 0 {
			total += phase.Length
		}
	}
	return total
}

// drawdownPhase returns the drawdown phase, if any.
func drawdownPhase(phases []entity.ReturnPhase) (entity.ReturnPhase, bool) {
	for _, phase := range phases {
		if phase.Drawdown && phase.Length > 0 {
			return phase, true
		}
	}
	return entity.ReturnPhase{}, false
}
