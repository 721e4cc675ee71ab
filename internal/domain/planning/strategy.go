package planning

import (
	"github.com/shopspring/decimal"

	"github.com/goal-planner/backend/internal/domain/entity"
	domainerror "github.com/goal-planner/backend/internal/domain/error"
)

// Demand is what one active goal asks from the budget in a given month.
type Demand struct {
	GoalIndex    int // position in priority order
	Amount       decimal.Decimal
	Foundational bool
}

// FundingStrategy splits one month's budget across the active goals' demands.
// Demands arrive in priority order; the result is aligned with them and never sums
// above budget.
type FundingStrategy interface {
	Name() string
	Distribute(budget decimal.Decimal, demands []Demand) []decimal.Decimal
}

// NewFundingStrategy creates the strategy for a funding style.
func NewFundingStrategy(style entity.FundingStyle) (FundingStrategy, error) {
	switch style {
	case entity.FundingStyleWaterfall:
		return NewWaterfallStrategy(), nil
	case entity.FundingStyleParallel:
		return NewParallelStrategy(), nil
	case entity.FundingStyleHybrid:
		return NewHybridStrategy(), nil
	default:
		return nil, domainerror.NewPlanError(
			domainerror.ErrCodeInvalidFundingStyle,
			"funding style must be 'waterfall', 'parallel', or 'hybrid'",
			domainerror.ErrInvalidFundingStyle,
		)
	}
}

func minDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
