package planning

import "github.com/shopspring/decimal"

// ParallelStrategy funds every goal at once. When demands exceed the budget, each
// share is scaled by budget/total.
type ParallelStrategy struct{}

// NewParallelStrategy creates a ParallelStrategy.
func NewParallelStrategy() *ParallelStrategy { return &ParallelStrategy{} }

func (s *ParallelStrategy) Name() string { return "parallel" }

func (s *ParallelStrategy) Distribute(budget decimal.Decimal, demands []Demand) []decimal.Decimal {
	shares := make([]decimal.Decimal, len(demands))

	total := decimal.Zero
	for _, demand := range demands {
		total = total.Add(demand.Amount)
	}

	if total.LessThanOrEqual(budget) {
		for i, demand := range demands {
			shares[i] = demand.Amount
		}
		return shares
	}

	if !budget.IsPositive() {
		for i := range shares {
			shares[i] = decimal.Zero
		}
		return shares
	}

	// truncating to the cent keeps the scaled sum at or below budget
	for i, demand := range demands {
		shares[i] = demand.Amount.Mul(budget).Div(total).Truncate(2)
	}
	return shares
}
