package planning

import "github.com/shopspring/decimal"

// HybridStrategy funds foundational goals (emergency fund or flagged) first, waterfall
// style, with the remainder cascading to the other goals. Once no foundational goal is
// active, every remaining goal is funded in parallel.
type HybridStrategy struct {
	waterfall *WaterfallStrategy
	parallel  *ParallelStrategy
}

// NewHybridStrategy creates a HybridStrategy over a waterfall and a parallel strategy.
func NewHybridStrategy() *HybridStrategy {
	return &HybridStrategy{
		waterfall: NewWaterfallStrategy(),
		parallel:  NewParallelStrategy(),
	}
}

func (s *HybridStrategy) Name() string { return "hybrid" }

func (s *HybridStrategy) Distribute(budget decimal.Decimal, demands []Demand) []decimal.Decimal {
	order := make([]int, 0, len(demands))
	for i, demand := range demands {
		if demand.Foundational {
			order = append(order, i)
		}
	}
	if len(order) == 0 {
		return s.parallel.Distribute(budget, demands)
	}
	for i, demand := range demands {
		if !demand.Foundational {
			order = append(order, i)
		}
	}

	reordered := make([]Demand, len(order))
	for pos, idx := range order {
		reordered[pos] = demands[idx]
	}
	funded := s.waterfall.Distribute(budget, reordered)

	shares := make([]decimal.Decimal, len(demands))
	for pos, idx := range order {
		shares[idx] = funded[pos]
	}
	return shares
}
