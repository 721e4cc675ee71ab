package planning

import "github.com/shopspring/decimal"

// WaterfallStrategy funds goals one after another in priority order. Budget left
// after a goal's demand cascades to the next one.
type WaterfallStrategy struct{}

// NewWaterfallStrategy creates a WaterfallStrategy.
func NewWaterfallStrategy() *WaterfallStrategy { return &WaterfallStrategy{} }

func (s *WaterfallStrategy) Name() string { return "waterfall" }

func (s *WaterfallStrategy) Distribute(budget decimal.Decimal, demands []Demand) []decimal.Decimal {
	shares := make([]decimal.Decimal, len(demands))
	remaining := budget
	for i, demand := range demands {
		if !remaining.IsPositive() {
			shares[i] = decimal.Zero
			continue
		}
		share := minDecimal(demand.Amount, remaining)
		shares[i] = share
		remaining = remaining.Sub(share)
	}
	return shares
}
