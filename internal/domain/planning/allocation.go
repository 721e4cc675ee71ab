package planning

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/goal-planner/backend/internal/domain/entity"
	domainerror "github.com/goal-planner/backend/internal/domain/error"
)

// goalTrack carries the running state of one goal through an allocation run.
type goalTrack struct {
	goal    *entity.Goal
	horizon int
	rates   []decimal.Decimal

	drawdownRate   decimal.Decimal
	drawdownMonths int
	payoutAt       []bool
	payout         decimal.Decimal

	balance decimal.Decimal
}

func newGoalTrack(goal *entity.Goal) (*goalTrack, error) {
	t := &goalTrack{goal: goal, balance: decimal.Zero}
	if goal.HorizonMonths < 1 {
		return t, nil
	}
	t.horizon = goal.HorizonMonths

	rates, err := accumulationRates(goal.ReturnPhases, goal.HorizonMonths)
	if err != nil {
		return nil, err
	}
	t.rates = rates

	if phase, ok := drawdownPhase(goal.ReturnPhases); ok {
		if _, _, err := Disbursement(goal.Amount, goal.ReturnPhases, goal.PaymentFrequency); err != nil {
			return nil, err
		}
		t.drawdownRate = MonthlyRate(phase.Rate)
		t.drawdownMonths = phase.Length
		t.payoutAt = make([]bool, phase.Length)
		for _, m := range payoutMonths(goal.PaymentFrequency, phase.Length) {
			t.payoutAt[m] = true
		}
	}

	return t, nil
}

// demand returns what the goal asks for in month m, if it is still accumulating.
func (t *goalTrack) demand(m int) (decimal.Decimal, bool) {
	if m >= t.horizon || t.balance.GreaterThanOrEqual(t.goal.Amount) {
		return decimal.Zero, false
	}
	grown := t.balance.Mul(one.Add(t.rates[m]))
	need := t.goal.Amount.Sub(grown).RoundCeil(2)
	if !need.IsPositive() {
		return decimal.Zero, false
	}
	amount := minDecimal(t.goal.RequiredPMT, need)
	if !amount.IsPositive() {
		return decimal.Zero, false
	}
	return amount, true
}

// advance applies month m's growth, contribution and payout, returning the new balance.
func (t *goalTrack) advance(m int, contribution decimal.Decimal) decimal.Decimal {
	switch {
	case m < t.horizon:
		t.balance = t.balance.Mul(one.Add(t.rates[m])).Add(contribution).Round(scale)
	case m-t.horizon < t.drawdownMonths:
		d := m - t.horizon
		if d == 0 {
			t.payout, _, _ = Disbursement(t.balance, t.goal.ReturnPhases, t.goal.PaymentFrequency)
		}
		t.balance = t.balance.Mul(one.Add(t.drawdownRate))
		if t.payoutAt[d] {
			t.balance = t.balance.Sub(t.payout)
		}
		t.balance = t.balance.Round(scale)
		if t.balance.IsNegative() {
			t.balance = decimal.Zero
		}
	}
	return t.balance
}

// Prioritize returns the active goals ordered by ascending target date. Goals that
// share a target date keep their relative order.
func Prioritize(goals []*entity.Goal) []*entity.Goal {
	ordered := make([]*entity.Goal, 0, len(goals))
	for _, goal := range goals {
		if goal.IsActive() {
			ordered = append(ordered, goal)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TargetDate.Before(ordered[j].TargetDate)
	})
	return ordered
}

// Allocate distributes a fixed monthly budget across the active goals, month by month,
// from month 0 to the longest horizon. Goals must already carry their derived return
// phases and required payment. A budget below the total requirement is not an error:
// the plan reports a shortfall and funds best-effort.
func Allocate(goals []*entity.Goal, monthlyBudget decimal.Decimal, style entity.FundingStyle) (*entity.AllocationPlan, error) {
	strategy, err := NewFundingStrategy(style)
	if err != nil {
		return nil, err
	}
	if monthlyBudget.IsNegative() {
		return nil, domainerror.NewPlanError(
			domainerror.ErrCodeInvalidBudget,
			"monthly budget must not be negative",
			domainerror.ErrInvalidBudget,
		)
	}

	ordered := Prioritize(goals)
	tracks := make([]*goalTrack, len(ordered))
	months := 0
	for i, goal := range ordered {
		track, err := newGoalTrack(goal)
		if err != nil {
			return nil, err
		}
		tracks[i] = track
		if goal.HorizonMonths > months {
			months = goal.HorizonMonths
		}
	}

	plan := &entity.AllocationPlan{
		FundingStyle:  style,
		MonthlyBudget: monthlyBudget,
		Months:        months,
		Allocations:   make([]entity.GoalAllocation, len(ordered)),
		TotalRequired: decimal.Zero,
		Shortfall:     decimal.Zero,
	}
	for i, goal := range ordered {
		plan.Allocations[i] = entity.GoalAllocation{
			GoalID:             goal.ID,
			Goal:               goal,
			MonthlyAllocations: make([]decimal.Decimal, months),
			RunningBalances:    make([]decimal.Decimal, months),
		}
	}

	funded := make([]decimal.Decimal, len(tracks))
	demands := make([]Demand, 0, len(tracks))
	for m := 0; m < months; m++ {
		demands = demands[:0]
		for i, track := range tracks {
			funded[i] = decimal.Zero
			if amount, ok := track.demand(m); ok {
				demands = append(demands, Demand{
					GoalIndex:    i,
					Amount:       amount,
					Foundational: track.goal.IsFoundational(),
				})
			}
		}

		if m == 0 {
			for _, demand := range demands {
				plan.TotalRequired = plan.TotalRequired.Add(demand.Amount)
			}
			if plan.TotalRequired.GreaterThan(monthlyBudget) {
				plan.Shortfall = plan.TotalRequired.Sub(monthlyBudget)
			}
		}

		shares := strategy.Distribute(monthlyBudget, demands)
		for k, demand := range demands {
			funded[demand.GoalIndex] = shares[k]
		}

		for i, track := range tracks {
			plan.Allocations[i].MonthlyAllocations[m] = funded[i]
			plan.Allocations[i].RunningBalances[m] = track.advance(m, funded[i])
		}
	}

	for i := range plan.Allocations {
		alloc := &plan.Allocations[i]
		alloc.FinalBalance = decimal.Zero
		if h := alloc.Goal.HorizonMonths; h >= 1 && h <= months {
			alloc.FinalBalance = alloc.RunningBalances[h-1]
		}
		alloc.Gap = alloc.Goal.Amount.Sub(alloc.FinalBalance)
		if alloc.Gap.IsNegative() {
			alloc.Gap = decimal.Zero
		}
	}

	return plan, nil
}
