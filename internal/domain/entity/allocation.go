package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FundingStyle selects how a monthly budget is split across goals.
type FundingStyle string

const (
	FundingStyleWaterfall FundingStyle = "waterfall"
	FundingStyleParallel  FundingStyle = "parallel"
	FundingStyleHybrid    FundingStyle = "hybrid"
)

// IsValidFundingStyle validates a funding style.
func IsValidFundingStyle(style FundingStyle) bool {
	return style == FundingStyleWaterfall ||
		style == FundingStyleParallel ||
		style == FundingStyleHybrid
}

// GoalAllocation is the month-by-month funding schedule of one goal.
type GoalAllocation struct {
	GoalID             uuid.UUID
	Goal               *Goal
	MonthlyAllocations []decimal.Decimal
	RunningBalances    []decimal.Decimal

	// Balance at the goal's target month and the amount still missing then.
	FinalBalance decimal.Decimal
	Gap          decimal.Decimal
}

// OnTrack reports whether the goal reaches its target by its deadline.
func (a *GoalAllocation) OnTrack() bool {
	return !a.Gap.IsPositive()
}

// AllocationAt returns the planned allocation for the given month offset.
func (a *GoalAllocation) AllocationAt(month int) (decimal.Decimal, bool) {
	if month < 0 || month >= len(a.MonthlyAllocations) {
		return decimal.Zero, false
	}
	return a.MonthlyAllocations[month], true
}

// AllocationPlan is the result of one allocation run across all active goals.
type AllocationPlan struct {
	FundingStyle  FundingStyle
	MonthlyBudget decimal.Decimal
	Months        int
	StartMonth    time.Time
	Allocations   []GoalAllocation

	// Sum of required payments of goals that are active in month 0, and how far
	// that sum exceeds the budget.
	TotalRequired decimal.Decimal
	Shortfall     decimal.Decimal
}

// InsufficientBudget reports whether the budget cannot cover every required payment.
func (p *AllocationPlan) InsufficientBudget() bool {
	return p.Shortfall.IsPositive()
}

// ForGoal returns the allocation of the given goal.
func (p *AllocationPlan) ForGoal(goalID uuid.UUID) (*GoalAllocation, bool) {
	for i := range p.Allocations {
		if p.Allocations[i].GoalID == goalID {
			return &p.Allocations[i], true
		}
	}
	return nil, false
}
