package planning

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goal-planner/backend/internal/domain/entity"
	domainerror "github.com/goal-planner/backend/internal/domain/error"
)

// PlanState is everything a user's plan is derived from, plus the derived plan.
type PlanState struct {
	AsOf          time.Time
	Goals         []*entity.Goal
	MonthlyBudget decimal.Decimal
	FundingStyle  entity.FundingStyle
	Plan          *entity.AllocationPlan
}

// Action is a mutation of a PlanState.
type Action interface {
	apply(state *PlanState) error
}

// AddGoal adds a new goal.
type AddGoal struct {
	Goal *entity.Goal
}

// GoalPatch lists the goal fields an UpdateGoal changes. Nil fields are kept.
type GoalPatch struct {
	Name               *string
	Category           *entity.GoalCategory
	TargetDate         *time.Time
	Amount             *decimal.Decimal
	Profile            *entity.RiskProfile
	CustomRates        *entity.RateSet
	ClearCustomRates   bool
	PaymentFrequency   *entity.PaymentFrequency
	PaymentPeriod      *int
	ClearPaymentPeriod bool
	Flags              []string
	SetFlags           bool
}

// UpdateGoal changes an active goal.
type UpdateGoal struct {
	GoalID uuid.UUID
	Patch  GoalPatch
}

// DeactivateGoal soft-deletes a goal; it no longer takes part in allocation.
type DeactivateGoal struct {
	GoalID uuid.UUID
	At     time.Time
}

// SetBudget replaces the monthly budget. Negative budgets are clamped to zero.
type SetBudget struct {
	MonthlyBudget decimal.Decimal
}

// SetFundingStyle replaces the funding style.
type SetFundingStyle struct {
	Style entity.FundingStyle
}

// Recalculate moves the state to a new reference date.
type Recalculate struct {
	AsOf time.Time
}

// Reduce applies action to a copy of state and re-derives every active goal and the
// allocation across all of them. The input state is never modified; on error it is
// returned unchanged.
func Reduce(state PlanState, action Action) (PlanState, error) {
	next := state.clone()
	if err := action.apply(&next); err != nil {
		return state, err
	}
	if err := next.recompute(); err != nil {
		return state, err
	}
	return next, nil
}

// Matured reports whether a goal's target month is already reached as of the state's date.
func (s PlanState) Matured(goal *entity.Goal) bool {
	return MonthsBetween(s.AsOf, goal.TargetDate) < 1
}

// Goal returns the goal with the given ID.
func (s PlanState) Goal(id uuid.UUID) (*entity.Goal, bool) {
	for _, goal := range s.Goals {
		if goal.ID == id {
			return goal, true
		}
	}
	return nil, false
}

func (s PlanState) clone() PlanState {
	next := s
	next.Goals = make([]*entity.Goal, len(s.Goals))
	for i, goal := range s.Goals {
		next.Goals[i] = goal.Clone()
	}
	next.Plan = nil
	return next
}

func (s *PlanState) recompute() error {
	active := make([]*entity.Goal, 0, len(s.Goals))
	for _, goal := range s.Goals {
		if !goal.IsActive() {
			continue
		}
		if s.Matured(goal) {
			goal.HorizonMonths = 0
			goal.ReturnPhases = nil
			goal.RequiredPMT = decimal.Zero
			goal.Disbursement = decimal.Zero
			continue
		}
		if err := Derive(goal, s.AsOf); err != nil {
			return err
		}
		active = append(active, goal)
	}

	plan, err := Allocate(active, s.MonthlyBudget, s.FundingStyle)
	if err != nil {
		return err
	}
	plan.StartMonth = entity.FirstOfMonth(s.AsOf)
	s.Plan = plan
	return nil
}

func (s *PlanState) activeGoal(id uuid.UUID) (*entity.Goal, error) {
	goal, ok := s.Goal(id)
	if !ok || !goal.IsActive() {
		return nil, domainerror.NewGoalError(
			domainerror.ErrCodeGoalNotFound,
			"goal not found",
			domainerror.ErrGoalNotFound,
		)
	}
	return goal, nil
}

func (a AddGoal) apply(state *PlanState) error {
	if a.Goal == nil {
		return domainerror.NewInvalidGoalError(domainerror.ErrCodeMissingGoalFields, "goal is required")
	}
	goal := a.Goal.Clone()
	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	goal.HorizonMonths = MonthsBetween(state.AsOf, goal.TargetDate)
	if goal.HorizonMonths < 1 {
		return domainerror.NewInvalidGoalError(
			domainerror.ErrCodeInvalidTargetDate,
			"target date must be at least one month ahead",
		)
	}
	state.Goals = append(state.Goals, goal)
	return nil
}

func (a UpdateGoal) apply(state *PlanState) error {
	goal, err := state.activeGoal(a.GoalID)
	if err != nil {
		return err
	}

	p := a.Patch
	if p.Name != nil {
		goal.Name = *p.Name
	}
	if p.Category != nil {
		goal.Category = *p.Category
	}
	if p.TargetDate != nil {
		if MonthsBetween(state.AsOf, *p.TargetDate) < 1 {
			return domainerror.NewInvalidGoalError(
				domainerror.ErrCodeInvalidTargetDate,
				"target date must be at least one month ahead",
			)
		}
		goal.TargetDate = *p.TargetDate
	}
	if p.Amount != nil {
		goal.Amount = *p.Amount
	}
	if p.Profile != nil {
		goal.Profile = *p.Profile
	}
	if p.ClearCustomRates {
		goal.CustomRates = nil
	}
	if p.CustomRates != nil {
		rates := *p.CustomRates
		goal.CustomRates = &rates
	}
	if p.PaymentFrequency != nil {
		goal.PaymentFrequency = *p.PaymentFrequency
	}
	if p.ClearPaymentPeriod {
		goal.PaymentPeriod = nil
	}
	if p.PaymentPeriod != nil {
		period := *p.PaymentPeriod
		goal.PaymentPeriod = &period
	}
	if p.SetFlags {
		goal.Flags = append([]string(nil), p.Flags...)
	}
	return nil
}

func (a DeactivateGoal) apply(state *PlanState) error {
	goal, err := state.activeGoal(a.GoalID)
	if err != nil {
		return err
	}
	at := a.At
	if at.IsZero() {
		at = state.AsOf
	}
	goal.DeletedAt = &at
	return nil
}

func (a SetBudget) apply(state *PlanState) error {
	if a.MonthlyBudget.IsNegative() {
		state.MonthlyBudget = decimal.Zero
		return nil
	}
	state.MonthlyBudget = a.MonthlyBudget
	return nil
}

func (a SetFundingStyle) apply(state *PlanState) error {
	if !entity.IsValidFundingStyle(a.Style) {
		return domainerror.NewPlanError(
			domainerror.ErrCodeInvalidFundingStyle,
			"funding style must be 'waterfall', 'parallel', or 'hybrid'",
			domainerror.ErrInvalidFundingStyle,
		)
	}
	state.FundingStyle = a.Style
	return nil
}

func (a Recalculate) apply(state *PlanState) error {
	if !a.AsOf.IsZero() {
		state.AsOf = a.AsOf
	}
	return nil
}
