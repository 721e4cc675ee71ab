// Package goal contains goal-related use cases.
package goal

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goal-planner/backend/internal/application/adapter"
	"github.com/goal-planner/backend/internal/application/usecase/plan"
	"github.com/goal-planner/backend/internal/domain/entity"
	domainerror "github.com/goal-planner/backend/internal/domain/error"
	"github.com/goal-planner/backend/internal/domain/planning"
)

// UpdateGoalInput represents the input for goal update. Nil fields are kept.
type UpdateGoalInput struct {
	GoalID             uuid.UUID
	UserID             uuid.UUID
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
	Flags              *[]string
}

// UpdateGoalOutput represents the output of goal update.
type UpdateGoalOutput struct {
	Goal       *entity.Goal
	Allocation *entity.GoalAllocation
}

// UpdateGoalUseCase handles goal update logic.
type UpdateGoalUseCase struct {
	goalRepo adapter.GoalRepository
	planner  *plan.Planner
}

// NewUpdateGoalUseCase creates a new UpdateGoalUseCase instance.
func NewUpdateGoalUseCase(goalRepo adapter.GoalRepository, planner *plan.Planner) *UpdateGoalUseCase {
	return &UpdateGoalUseCase{
		goalRepo: goalRepo,
		planner:  planner,
	}
}

// Execute performs the goal update.
func (uc *UpdateGoalUseCase) Execute(ctx context.Context, input UpdateGoalInput) (*UpdateGoalOutput, error) {
	// Check the goal exists and belongs to the user
	if _, err := FindOwnedGoal(ctx, uc.goalRepo, input.GoalID, input.UserID); err != nil {
		return nil, err
	}

	// Validate name if provided
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domainerror.NewInvalidGoalError(domainerror.ErrCodeMissingGoalFields, "name must not be empty")
		}
		input.Name = &name
	}

	// Validate amount if provided
	if input.Amount != nil && !input.Amount.IsPositive() {
		return nil, domainerror.NewInvalidGoalError(
			domainerror.ErrCodeInvalidGoalAmount,
			"amount must be greater than zero",
		)
	}

	patch := planning.GoalPatch{
		Name:               input.Name,
		Category:           input.Category,
		TargetDate:         input.TargetDate,
		Amount:             input.Amount,
		Profile:            input.Profile,
		CustomRates:        input.CustomRates,
		ClearCustomRates:   input.ClearCustomRates,
		PaymentFrequency:   input.PaymentFrequency,
		PaymentPeriod:      input.PaymentPeriod,
		ClearPaymentPeriod: input.ClearPaymentPeriod,
	}
	if input.Flags != nil {
		patch.Flags = *input.Flags
		patch.SetFlags = true
	}

	// Re-derive the goal and re-allocate every goal of the user
	state, err := uc.planner.Apply(ctx, input.UserID, planning.UpdateGoal{GoalID: input.GoalID, Patch: patch})
	if err != nil {
		return nil, err
	}
	if err := uc.planner.Commit(ctx, input.UserID, state); err != nil {
		return nil, err
	}

	goal, _ := state.Goal(input.GoalID)
	allocation, _ := state.Plan.ForGoal(input.GoalID)
	return &UpdateGoalOutput{
		Goal:       goal,
		Allocation: allocation,
	}, nil
}
