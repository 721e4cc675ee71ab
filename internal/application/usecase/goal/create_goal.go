// Package goal contains goal-related use cases.
package goal

import (
	"context"
	"fmt"
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

// CreateGoalInput represents the input for goal creation.
type CreateGoalInput struct {
	UserID           uuid.UUID
	Name             string
	Category         entity.GoalCategory
	TargetDate       time.Time
	Amount           decimal.Decimal
	Profile          entity.RiskProfile
	CustomRates      *entity.RateSet          // Optional, replaces the profile's rates
	PaymentFrequency *entity.PaymentFrequency // Optional, defaults to once
	PaymentPeriod    *int                     // Optional, years of drawdown after the target date
	Flags            []string
}

// CreateGoalOutput represents the output of goal creation.
type CreateGoalOutput struct {
	Goal       *entity.Goal
	Allocation *entity.GoalAllocation
	Plan       *entity.AllocationPlan
}

// CreateGoalUseCase handles goal creation logic.
type CreateGoalUseCase struct {
	goalRepo adapter.GoalRepository
	planner  *plan.Planner
}

// NewCreateGoalUseCase creates a new CreateGoalUseCase instance.
func NewCreateGoalUseCase(goalRepo adapter.GoalRepository, planner *plan.Planner) *CreateGoalUseCase {
	return &CreateGoalUseCase{
		goalRepo: goalRepo,
		planner:  planner,
	}
}

// Execute performs the goal creation.
func (uc *CreateGoalUseCase) Execute(ctx context.Context, input CreateGoalInput) (*CreateGoalOutput, error) {
	// Validate required fields
	if strings.TrimSpace(input.Name) == "" || input.TargetDate.IsZero() {
		return nil, domainerror.NewInvalidGoalError(
			domainerror.ErrCodeMissingGoalFields,
			"name and target date are required",
		)
	}

	// Validate amount
	if !input.Amount.IsPositive() {
		return nil, domainerror.NewInvalidGoalError(
			domainerror.ErrCodeInvalidGoalAmount,
			"amount must be greater than zero",
		)
	}

	// Create goal entity
	goal := entity.NewGoal(
		input.UserID,
		strings.TrimSpace(input.Name),
		input.Category,
		input.TargetDate,
		input.Amount,
		input.Profile,
	)
	goal.CustomRates = input.CustomRates
	goal.PaymentPeriod = input.PaymentPeriod
	goal.Flags = input.Flags
	if input.PaymentFrequency != nil {
		goal.PaymentFrequency = *input.PaymentFrequency
	}
	now := uc.planner.Now()
	goal.CreatedAt = now
	goal.UpdatedAt = now

	// Derive the goal and re-allocate every goal of the user
	state, err := uc.planner.Apply(ctx, input.UserID, planning.AddGoal{Goal: goal})
	if err != nil {
		return nil, err
	}
	created, _ := state.Goal(goal.ID)

	// Save goal to database
	if err := uc.goalRepo.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	if err := uc.planner.Commit(ctx, input.UserID, state, created.ID); err != nil {
		return nil, err
	}

	allocation, _ := state.Plan.ForGoal(created.ID)
	return &CreateGoalOutput{
		Goal:       created,
		Allocation: allocation,
		Plan:       state.Plan,
	}, nil
}
