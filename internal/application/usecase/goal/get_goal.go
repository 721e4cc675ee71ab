// Package goal contains goal-related use cases.
package goal

import (
	"context"

	"github.com/google/uuid"

	"github.com/goal-planner/backend/internal/application/adapter"
	"github.com/goal-planner/backend/internal/application/usecase/plan"
	"github.com/goal-planner/backend/internal/domain/entity"
	"github.com/goal-planner/backend/internal/domain/planning"
)

// GetGoalInput represents the input for getting a goal.
type GetGoalInput struct {
	GoalID uuid.UUID
	UserID uuid.UUID
}

// GetGoalOutput represents the output of getting a goal.
type GetGoalOutput struct {
	Goal       *entity.Goal
	Allocation *entity.GoalAllocation // Nil when the goal has matured
}

// GetGoalUseCase handles getting a goal by ID with its derived values as of now.
type GetGoalUseCase struct {
	goalRepo adapter.GoalRepository
	planner  *plan.Planner
}

// NewGetGoalUseCase creates a new GetGoalUseCase instance.
func NewGetGoalUseCase(goalRepo adapter.GoalRepository, planner *plan.Planner) *GetGoalUseCase {
	return &GetGoalUseCase{
		goalRepo: goalRepo,
		planner:  planner,
	}
}

// Execute performs the goal retrieval.
func (uc *GetGoalUseCase) Execute(ctx context.Context, input GetGoalInput) (*GetGoalOutput, error) {
	// Check the goal exists and belongs to the user
	stored, err := FindOwnedGoal(ctx, uc.goalRepo, input.GoalID, input.UserID)
	if err != nil {
		return nil, err
	}

	state, err := uc.planner.Load(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	goal, ok := state.Goal(input.GoalID)
	if !ok {
		goal = stored
	}
	return &GetGoalOutput{
		Goal:       goal,
		Allocation: allocationOf(state, input.GoalID),
	}, nil
}

func allocationOf(state planning.PlanState, goalID uuid.UUID) *entity.GoalAllocation {
	if state.Plan == nil {
		return nil
	}
	allocation, _ := state.Plan.ForGoal(goalID)
	return allocation
}
