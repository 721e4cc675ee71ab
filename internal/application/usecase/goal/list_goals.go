// Package goal contains goal-related use cases.
package goal

import (
	"context"

	"github.com/google/uuid"

	"github.com/goal-planner/backend/internal/application/usecase/plan"
	"github.com/goal-planner/backend/internal/domain/entity"
)

// ListGoalsInput represents the input for listing goals.
type ListGoalsInput struct {
	UserID uuid.UUID
}

// GoalWithAllocation pairs a goal with its allocation in the current plan.
type GoalWithAllocation struct {
	Goal       *entity.Goal
	Allocation *entity.GoalAllocation
}

// ListGoalsOutput represents the output of listing goals.
type ListGoalsOutput struct {
	Goals []*GoalWithAllocation
}

// ListGoalsUseCase handles listing a user's active goals with their derived values.
type ListGoalsUseCase struct {
	planner *plan.Planner
}

// NewListGoalsUseCase creates a new ListGoalsUseCase instance.
func NewListGoalsUseCase(planner *plan.Planner) *ListGoalsUseCase {
	return &ListGoalsUseCase{
		planner: planner,
	}
}

// Execute performs the goal listing.
func (uc *ListGoalsUseCase) Execute(ctx context.Context, input ListGoalsInput) (*ListGoalsOutput, error) {
	state, err := uc.planner.Load(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	goals := make([]*GoalWithAllocation, 0, len(state.Goals))
	for _, goal := range state.Goals {
		goals = append(goals, &GoalWithAllocation{
			Goal:       goal,
			Allocation: allocationOf(state, goal.ID),
		})
	}

	return &ListGoalsOutput{
		Goals: goals,
	}, nil
}
