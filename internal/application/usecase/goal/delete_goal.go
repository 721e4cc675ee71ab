// Package goal contains goal-related use cases.
package goal

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/goal-planner/backend/internal/application/adapter"
	"github.com/goal-planner/backend/internal/application/usecase/plan"
	domainerror "github.com/goal-planner/backend/internal/domain/error"
	"github.com/goal-planner/backend/internal/domain/planning"
)

// DeleteGoalInput represents the input for goal deletion.
type DeleteGoalInput struct {
	GoalID uuid.UUID
	UserID uuid.UUID
}

// DeleteGoalOutput represents the output of goal deletion.
type DeleteGoalOutput struct {
	Success bool
}

// DeleteGoalUseCase handles goal deactivation. Its progress history is kept.
type DeleteGoalUseCase struct {
	goalRepo adapter.GoalRepository
	planner  *plan.Planner
}

// NewDeleteGoalUseCase creates a new DeleteGoalUseCase instance.
func NewDeleteGoalUseCase(goalRepo adapter.GoalRepository, planner *plan.Planner) *DeleteGoalUseCase {
	return &DeleteGoalUseCase{
		goalRepo: goalRepo,
		planner:  planner,
	}
}

// Execute performs the goal deletion.
func (uc *DeleteGoalUseCase) Execute(ctx context.Context, input DeleteGoalInput) (*DeleteGoalOutput, error) {
	// Check the goal exists and belongs to the user
	if _, err := FindOwnedGoal(ctx, uc.goalRepo, input.GoalID, input.UserID); err != nil {
		return nil, err
	}

	// Re-allocate the remaining goals
	state, err := uc.planner.Apply(ctx, input.UserID, planning.DeactivateGoal{
		GoalID: input.GoalID,
		At:     uc.planner.Now(),
	})
	if err != nil {
		return nil, err
	}

	// Soft delete goal
	if err := uc.goalRepo.Deactivate(ctx, input.GoalID); err != nil {
		if errors.Is(err, domainerror.ErrGoalNotFound) {
			return nil, domainerror.NewGoalError(
				domainerror.ErrCodeGoalNotFound,
				"goal not found",
				domainerror.ErrGoalNotFound,
			)
		}
		return nil, fmt.Errorf("failed to delete goal: %w", err)
	}
	if err := uc.planner.Commit(ctx, input.UserID, state, input.GoalID); err != nil {
		return nil, err
	}

	return &DeleteGoalOutput{
		Success: true,
	}, nil
}
