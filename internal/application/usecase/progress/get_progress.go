// Package progress contains goal progress use cases.
package progress

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/goal-planner/backend/internal/application/adapter"
	"github.com/goal-planner/backend/internal/application/usecase/goal"
	"github.com/goal-planner/backend/internal/domain/entity"
	"github.com/goal-planner/backend/internal/domain/planning"
)

// GetProgressInput represents the input for getting a goal's progress.
type GetProgressInput struct {
	UserID uuid.UUID
	GoalID uuid.UUID
}

// GetProgressOutput represents the output of getting a goal's progress.
type GetProgressOutput struct {
	Goal     *entity.Goal
	Snapshot entity.ProgressSnapshot
	History  []entity.GoalProgressEntry
}

// GetProgressUseCase returns the current progress of a goal and its month history.
// Cumulative values are recomputed from the history on every read.
type GetProgressUseCase struct {
	goalRepo     adapter.GoalRepository
	progressRepo adapter.ProgressRepository
}

// NewGetProgressUseCase creates a new GetProgressUseCase instance.
func NewGetProgressUseCase(goalRepo adapter.GoalRepository, progressRepo adapter.ProgressRepository) *GetProgressUseCase {
	return &GetProgressUseCase{
		goalRepo:     goalRepo,
		progressRepo: progressRepo,
	}
}

// Execute performs the progress retrieval.
func (uc *GetProgressUseCase) Execute(ctx context.Context, input GetProgressInput) (*GetProgressOutput, error) {
	// Check the goal exists and belongs to the user
	owned, err := goal.FindOwnedGoal(ctx, uc.goalRepo, input.GoalID, input.UserID)
	if err != nil {
		return nil, err
	}

	entries, err := uc.progressRepo.FindByGoalID(ctx, input.GoalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress history: %w", err)
	}

	history, conflicts := planning.Reconcile(entries)
	logConflicts(conflicts)

	return &GetProgressOutput{
		Goal:     owned,
		Snapshot: planning.CurrentProgress(input.GoalID, history),
		History:  history,
	}, nil
}
