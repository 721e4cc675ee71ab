// Package progress contains goal progress use cases.
package progress

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/goal-planner/backend/internal/application/adapter"
	"github.com/goal-planner/backend/internal/domain/entity"
	"github.com/goal-planner/backend/internal/domain/planning"
)

// ListProgressInput represents the input for listing progress.
type ListProgressInput struct {
	UserID uuid.UUID
}

// GoalProgress pairs an active goal with its current progress.
type GoalProgress struct {
	Goal     *entity.Goal
	Snapshot entity.ProgressSnapshot
}

// ListProgressOutput represents the output of listing progress.
type ListProgressOutput struct {
	Goals []GoalProgress
}

// ListProgressUseCase returns the current progress of every active goal of a user.
type ListProgressUseCase struct {
	goalRepo     adapter.GoalRepository
	progressRepo adapter.ProgressRepository
}

// NewListProgressUseCase creates a new ListProgressUseCase instance.
func NewListProgressUseCase(goalRepo adapter.GoalRepository, progressRepo adapter.ProgressRepository) *ListProgressUseCase {
	return &ListProgressUseCase{
		goalRepo:     goalRepo,
		progressRepo: progressRepo,
	}
}

// Execute performs the progress listing.
func (uc *ListProgressUseCase) Execute(ctx context.Context, input ListProgressInput) (*ListProgressOutput, error) {
	goals, err := uc.goalRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}

	entries, err := uc.progressRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	history, conflicts := planning.Reconcile(entries)
	logConflicts(conflicts)

	output := &ListProgressOutput{
		Goals: make([]GoalProgress, 0, len(goals)),
	}
	for _, g := range goals {
		output.Goals = append(output.Goals, GoalProgress{
			Goal:     g,
			Snapshot: planning.CurrentProgress(g.ID, history),
		})
	}
	return output, nil
}
