// Package progress contains goal progress use cases.
package progress

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/goal-planner/backend/internal/application/adapter"
	"github.com/goal-planner/backend/internal/domain/planning"
)

// RebuildProgressInput represents the input for rebuilding progress. A nil UserID
// rebuilds every user.
type RebuildProgressInput struct {
	UserID *uuid.UUID
}

// RebuildProgressOutput represents the output of a rebuild.
type RebuildProgressOutput struct {
	Users     int
	Goals     int
	Rewritten int
	Conflicts int
}

// RebuildProgressUseCase recomputes stored cumulative progress from each goal's history
// and rewrites the entries that drifted.
type RebuildProgressUseCase struct {
	progressRepo adapter.ProgressRepository
	locks        *GoalLocks
}

// NewRebuildProgressUseCase creates a new RebuildProgressUseCase instance.
func NewRebuildProgressUseCase(progressRepo adapter.ProgressRepository, locks *GoalLocks) *RebuildProgressUseCase {
	return &RebuildProgressUseCase{
		progressRepo: progressRepo,
		locks:        locks,
	}
}

// Execute performs the rebuild.
func (uc *RebuildProgressUseCase) Execute(ctx context.Context, input RebuildProgressInput) (*RebuildProgressOutput, error) {
	var userIDs []uuid.UUID
	if input.UserID != nil {
		userIDs = []uuid.UUID{*input.UserID}
	} else {
		ids, err := uc.progressRepo.ListUserIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list users with progress: %w", err)
		}
		userIDs = ids
	}

	output := &RebuildProgressOutput{}
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return output, err
		}
		if err := uc.rebuildUser(ctx, userID, output); err != nil {
			return output, err
		}
		output.Users++
	}

	slog.Info("Progress rebuilt",
		"users", output.Users,
		"goals", output.Goals,
		"rewritten", output.Rewritten,
		"conflicts", output.Conflicts,
	)
	return output, nil
}

func (uc *RebuildProgressUseCase) rebuildUser(ctx context.Context, userID uuid.UUID, output *RebuildProgressOutput) error {
	entries, err := uc.progressRepo.FindByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load progress of user %s: %w", userID, err)
	}

	seen := make(map[uuid.UUID]bool)
	for _, entry := range entries {
		if seen[entry.GoalID] {
			continue
		}
		seen[entry.GoalID] = true
		if err := uc.rebuildGoal(ctx, entry.GoalID, output); err != nil {
			return err
		}
	}
	return nil
}

func (uc *RebuildProgressUseCase) rebuildGoal(ctx context.Context, goalID uuid.UUID, output *RebuildProgressOutput) error {
	release := uc.locks.Lock(goalID)
	defer release()

	history, err := uc.progressRepo.FindByGoalID(ctx, goalID)
	if err != nil {
		return fmt.Errorf("failed to load progress of goal %s: %w", goalID, err)
	}

	reconciled, conflicts := planning.Reconcile(history)
	logConflicts(conflicts)

	changed := entriesToWrite(history, reconciled, conflicts)
	if len(changed) > 0 {
		if err := uc.progressRepo.UpsertMany(ctx, changed); err != nil {
			return fmt.Errorf("failed to save progress of goal %s: %w", goalID, err)
		}
	}

	output.Goals++
	output.Rewritten += len(changed)
	output.Conflicts += len(conflicts)
	return nil
}
