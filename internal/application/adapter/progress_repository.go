// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/goal-planner/backend/internal/domain/entity"
)

// ProgressRepository defines the interface for goal progress persistence operations.
type ProgressRepository interface {
	// FindByGoalID retrieves every progress entry of a goal, oldest month first.
	FindByGoalID(ctx context.Context, goalID uuid.UUID) ([]entity.GoalProgressEntry, error)

	// FindByUserID retrieves every progress entry of a user's goals.
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.GoalProgressEntry, error)

	// Upsert inserts or replaces one entry by goal and month.
	Upsert(ctx context.Context, entry entity.GoalProgressEntry) error

	// UpsertMany inserts or replaces entries by goal and month in a single transaction.
	UpsertMany(ctx context.Context, entries []entity.GoalProgressEntry) error

	// ListUserIDs returns the users that have at least one progress entry.
	ListUserIDs(ctx context.Context) ([]uuid.UUID, error)
}
