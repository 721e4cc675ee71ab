// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/goal-planner/backend/internal/domain/entity"
)

// BudgetRepository defines the interface for budget profile persistence operations.
type BudgetRepository interface {
	// FindByUserID retrieves the budget profile of a user.
	// Returns nil without error when the user has none yet.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.BudgetProfile, error)

	// Save creates or replaces the budget profile of a user.
	Save(ctx context.Context, budget *entity.BudgetProfile) error
}
