// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/goal-planner/backend/internal/application/adapter"
	"github.com/goal-planner/backend/internal/domain/entity"
	"github.com/goal-planner/backend/internal/integration/persistence/model"
)

// budgetRepository implements the adapter.BudgetRepository interface.
type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository instance.
func NewBudgetRepository(db *gorm.DB) adapter.BudgetRepository {
	return &budgetRepository{
		db: db,
	}
}

// FindByUserID retrieves the budget profile of a user, or nil if there is none.
func (r *budgetRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.BudgetProfile, error) {
	var budgetModel model.BudgetModel
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&budgetModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return budgetModel.ToEntity(), nil
}

// Save creates or replaces the budget profile of a user.
func (r *budgetRepository) Save(ctx context.Context, budget *entity.BudgetProfile) error {
	budgetModel := model.BudgetFromEntity(budget)
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"monthly_income", "monthly_expenses", "funding_style", "updated_at"}),
	}).Create(budgetModel)
	return result.Error
}
