// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/goal-planner/backend/internal/application/adapter"
	"github.com/goal-planner/backend/internal/domain/entity"
	"github.com/goal-planner/backend/internal/integration/persistence/model"
)

// progressRepository implements the adapter.ProgressRepository interface.
type progressRepository struct {
	db *gorm.DB
}

// NewProgressRepository creates a new progress repository instance.
func NewProgressRepository(db *gorm.DB) adapter.ProgressRepository {
	return &progressRepository{
		db: db,
	}
}

// FindByGoalID retrieves every progress entry of a goal, oldest month first.
func (r *progressRepository) FindByGoalID(ctx context.Context, goalID uuid.UUID) ([]entity.GoalProgressEntry, error) {
	var models []model.ProgressEntryModel
	result := r.db.WithContext(ctx).
		Where("goal_id = ?", goalID).
		Order("month_year ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	return toProgressEntries(models), nil
}

// FindByUserID retrieves every progress entry of a user's goals.
func (r *progressRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.GoalProgressEntry, error) {
	var models []model.ProgressEntryModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("goal_id ASC").
		Order("month_year ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	return toProgressEntries(models), nil
}

// Upsert inserts or replaces one entry by goal and month.
func (r *progressRepository) Upsert(ctx context.Context, entry entity.GoalProgressEntry) error {
	return r.UpsertMany(ctx, []entity.GoalProgressEntry{entry})
}

// UpsertMany inserts or replaces entries by goal and month in a single transaction.
func (r *progressRepository) UpsertMany(ctx context.Context, entries []entity.GoalProgressEntry) error {
	if len(entries) == 0 {
		return nil
	}

	models := make([]*model.ProgressEntryModel, len(entries))
	for i, entry := range entries {
		models[i] = model.ProgressEntryFromEntity(entry)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "goal_id"}, {Name: "month_year"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"planned_amount",
				"actual_amount",
				"cumulative_planned",
				"cumulative_actual",
				"variance",
				"note",
				"updated_at",
			}),
		}).Create(&models).Error
	})
}

// ListUserIDs returns the users that have at least one progress entry.
func (r *progressRepository) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	var userIDs []uuid.UUID
	result := r.db.WithContext(ctx).
		Model(&model.ProgressEntryModel{}).
		Distinct("user_id").
		Order("user_id ASC").
		Pluck("user_id", &userIDs)
	if result.Error != nil {
		return nil, result.Error
	}
	return userIDs, nil
}

func toProgressEntries(models []model.ProgressEntryModel) []entity.GoalProgressEntry {
	entries := make([]entity.GoalProgressEntry, len(models))
	for i := range models {
		entries[i] = models[i].ToEntity()
	}
	return entries
}
