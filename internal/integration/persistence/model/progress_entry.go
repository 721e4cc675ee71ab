// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goal-planner/backend/internal/domain/entity"
)

// ProgressEntryModel represents the goal_progress_entries table in the database.
// Each goal has at most one row per month.
type ProgressEntryModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	GoalID            uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_progress_goal_month"`
	UserID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	MonthYear         time.Time       `gorm:"type:date;not null;uniqueIndex:idx_progress_goal_month"`
	PlannedAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	ActualAmount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CumulativePlanned decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CumulativeActual  decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Variance          decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Note              string          `gorm:"type:varchar(255)"`
	CreatedAt         time.Time       `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`
}

// TableName returns the table name for the ProgressEntryModel.
func (ProgressEntryModel) TableName() string {
	return "goal_progress_entries"
}

// ToEntity converts a ProgressEntryModel to a domain GoalProgressEntry entity.
func (m *ProgressEntryModel) ToEntity() entity.GoalProgressEntry {
	return entity.GoalProgressEntry{
		ID:                m.ID,
		GoalID:            m.GoalID,
		UserID:            m.UserID,
		MonthYear:         entity.FirstOfMonth(m.MonthYear),
		PlannedAmount:     m.PlannedAmount,
		ActualAmount:      m.ActualAmount,
		CumulativePlanned: m.CumulativePlanned,
		CumulativeActual:  m.CumulativeActual,
		Variance:          m.Variance,
		Note:              m.Note,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// ProgressEntryFromEntity creates a ProgressEntryModel from a domain GoalProgressEntry entity.
func ProgressEntryFromEntity(entry entity.GoalProgressEntry) *ProgressEntryModel {
	return &ProgressEntryModel{
		ID:                entry.ID,
		GoalID:            entry.GoalID,
		UserID:            entry.UserID,
		MonthYear:         entity.FirstOfMonth(entry.MonthYear),
		PlannedAmount:     entry.PlannedAmount,
		ActualAmount:      entry.ActualAmount,
		CumulativePlanned: entry.CumulativePlanned,
		CumulativeActual:  entry.CumulativeActual,
		Variance:          entry.Variance,
		Note:              entry.Note,
		CreatedAt:         entry.CreatedAt,
		UpdatedAt:         entry.UpdatedAt,
	}
}
