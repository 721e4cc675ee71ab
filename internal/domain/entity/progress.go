package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalProgressEntry records planned and actual contributions of a goal for one calendar month.
type GoalProgressEntry struct {
	ID                uuid.UUID
	GoalID            uuid.UUID
	UserID            uuid.UUID
	MonthYear         time.Time // first day of the month, UTC
	PlannedAmount     decimal.Decimal
	ActualAmount      decimal.Decimal
	CumulativePlanned decimal.Decimal
	CumulativeActual  decimal.Decimal
	Variance          decimal.Decimal
	Note              string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewGoalProgressEntry creates a new progress entry for the month containing monthYear.
func NewGoalProgressEntry(userID, goalID uuid.UUID, monthYear time.Time, planned, actual decimal.Decimal, note string) *GoalProgressEntry {
	now := time.Now().UTC()

	return &GoalProgressEntry{
		ID:            uuid.New(),
		GoalID:        goalID,
		UserID:        userID,
		MonthYear:     FirstOfMonth(monthYear),
		PlannedAmount: planned,
		ActualAmount:  actual,
		Note:          note,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ProgressSnapshot is the current cumulative progress of a goal.
type ProgressSnapshot struct {
	GoalID            uuid.UUID
	MonthYear         *time.Time
	CumulativePlanned decimal.Decimal
	CumulativeActual  decimal.Decimal
	Variance          decimal.Decimal
}

// FirstOfMonth truncates t to the first day of its month in UTC.
func FirstOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
