// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/goal-planner/backend/internal/application/usecase/progress"
	"github.com/goal-planner/backend/internal/domain/entity"
)

// RecordProgressRequest represents the request body for recording monthly progress.
type RecordProgressRequest struct {
	Month         string           `json:"month" binding:"required"`
	ActualAmount  *decimal.Decimal `json:"actual_amount" binding:"required"`
	PlannedAmount *decimal.Decimal `json:"planned_amount,omitempty"`
	Note          string           `json:"note,omitempty" binding:"max=500"`
}

// ProgressEntryResponse represents one month of progress in API responses.
type ProgressEntryResponse struct {
	ID                string    `json:"id"`
	GoalID            string    `json:"goal_id"`
	Month             string    `json:"month"`
	PlannedAmount     string    `json:"planned_amount"`
	ActualAmount      string    `json:"actual_amount"`
	CumulativePlanned string    `json:"cumulative_planned"`
	CumulativeActual  string    `json:"cumulative_actual"`
	Variance          string    `json:"variance"`
	Note              string    `json:"note,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ProgressSnapshotResponse represents the current progress of a goal.
type ProgressSnapshotResponse struct {
	GoalID            string  `json:"goal_id"`
	GoalName          string  `json:"goal_name,omitempty"`
	Month             *string `json:"month"`
	CumulativePlanned string  `json:"cumulative_planned"`
	CumulativeActual  string  `json:"cumulative_actual"`
	Variance          string  `json:"variance"`
}

// GoalProgressResponse represents a goal's progress with its history.
type GoalProgressResponse struct {
	Entry    *ProgressEntryResponse   `json:"entry,omitempty"`
	Snapshot ProgressSnapshotResponse `json:"snapshot"`
	History  []ProgressEntryResponse  `json:"history"`
}

// ProgressListResponse represents the progress of every goal of a user.
type ProgressListResponse struct {
	Goals []ProgressSnapshotResponse `json:"goals"`
}

// RebuildProgressResponse represents the outcome of a rebuild.
type RebuildProgressResponse struct {
	Users     int `json:"users"`
	Goals     int `json:"goals"`
	Rewritten int `json:"rewritten"`
	Conflicts int `json:"conflicts"`
}

// ToProgressEntryResponse converts a progress entry to its DTO.
func ToProgressEntryResponse(e entity.GoalProgressEntry) ProgressEntryResponse {
	return ProgressEntryResponse{
		ID:                e.ID.String(),
		GoalID:            e.GoalID.String(),
		Month:             e.MonthYear.Format(monthLayout),
		PlannedAmount:     money(e.PlannedAmount),
		ActualAmount:      money(e.ActualAmount),
		CumulativePlanned: money(e.CumulativePlanned),
		CumulativeActual:  money(e.CumulativeActual),
		Variance:          money(e.Variance),
		Note:              e.Note,
		UpdatedAt:         e.UpdatedAt,
	}
}

// ToProgressSnapshotResponse converts a progress snapshot to its DTO.
func ToProgressSnapshotResponse(s entity.ProgressSnapshot) ProgressSnapshotResponse {
	response := ProgressSnapshotResponse{
		GoalID:            s.GoalID.String(),
		CumulativePlanned: money(s.CumulativePlanned),
		CumulativeActual:  money(s.CumulativeActual),
		Variance:          money(s.Variance),
	}
	if s.MonthYear != nil {
		month := s.MonthYear.Format(monthLayout)
		response.Month = &month
	}
	return response
}

// ToGoalProgressResponse converts a snapshot and history to GoalProgressResponse.
func ToGoalProgressResponse(snapshot entity.ProgressSnapshot, history []entity.GoalProgressEntry) GoalProgressResponse {
	response := GoalProgressResponse{
		Snapshot: ToProgressSnapshotResponse(snapshot),
		History:  make([]ProgressEntryResponse, len(history)),
	}
	for i, e := range history {
		response.History[i] = ToProgressEntryResponse(e)
	}
	return response
}

// ToProgressListResponse converts listed progress to ProgressListResponse.
func ToProgressListResponse(output *progress.ListProgressOutput) ProgressListResponse {
	response := ProgressListResponse{
		Goals: make([]ProgressSnapshotResponse, len(output.Goals)),
	}
	for i, g := range output.Goals {
		item := ToProgressSnapshotResponse(g.Snapshot)
		item.GoalName = g.Goal.Name
		response.Goals[i] = item
	}
	return response
}
