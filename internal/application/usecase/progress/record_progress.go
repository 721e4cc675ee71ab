// Package progress contains goal progress use cases.
package progress

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goal-planner/backend/internal/application/adapter"
	"github.com/goal-planner/backend/internal/application/usecase/goal"
	"github.com/goal-planner/backend/internal/application/usecase/plan"
	"github.com/goal-planner/backend/internal/domain/entity"
	domainerror "github.com/goal-planner/backend/internal/domain/error"
	"github.com/goal-planner/backend/internal/domain/planning"
)

// RecordProgressInput represents the input for recording a month of progress.
type RecordProgressInput struct {
	UserID        uuid.UUID
	GoalID        uuid.UUID
	MonthYear     time.Time
	ActualAmount  decimal.Decimal
	PlannedAmount *decimal.Decimal // Optional, defaults to the plan's allocation for the month
	Note          string
}

// RecordProgressOutput represents the output of recording progress.
type RecordProgressOutput struct {
	Entry    entity.GoalProgressEntry
	History  []entity.GoalProgressEntry
	Snapshot entity.ProgressSnapshot
}

// RecordProgressUseCase upserts the entry of a goal for one month and recomputes
// the cumulative values of the goal's whole history.
type RecordProgressUseCase struct {
	goalRepo     adapter.GoalRepository
	progressRepo adapter.ProgressRepository
	planner      *plan.Planner
	locks        *GoalLocks
}

// NewRecordProgressUseCase creates a new RecordProgressUseCase instance.
func NewRecordProgressUseCase(
	goalRepo adapter.GoalRepository,
	progressRepo adapter.ProgressRepository,
	planner *plan.Planner,
	locks *GoalLocks,
) *RecordProgressUseCase {
	return &RecordProgressUseCase{
		goalRepo:     goalRepo,
		progressRepo: progressRepo,
		planner:      planner,
		locks:        locks,
	}
}

// Execute performs the progress recording.
func (uc *RecordProgressUseCase) Execute(ctx context.Context, input RecordProgressInput) (*RecordProgressOutput, error) {
	// Validate month
	if input.MonthYear.IsZero() {
		return nil, domainerror.NewProgressError(
			domainerror.ErrCodeInvalidMonthYear,
			"month is required",
			domainerror.ErrInvalidMonthYear,
		)
	}

	// Validate amounts
	if input.ActualAmount.IsNegative() || (input.PlannedAmount != nil && input.PlannedAmount.IsNegative()) {
		return nil, domainerror.NewProgressError(
			domainerror.ErrCodeInvalidProgressAmount,
			"amounts must not be negative",
			domainerror.ErrInvalidProgressAmount,
		)
	}

	// Check the goal exists and belongs to the user
	if _, err := goal.FindOwnedGoal(ctx, uc.goalRepo, input.GoalID, input.UserID); err != nil {
		return nil, err
	}

	month := entity.FirstOfMonth(input.MonthYear)
	planned, err := uc.plannedAmount(ctx, input, month)
	if err != nil {
		return nil, err
	}
	// progress is stored to the cent
	planned = planned.Round(2)
	actual := input.ActualAmount.Round(2)

	release := uc.locks.Lock(input.GoalID)
	defer release()

	history, err := uc.progressRepo.FindByGoalID(ctx, input.GoalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress history: %w", err)
	}

	now := uc.planner.Now()
	entry := entity.NewGoalProgressEntry(input.UserID, input.GoalID, month, planned, actual, strings.TrimSpace(input.Note))
	entry.CreatedAt = now
	entry.UpdatedAt = now

	merged, conflicts := planning.MergeEntry(history, *entry)
	logConflicts(conflicts)

	if err := uc.progressRepo.UpsertMany(ctx, entriesToWrite(history, merged, conflicts)); err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}

	output := &RecordProgressOutput{
		History:  merged,
		Snapshot: planning.CurrentProgress(input.GoalID, merged),
	}
	for _, e := range merged {
		if e.MonthYear.Equal(month) {
			output.Entry = e
			break
		}
	}
	return output, nil
}

// plannedAmount is the explicit planned amount, or the plan's allocation to the goal
// for the month. Months outside the plan are planned at zero.
func (uc *RecordProgressUseCase) plannedAmount(ctx context.Context, input RecordProgressInput, month time.Time) (decimal.Decimal, error) {
	if input.PlannedAmount != nil {
		return *input.PlannedAmount, nil
	}

	current, _, err := uc.planner.CurrentPlan(ctx, input.UserID)
	if err != nil {
		return decimal.Zero, err
	}
	allocation, ok := current.ForGoal(input.GoalID)
	if !ok {
		return decimal.Zero, nil
	}
	amount, _ := allocation.AllocationAt(planning.MonthsBetween(current.StartMonth, month))
	return amount, nil
}
