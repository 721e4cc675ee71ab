package progress

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goal-planner/backend/internal/application/adapter/adaptertest"
	"github.com/goal-planner/backend/internal/application/usecase/goal"
	"github.com/goal-planner/backend/internal/application/usecase/plan"
	"github.com/goal-planner/backend/internal/domain/entity"
	domainerror "github.com/goal-planner/backend/internal/domain/error"
	"github.com/goal-planner/backend/internal/integration/cache"
)

var now = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	goals    *adaptertest.GoalRepository
	progress *adaptertest.ProgressRepository
	planner  *plan.Planner
	locks    *GoalLocks
	userID   uuid.UUID
	goalID   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	clock := adaptertest.NewClock(now)
	f := &fixture{
		goals:    adaptertest.NewGoalRepository(),
		progress: adaptertest.NewProgressRepository(),
		locks:    NewGoalLocks(),
		userID:   uuid.New(),
	}
	budgets := adaptertest.NewBudgetRepository(
		entity.NewBudgetProfile(f.userID, decimal.NewFromInt(2500), decimal.NewFromInt(1000), entity.FundingStyleWaterfall),
	)
	f.planner = plan.NewPlanner(f.goals, budgets, cache.NewMemoryCache(clock), clock, plan.Options{})

	out, err := goal.NewCreateGoalUseCase(f.goals, f.planner).Execute(ctx, goal.CreateGoalInput{
		UserID:      f.userID,
		Name:        "Trip",
		Category:    entity.GoalCategoryTravel,
		TargetDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(1200),
		Profile:     entity.RiskProfileBalanced,
		CustomRates: &entity.RateSet{High: decimal.Zero, Mid: decimal.Zero, Low: decimal.Zero},
	})
	require.NoError(t, err)
	f.goalID = out.Goal.ID
	return f
}

func (f *fixture) record(t *testing.T, month time.Time, actual int64, planned *decimal.Decimal) *RecordProgressOutput {
	t.Helper()
	out, err := NewRecordProgressUseCase(f.goals, f.progress, f.planner, f.locks).Execute(context.Background(), RecordProgressInput{
		UserID:        f.userID,
		GoalID:        f.goalID,
		MonthYear:     month,
		ActualAmount:  decimal.NewFromInt(actual),
		PlannedAmount: planned,
	})
	require.NoError(t, err)
	return out
}

func month(year int, m time.Month) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func assertDec(t *testing.T, expected int64, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, actual.Equal(decimal.NewFromInt(expected)), "expected %d, got %s", expected, actual)
}

func TestRecordProgress_DefaultsPlannedToAllocation(t *testing.T) {
	f := newFixture(t)

	out := f.record(t, time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), 80, nil)

	assert.Equal(t, month(2025, time.January), out.Entry.MonthYear)
	assertDec(t, 100, out.Entry.PlannedAmount)
	assertDec(t, -20, out.Snapshot.Variance)
	require.NotNil(t, out.Snapshot.MonthYear)
	assert.Equal(t, month(2025, time.January), *out.Snapshot.MonthYear)

	beyond := f.record(t, month(2027, time.March), 10, nil)
	assertDec(t, 0, beyond.Entry.PlannedAmount)
}

func TestRecordProgress_OutOfOrderMonthsRecomputeLaterEntries(t *testing.T) {
	f := newFixture(t)

	f.record(t, month(2025, time.January), 100, decPtr(100))
	f.record(t, month(2025, time.March), 120, decPtr(100))
	out := f.record(t, month(2025, time.February), 50, decPtr(100))

	require.Len(t, out.History, 3)
	march := out.History[2]
	assert.Equal(t, month(2025, time.March), march.MonthYear)
	assertDec(t, 300, march.CumulativePlanned)
	assertDec(t, 270, march.CumulativeActual)
	assertDec(t, -30, march.Variance)
	assertDec(t, -30, out.Snapshot.Variance)

	stored, err := f.progress.FindByGoalID(context.Background(), f.goalID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assertDec(t, 270, stored[2].CumulativeActual)
}

func TestRecordProgress_SameMonthReplacesEntry(t *testing.T) {
	f := newFixture(t)

	first := f.record(t, month(2025, time.January), 100, decPtr(100))
	second := f.record(t, time.Date(2025, 1, 28, 0, 0, 0, 0, time.UTC), 40, decPtr(100))

	assert.Equal(t, first.Entry.ID, second.Entry.ID)
	require.Len(t, second.History, 1)
	assertDec(t, 40, second.Snapshot.CumulativeActual)
}

func TestRecordProgress_OnlyChangedEntriesAreWritten(t *testing.T) {
	f := newFixture(t)

	f.record(t, month(2025, time.January), 100, decPtr(100))
	f.record(t, month(2025, time.February), 100, decPtr(100))
	before := f.progress.Upserts

	f.record(t, month(2025, time.March), 100, decPtr(100))
	assert.Equal(t, 1, f.progress.Upserts-before)

	before = f.progress.Upserts
	f.record(t, month(2025, time.January), 90, decPtr(100))
	assert.Equal(t, 3, f.progress.Upserts-before)
}

func TestRecordProgress_Validation(t *testing.T) {
	f := newFixture(t)
	uc := NewRecordProgressUseCase(f.goals, f.progress, f.planner, f.locks)
	ctx := context.Background()

	_, err := uc.Execute(ctx, RecordProgressInput{UserID: f.userID, GoalID: f.goalID, ActualAmount: decimal.NewFromInt(1)})
	var progressErr *domainerror.ProgressError
	require.True(t, errors.As(err, &progressErr))
	assert.Equal(t, domainerror.ErrCodeInvalidMonthYear, progressErr.Code)

	_, err = uc.Execute(ctx, RecordProgressInput{UserID: f.userID, GoalID: f.goalID, MonthYear: now, ActualAmount: decimal.NewFromInt(-1)})
	require.True(t, errors.As(err, &progressErr))
	assert.Equal(t, domainerror.ErrCodeInvalidProgressAmount, progressErr.Code)

	_, err = uc.Execute(ctx, RecordProgressInput{UserID: uuid.New(), GoalID: f.goalID, MonthYear: now, ActualAmount: decimal.NewFromInt(1)})
	var goalErr *domainerror.GoalError
	require.True(t, errors.As(err, &goalErr))
	assert.Equal(t, domainerror.ErrCodeUnauthorizedGoalAccess, goalErr.Code)

	stored, err := f.progress.FindByGoalID(ctx, f.goalID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestRecordProgress_ConcurrentWritesKeepCumulativeConsistent(t *testing.T) {
	f := newFixture(t)
	uc := NewRecordProgressUseCase(f.goals, f.progress, f.planner, f.locks)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), RecordProgressInput{
				UserID:        f.userID,
				GoalID:        f.goalID,
				MonthYear:     month(2025, time.January).AddDate(0, i, 0),
				ActualAmount:  decimal.NewFromInt(10),
				PlannedAmount: decPtr(10),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	out, err := NewGetProgressUseCase(f.goals, f.progress).Execute(context.Background(), GetProgressInput{UserID: f.userID, GoalID: f.goalID})
	require.NoError(t, err)
	require.Len(t, out.History, 20)
	assertDec(t, 200, out.Snapshot.CumulativeActual)
	assertDec(t, 200, out.Snapshot.CumulativePlanned)

	stored, err := f.progress.FindByGoalID(context.Background(), f.goalID)
	require.NoError(t, err)
	require.Len(t, stored, 20)
	for i, entry := range stored {
		assertDec(t, int64(10*(i+1)), entry.CumulativeActual)
	}
	assert.Equal(t, 0, f.locks.Len())
}

func TestGetProgress_EmptyHistory(t *testing.T) {
	f := newFixture(t)

	out, err := NewGetProgressUseCase(f.goals, f.progress).Execute(context.Background(), GetProgressInput{UserID: f.userID, GoalID: f.goalID})
	require.NoError(t, err)
	assert.Empty(t, out.History)
	assert.Nil(t, out.Snapshot.MonthYear)
	assertDec(t, 0, out.Snapshot.Variance)
	assert.Equal(t, "Trip", out.Goal.Name)

	_, err = NewGetProgressUseCase(f.goals, f.progress).Execute(context.Background(), GetProgressInput{UserID: f.userID, GoalID: uuid.New()})
	var goalErr *domainerror.GoalError
	require.True(t, errors.As(err, &goalErr))
	assert.Equal(t, domainerror.ErrCodeGoalNotFound, goalErr.Code)
}

func seededEntry(f *fixture, m time.Time, planned, actual, cumulative int64, updatedAt time.Time) entity.GoalProgressEntry {
	return entity.GoalProgressEntry{
		ID:                uuid.New(),
		GoalID:            f.goalID,
		UserID:            f.userID,
		MonthYear:         m,
		PlannedAmount:     decimal.NewFromInt(planned),
		ActualAmount:      decimal.NewFromInt(actual),
		CumulativePlanned: decimal.NewFromInt(cumulative),
		CumulativeActual:  decimal.NewFromInt(cumulative),
		Variance:          decimal.Zero,
		CreatedAt:         updatedAt,
		UpdatedAt:         updatedAt,
	}
}

func TestRebuildProgress_RepairsStaleAndDuplicateEntries(t *testing.T) {
	f := newFixture(t)
	f.progress.Seed(
		seededEntry(f, month(2025, time.January), 100, 100, 999, now),
		seededEntry(f, month(2025, time.February), 100, 50, 999, now),
		seededEntry(f, month(2025, time.February), 100, 150, 999, now.Add(time.Hour)),
	)

	out, err := NewRebuildProgressUseCase(f.progress, f.locks).Execute(context.Background(), RebuildProgressInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Users)
	assert.Equal(t, 1, out.Goals)
	assert.Equal(t, 1, out.Conflicts)
	assert.Equal(t, 2, out.Rewritten)

	stored, err := f.progress.FindByGoalID(context.Background(), f.goalID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assertDec(t, 100, stored[0].CumulativeActual)
	assertDec(t, 150, stored[1].ActualAmount)
	assertDec(t, 250, stored[1].CumulativeActual)
	assertDec(t, 200, stored[1].CumulativePlanned)
	assertDec(t, 50, stored[1].Variance)

	again, err := NewRebuildProgressUseCase(f.progress, f.locks).Execute(context.Background(), RebuildProgressInput{UserID: &f.userID})
	require.NoError(t, err)
	assert.Equal(t, 0, again.Rewritten)
	assert.Equal(t, 0, again.Conflicts)
}

func TestRebuildProgress_CancelledContext(t *testing.T) {
	f := newFixture(t)
	f.progress.Seed(seededEntry(f, month(2025, time.January), 100, 100, 100, now))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRebuildProgressUseCase(f.progress, f.locks).Execute(ctx, RebuildProgressInput{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestListProgress(t *testing.T) {
	f := newFixture(t)
	f.record(t, month(2025, time.January), 70, decPtr(100))
	f.record(t, month(2025, time.February), 70, decPtr(100))

	out, err := NewListProgressUseCase(f.goals, f.progress).Execute(context.Background(), ListProgressInput{UserID: f.userID})
	require.NoError(t, err)
	require.Len(t, out.Goals, 1)
	assert.Equal(t, f.goalID, out.Goals[0].Goal.ID)
	assertDec(t, 140, out.Goals[0].Snapshot.CumulativeActual)
	assertDec(t, -60, out.Goals[0].Snapshot.Variance)
}

func TestGoalLocks_SerializesPerGoal(t *testing.T) {
	locks := NewGoalLocks()
	goalID := uuid.New()

	release := locks.Lock(goalID)
	acquired := make(chan struct{})
	go func() {
		r := locks.Lock(goalID)
		close(acquired)
		r()
	}()

	otherRelease := locks.Lock(uuid.New())
	otherRelease()

	select {
	case <-acquired:
		t.Fatal("lock acquired while held")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock not acquired after release")
	}

	assert.Eventually(t, func() bool { return locks.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestRecordProgress_StoresAmountsToTheCent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 1000 over twelve months plans 83.3333333333 a month
	bike, err := goal.NewCreateGoalUseCase(f.goals, f.planner).Execute(ctx, goal.CreateGoalInput{
		UserID:      f.userID,
		Name:        "Bike",
		Category:    entity.GoalCategoryOther,
		TargetDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(1000),
		Profile:     entity.RiskProfileBalanced,
		CustomRates: &entity.RateSet{High: decimal.Zero, Mid: decimal.Zero, Low: decimal.Zero},
	})
	require.NoError(t, err)
	require.False(t, bike.Goal.RequiredPMT.Equal(bike.Goal.RequiredPMT.Round(2)))

	out, err := NewRecordProgressUseCase(f.goals, f.progress, f.planner, f.locks).Execute(ctx, RecordProgressInput{
		UserID:       f.userID,
		GoalID:       bike.Goal.ID,
		MonthYear:    month(2025, time.January),
		ActualAmount: decimal.RequireFromString("80.456"),
	})
	require.NoError(t, err)

	assert.Equal(t, "83.33", out.Entry.PlannedAmount.String())
	assert.Equal(t, "80.46", out.Entry.ActualAmount.String())
	assert.Equal(t, "83.33", out.Entry.CumulativePlanned.String())
	assert.Equal(t, "-2.87", out.Entry.Variance.String())

	stored, err := f.progress.FindByGoalID(ctx, bike.Goal.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].CumulativeActual.Equal(out.Snapshot.CumulativeActual))
}
