// Package adaptertest provides in-memory adapter implementations for use case tests.
package adaptertest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goal-planner/backend/internal/application/adapter"
	"github.com/goal-planner/backend/internal/domain/entity"
	domainerror "github.com/goal-planner/backend/internal/domain/error"
)

// GoalRepository is an in-memory adapter.GoalRepository.
type GoalRepository struct {
	mu    sync.Mutex
	goals map[uuid.UUID]*entity.Goal
	Err   error // returned by every call when set
}

var _ adapter.GoalRepository = (*GoalRepository)(nil)

// NewGoalRepository creates a repository holding copies of goals.
func NewGoalRepository(goals ...*entity.Goal) *GoalRepository {
	r := &GoalRepository{goals: make(map[uuid.UUID]*entity.Goal)}
	for _, goal := range goals {
		r.goals[goal.ID] = goal.Clone()
	}
	return r
}

func (r *GoalRepository) Create(ctx context.Context, goal *entity.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.goals[goal.ID] = goal.Clone()
	return nil
}

func (r *GoalRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	goal, ok := r.goals[id]
	if !ok || !goal.IsActive() {
		return nil, domainerror.ErrGoalNotFound
	}
	return goal.Clone(), nil
}

func (r *GoalRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	goals := make([]*entity.Goal, 0)
	for _, goal := range r.goals {
		if goal.UserID == userID && goal.IsActive() {
			goals = append(goals, goal.Clone())
		}
	}
	sort.Slice(goals, func(i, j int) bool {
		if !goals[i].TargetDate.Equal(goals[j].TargetDate) {
			return goals[i].TargetDate.Before(goals[j].TargetDate)
		}
		return goals[i].CreatedAt.Before(goals[j].CreatedAt)
	})
	return goals, nil
}

func (r *GoalRepository) Update(ctx context.Context, goal *entity.Goal) error {
	return r.UpdateMany(ctx, []*entity.Goal{goal})
}

func (r *GoalRepository) UpdateMany(ctx context.Context, goals []*entity.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, goal := range goals {
		r.goals[goal.ID] = goal.Clone()
	}
	return nil
}

func (r *GoalRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	goal, ok := r.goals[id]
	if !ok || !goal.IsActive() {
		return domainerror.ErrGoalNotFound
	}
	now := time.Now().UTC()
	goal.DeletedAt = &now
	return nil
}

// Stored returns the stored goal with the given ID, active or not.
func (r *GoalRepository) Stored(id uuid.UUID) (*entity.Goal, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	goal, ok := r.goals[id]
	if !ok {
		return nil, false
	}
	return goal.Clone(), true
}

// BudgetRepository is an in-memory adapter.BudgetRepository.
type BudgetRepository struct {
	mu      sync.Mutex
	budgets map[uuid.UUID]entity.BudgetProfile
}

var _ adapter.BudgetRepository = (*BudgetRepository)(nil)

// NewBudgetRepository creates a repository holding one budget per user.
func NewBudgetRepository(budgets ...*entity.BudgetProfile) *BudgetRepository {
	r := &BudgetRepository{budgets: make(map[uuid.UUID]entity.BudgetProfile)}
	for _, budget := range budgets {
		r.budgets[budget.UserID] = *budget
	}
	return r
}

func (r *BudgetRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.BudgetProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	budget, ok := r.budgets[userID]
	if !ok {
		return nil, nil
	}
	return &budget, nil
}

func (r *BudgetRepository) Save(ctx context.Context, budget *entity.BudgetProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.budgets[budget.UserID] = *budget
	return nil
}

// ProgressRepository is an in-memory adapter.ProgressRepository. Entries are kept
// as stored, so duplicates seeded through Seed survive until overwritten.
type ProgressRepository struct {
	mu      sync.Mutex
	entries []entity.GoalProgressEntry
	Upserts int
}

var _ adapter.ProgressRepository = (*ProgressRepository)(nil)

// NewProgressRepository creates an empty repository.
func NewProgressRepository() *ProgressRepository {
	return &ProgressRepository{}
}

// Seed stores entries verbatim, bypassing the goal and month uniqueness.
func (r *ProgressRepository) Seed(entries ...entity.GoalProgressEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entries...)
}

func (r *ProgressRepository) FindByGoalID(ctx context.Context, goalID uuid.UUID) ([]entity.GoalProgressEntry, error) {
	return r.filter(func(e entity.GoalProgressEntry) bool { return e.GoalID == goalID }), nil
}

func (r *ProgressRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.GoalProgressEntry, error) {
	return r.filter(func(e entity.GoalProgressEntry) bool { return e.UserID == userID }), nil
}

func (r *ProgressRepository) filter(match func(entity.GoalProgressEntry) bool) []entity.GoalProgressEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.GoalProgressEntry, 0)
	for _, entry := range r.entries {
		if match(entry) {
			out = append(out, entry)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MonthYear.Before(out[j].MonthYear)
	})
	return out
}

func (r *ProgressRepository) Upsert(ctx context.Context, entry entity.GoalProgressEntry) error {
	return r.UpsertMany(ctx, []entity.GoalProgressEntry{entry})
}

func (r *ProgressRepository) UpsertMany(ctx context.Context, entries []entity.GoalProgressEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range entries {
		r.Upserts++
		kept := r.entries[:0]
		for _, existing := range r.entries {
			if existing.GoalID == entry.GoalID && existing.MonthYear.Equal(entry.MonthYear) {
				continue
			}
			kept = append(kept, existing)
		}
		r.entries = append(kept, entry)
	}
	return nil
}

func (r *ProgressRepository) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[uuid.UUID]bool)
	ids := make([]uuid.UUID, 0)
	for _, entry := range r.entries {
		if !seen[entry.UserID] {
			seen[entry.UserID] = true
			ids = append(ids, entry.UserID)
		}
	}
	return ids, nil
}

// Clock is a settable adapter.Clock.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock creates a clock stopped at now.
func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
