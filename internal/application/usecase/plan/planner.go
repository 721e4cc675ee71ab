// Package plan contains allocation plan use cases and the planner they share with
// the goal and progress use cases.
package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goal-planner/backend/internal/application/adapter"
	"github.com/goal-planner/backend/internal/domain/entity"
	"github.com/goal-planner/backend/internal/domain/planning"
)

// Options configures a Planner.
type Options struct {
	DefaultFundingStyle entity.FundingStyle
	CacheTTL            time.Duration
}

// Planner loads a user's plan state from storage, applies planning actions to it
// and keeps the plan cache in step with every mutation.
type Planner struct {
	goalRepo     adapter.GoalRepository
	budgetRepo   adapter.BudgetRepository
	cache        adapter.Cache
	clock        adapter.Clock
	defaultStyle entity.FundingStyle
	cacheTTL     time.Duration
}

// NewPlanner creates a new Planner instance.
func NewPlanner(
	goalRepo adapter.GoalRepository,
	budgetRepo adapter.BudgetRepository,
	cache adapter.Cache,
	clock adapter.Clock,
	opts Options,
) *Planner {
	style := opts.DefaultFundingStyle
	if !entity.IsValidFundingStyle(style) {
		style = entity.FundingStyleWaterfall
	}
	return &Planner{
		goalRepo:     goalRepo,
		budgetRepo:   budgetRepo,
		cache:        cache,
		clock:        clock,
		defaultStyle: style,
		cacheTTL:     opts.CacheTTL,
	}
}

// Now returns the planner's current time.
func (p *Planner) Now() time.Time {
	return p.clock.Now()
}

// CacheKey is the plan cache key of a user for the month containing asOf.
func CacheKey(userID uuid.UUID, asOf time.Time) string {
	return fmt.Sprintf("plan:%s:%s", userID, entity.FirstOfMonth(asOf).Format("2006-01"))
}

// GenerationKey holds the user's plan generation, replaced on every commit. A cached
// plan is only served while the generation it was derived under is still current.
func GenerationKey(userID uuid.UUID) string {
	return fmt.Sprintf("plan:gen:%s", userID)
}

// Load reads the user's active goals and budget and derives the plan as of now.
func (p *Planner) Load(ctx context.Context, userID uuid.UUID) (planning.PlanState, error) {
	goals, err := p.goalRepo.FindByUserID(ctx, userID)
	if err != nil {
		return planning.PlanState{}, fmt.Errorf("failed to load goals: %w", err)
	}

	budget, err := p.budgetRepo.FindByUserID(ctx, userID)
	if err != nil {
		return planning.PlanState{}, fmt.Errorf("failed to load budget: %w", err)
	}

	state := planning.PlanState{
		Goals:         goals,
		MonthlyBudget: decimal.Zero,
		FundingStyle:  p.defaultStyle,
	}
	if budget != nil {
		state.MonthlyBudget = budget.MonthlyBudget()
		if entity.IsValidFundingStyle(budget.FundingStyle) {
			state.FundingStyle = budget.FundingStyle
		}
	}

	return planning.Reduce(state, planning.Recalculate{AsOf: p.clock.Now()})
}

// Apply loads the user's state and reduces action over it. Nothing is persisted.
func (p *Planner) Apply(ctx context.Context, userID uuid.UUID, action planning.Action) (planning.PlanState, error) {
	state, err := p.Load(ctx, userID)
	if err != nil {
		return planning.PlanState{}, err
	}
	return planning.Reduce(state, action)
}

// Commit persists the re-derived goals of state, except those listed in skip, and
// drops the user's cached plan. The cache is invalidated even when saving fails.
func (p *Planner) Commit(ctx context.Context, userID uuid.UUID, state planning.PlanState, skip ...uuid.UUID) error {
	defer p.Invalidate(ctx, userID)

	excluded := make(map[uuid.UUID]bool, len(skip))
	for _, id := range skip {
		excluded[id] = true
	}

	now := p.clock.Now()
	goals := make([]*entity.Goal, 0, len(state.Goals))
	for _, goal := range state.Goals {
		if !goal.IsActive() || excluded[goal.ID] {
			continue
		}
		goal.UpdatedAt = now
		goals = append(goals, goal)
	}

	if err := p.goalRepo.UpdateMany(ctx, goals); err != nil {
		return fmt.Errorf("failed to save derived goals: %w", err)
	}

	warnIfInsufficient(userID, state.Plan)
	return nil
}

// Invalidate moves the user to a new plan generation and drops the cached plan for
// the current month. Plans derived before the call can no longer be served.
func (p *Planner) Invalidate(ctx context.Context, userID uuid.UUID) {
	genKey := GenerationKey(userID)
	if err := p.cache.Put(ctx, genKey, []byte(uuid.NewString()), 0); err != nil {
		slog.Warn("Failed to bump plan generation", "error", err, "userID", userID, "key", genKey)
	}

	key := CacheKey(userID, p.clock.Now())
	if err := p.cache.Delete(ctx, key); err != nil {
		slog.Warn("Failed to invalidate plan cache", "error", err, "userID", userID, "key", key)
	}
}

// generation returns the user's current plan generation. A user who never committed
// has the empty generation.
func (p *Planner) generation(ctx context.Context, userID uuid.UUID) (string, error) {
	data, _, err := p.cache.Get(ctx, GenerationKey(userID))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// cachedPlan is the cache representation of a plan.
type cachedPlan struct {
	Generation string
	AsOf       time.Time
	Plan       *entity.AllocationPlan
}

// CurrentPlan returns the user's plan for the current month, from cache when possible.
// A plan is cached under the generation read before loading it, so a commit racing
// with the load leaves it unservable.
func (p *Planner) CurrentPlan(ctx context.Context, userID uuid.UUID) (*entity.AllocationPlan, bool, error) {
	key := CacheKey(userID, p.clock.Now())

	gen, genErr := p.generation(ctx, userID)
	if genErr != nil {
		slog.Warn("Failed to read plan generation", "error", genErr, "userID", userID)
	} else if data, ok, err := p.cache.Get(ctx, key); err != nil {
		slog.Warn("Failed to read plan cache", "error", err, "userID", userID, "key", key)
	} else if ok {
		var cached cachedPlan
		switch err := json.Unmarshal(data, &cached); {
		case err != nil || cached.Plan == nil:
			slog.Warn("Discarding unreadable cached plan", "userID", userID, "key", key)
		case cached.Generation == gen:
			return cached.Plan, true, nil
		}
	}

	state, err := p.Load(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if genErr != nil {
		return state.Plan, false, nil
	}

	data, err := json.Marshal(cachedPlan{Generation: gen, AsOf: state.AsOf, Plan: state.Plan})
	if err == nil {
		err = p.cache.Put(ctx, key, data, p.cacheTTL)
	}
	if err != nil {
		slog.Warn("Failed to write plan cache", "error", err, "userID", userID, "key", key)
	}

	return state.Plan, false, nil
}

func warnIfInsufficient(userID uuid.UUID, plan *entity.AllocationPlan) {
	if plan == nil || !plan.InsufficientBudget() {
		return
	}
	slog.Warn("Monthly budget does not cover every required payment",
		"userID", userID,
		"fundingStyle", plan.FundingStyle,
		"totalRequired", plan.TotalRequired.StringFixed(2),
		"monthlyBudget", plan.MonthlyBudget.StringFixed(2),
		"shortfall", plan.Shortfall.StringFixed(2),
	)
}
