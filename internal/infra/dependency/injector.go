// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goal-planner/backend/config"
	"github.com/goal-planner/backend/internal/application/adapter"
	"github.com/goal-planner/backend/internal/application/usecase/goal"
	"github.com/goal-planner/backend/internal/application/usecase/plan"
	"github.com/goal-planner/backend/internal/application/usecase/progress"
	"github.com/goal-planner/backend/internal/domain/entity"
	"github.com/goal-planner/backend/internal/infra/db"
	"github.com/goal-planner/backend/internal/infra/scheduler"
	"github.com/goal-planner/backend/internal/infra/server/router"
	"github.com/goal-planner/backend/internal/integration/adapters"
	"github.com/goal-planner/backend/internal/integration/cache"
	"github.com/goal-planner/backend/internal/integration/entrypoint/controller"
	"github.com/goal-planner/backend/internal/integration/entrypoint/middleware"
	"github.com/goal-planner/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config       *config.Config
	Database     *db.Database
	Router       *router.Router
	Scheduler    *scheduler.Scheduler
	TokenService adapter.TokenService
	redisClient  *redis.Client
}

// NewInjector creates a new dependency injector with all dependencies wired.
// The context bounds background jobs started by the scheduler.
func NewInjector(ctx context.Context, cfg *config.Config, database *db.Database) (*Injector, error) {
	gormDB := database.DB()
	clock := adapter.SystemClock{}

	// Create repositories
	goalRepo := persistence.NewGoalRepository(gormDB)
	budgetRepo := persistence.NewBudgetRepository(gormDB)
	progressRepo := persistence.NewProgressRepository(gormDB)

	// Create plan cache
	planCache, redisClient, err := newPlanCache(cfg, clock)
	if err != nil {
		return nil, err
	}

	// Create adapters/services
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, clock)

	// Create planner
	planner := plan.NewPlanner(goalRepo, budgetRepo, planCache, clock, plan.Options{
		DefaultFundingStyle: entity.FundingStyle(cfg.Planner.DefaultFundingStyle),
		CacheTTL:            cfg.Planner.CacheTTL,
	})
	locks := progress.NewGoalLocks()

	// Create goal use cases
	listGoalsUseCase := goal.NewListGoalsUseCase(planner)
	createGoalUseCase := goal.NewCreateGoalUseCase(goalRepo, planner)
	getGoalUseCase := goal.NewGetGoalUseCase(goalRepo, planner)
	updateGoalUseCase := goal.NewUpdateGoalUseCase(goalRepo, planner)
	deleteGoalUseCase := goal.NewDeleteGoalUseCase(goalRepo, planner)

	// Create plan use cases
	getPlanUseCase := plan.NewGetPlanUseCase(planner)
	updateBudgetUseCase := plan.NewUpdateBudgetUseCase(budgetRepo, planner)

	// Create progress use cases
	recordProgressUseCase := progress.NewRecordProgressUseCase(goalRepo, progressRepo, planner, locks)
	getProgressUseCase := progress.NewGetProgressUseCase(goalRepo, progressRepo)
	listProgressUseCase := progress.NewListProgressUseCase(goalRepo, progressRepo)
	rebuildProgressUseCase := progress.NewRebuildProgressUseCase(progressRepo, locks)

	// Create controllers
	healthController := controller.NewHealthController(database.HealthCheck, cacheHealthChecker(redisClient))
	goalController := controller.NewGoalController(
		listGoalsUseCase,
		createGoalUseCase,
		getGoalUseCase,
		updateGoalUseCase,
		deleteGoalUseCase,
	)
	planController := controller.NewPlanController(getPlanUseCase, updateBudgetUseCase)
	progressController := controller.NewProgressController(
		recordProgressUseCase,
		getProgressUseCase,
		listProgressUseCase,
		rebuildProgressUseCase,
	)

	// Create middleware
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	var progressRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		progressRateLimiter = middleware.NewRateLimiterWithConfig(1000, 1*time.Minute)
	} else {
		progressRateLimiter = middleware.NewRateLimiterWithConfig(cfg.RateLimit.ProgressWrites, cfg.RateLimit.Window)
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create scheduler
	sched := scheduler.NewScheduler(ctx, rebuildProgressUseCase)
	if cfg.Scheduler.Enabled {
		if err := sched.RegisterAll(cfg.Scheduler.ProgressRebuildCron); err != nil {
			return nil, err
		}
		if err := sched.RegisterCleanup("rate limiter", scheduler.CleanupCron, progressRateLimiter.Cleanup); err != nil {
			return nil, err
		}
	}

	// Create router
	r := router.NewRouter(
		healthController,
		goalController,
		planController,
		progressController,
		progressRateLimiter,
		authMiddleware,
	)

	return &Injector{
		Config:       cfg,
		Database:     database,
		Router:       r,
		Scheduler:    sched,
		TokenService: tokenService,
		redisClient:  redisClient,
	}, nil
}

// Close releases the connections owned by the injector.
func (i *Injector) Close() {
	if i.redisClient == nil {
		return
	}
	if err := i.redisClient.Close(); err != nil {
		slog.Error("Failed to close redis connection", "error", err)
	}
}

func newPlanCache(cfg *config.Config, clock adapter.Clock) (adapter.Cache, *redis.Client, error) {
	switch cfg.Planner.CacheBackend {
	case "memory":
		slog.Info("Using in-memory plan cache")
		return cache.NewMemoryCache(clock), nil, nil
	case "", "redis":
		client, err := cache.NewRedisClient(cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create redis client: %w", err)
		}
		return cache.NewRedisCache(client), client, nil
	default:
		return nil, nil, fmt.Errorf("unsupported plan cache backend %q", cfg.Planner.CacheBackend)
	}
}

func cacheHealthChecker(client *redis.Client) controller.HealthChecker {
	if client == nil {
		return func() bool { return true }
	}
	return func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return client.Ping(ctx).Err() == nil
	}
}
