//go:build integration

// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/goal-planner/backend/internal/application/usecase/goal"
	"github.com/goal-planner/backend/internal/application/usecase/plan"
	"github.com/goal-planner/backend/internal/application/usecase/progress"
	"github.com/goal-planner/backend/internal/domain/entity"
	"github.com/goal-planner/backend/internal/infra/server/router"
	"github.com/goal-planner/backend/internal/integration/adapters"
	"github.com/goal-planner/backend/internal/integration/cache"
	"github.com/goal-planner/backend/internal/integration/entrypoint/controller"
	"github.com/goal-planner/backend/internal/integration/entrypoint/middleware"
	"github.com/goal-planner/backend/internal/integration/persistence"
	"github.com/goal-planner/backend/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

// defaultNow is the clock of every scenario unless a step moves it.
var defaultNow = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

type testContext struct {
	uri           string
	headers       map[string]string
	client        *http.Client
	response      *response
	db            *mock.Db
	redis         *mock.Redis
	setupErr      error
	accessToken   string
	currentUserID uuid.UUID
	currentGoalID uuid.UUID
	goalIDs       map[string]uuid.UUID
}

type response struct {
	status int
	body   any
}

var (
	serverInit     sync.Once
	portInit       sync.Once
	testServerPort int
	testDB         *mock.Db
	testRedis      *mock.Redis
	testClock      = mock.NewTime()
)

func initializePort() {
	portInit.Do(func() {
		testServerPort = findAvailablePort()
		_ = os.Setenv("SERVER_PORT", strconv.Itoa(testServerPort))
		_ = os.Setenv("ENV", "test")
	})
}

func findAvailablePort() int {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		panic(err)
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
		initializePort()
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	initializePort()

	test := &testContext{
		uri:    fmt.Sprintf("http://localhost:%d", testServerPort),
		client: &http.Client{Timeout: 10 * time.Second},
	}
	test.db, test.setupErr = mock.NewDb()
	if test.setupErr == nil {
		test.redis, test.setupErr = mock.NewRedis()
	}

	testDB = test.db
	testRedis = test.redis

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, test.before()
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)
	ctx.Given(`^the current time is "([^"]*)"$`, test.theCurrentTimeIs)

	// Auth steps
	ctx.Given(`^I am logged in as "([^"]*)"$`, test.iAmLoggedInAs)
	ctx.Given(`^my access token has expired$`, test.myAccessTokenHasExpired)

	// Data setup steps
	ctx.Given(`^my monthly income is "([^"]*)" and my expenses are "([^"]*)"$`, test.myMonthlyIncomeIsAndMyExpensesAre)
	ctx.Given(`^a goal "([^"]*)" exists with amount "([^"]*)" due "([^"]*)"$`, test.aGoalExistsWithAmountDue)
	ctx.Given(`^goal "([^"]*)" has a stored progress entry for "([^"]*)" with actual "([^"]*)" and cumulative actual "([^"]*)"$`, test.goalHasAStoredProgressEntry)

	// Header steps
	ctx.Given(`^the header is empty$`, test.theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)
	ctx.Then(`^the response field "([^"]*)" should have (\d+) items$`, test.theResponseFieldShouldHaveItems)

	// Database and cache assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, test.theDbShouldContainObjectsInWithTheValues)
	ctx.Then(`^the plan cache should contain my current plan$`, test.thePlanCacheShouldContainMyCurrentPlan)
	ctx.Then(`^the plan cache should not contain my current plan$`, test.thePlanCacheShouldNotContainMyCurrentPlan)
}

func (t *testContext) before() error {
	if t.setupErr != nil {
		return t.setupErr
	}

	t.headers = make(map[string]string)
	t.response = nil
	t.accessToken = ""
	t.currentUserID = uuid.Nil
	t.currentGoalID = uuid.Nil
	t.goalIDs = make(map[string]uuid.UUID)
	testClock.SetCurrentTime(defaultNow)

	t.redis.Clear()
	return t.db.ClearDB()
}

func (t *testContext) startServer() {
	serverInit.Do(func() {
		gin.SetMode(gin.TestMode)

		// Create repositories
		goalRepo := persistence.NewGoalRepository(testDB.DbConn)
		budgetRepo := persistence.NewBudgetRepository(testDB.DbConn)
		progressRepo := persistence.NewProgressRepository(testDB.DbConn)

		// Create adapters/services
		tokenService := adapters.NewTokenService(testJWTSecret, testClock)
		planCache := cache.NewRedisCache(testRedis.Client)

		planner := plan.NewPlanner(goalRepo, budgetRepo, planCache, testClock, plan.Options{
			DefaultFundingStyle: entity.FundingStyleWaterfall,
			CacheTTL:            time.Hour,
		})
		locks := progress.NewGoalLocks()

		// Create controllers
		healthController := controller.NewHealthController(
			func() bool { return testDB.DbConn.Exec("SELECT 1").Error == nil },
			func() bool { return testRedis.Client.Ping(context.Background()).Err() == nil },
		)
		goalController := controller.NewGoalController(
			goal.NewListGoalsUseCase(planner),
			goal.NewCreateGoalUseCase(goalRepo, planner),
			goal.NewGetGoalUseCase(goalRepo, planner),
			goal.NewUpdateGoalUseCase(goalRepo, planner),
			goal.NewDeleteGoalUseCase(goalRepo, planner),
		)
		planController := controller.NewPlanController(
			plan.NewGetPlanUseCase(planner),
			plan.NewUpdateBudgetUseCase(budgetRepo, planner),
		)
		progressController := controller.NewProgressController(
			progress.NewRecordProgressUseCase(goalRepo, progressRepo, planner, locks),
			progress.NewGetProgressUseCase(goalRepo, progressRepo),
			progress.NewListProgressUseCase(goalRepo, progressRepo),
			progress.NewRebuildProgressUseCase(progressRepo, locks),
		)

		// Create middleware
		progressRateLimiter := middleware.NewRateLimiterWithConfig(1000, time.Minute)
		authMiddleware := middleware.NewAuthMiddleware(tokenService)

		r := router.NewRouter(healthController, goalController, planController, progressController, progressRateLimiter, authMiddleware)
		engine := r.Setup("test")

		server := &http.Server{
			Addr:    fmt.Sprintf(":%d", testServerPort),
			Handler: engine,
		}
		go func() {
			_ = server.ListenAndServe()
		}()
	})

	// Wait for server to be ready
	for i := 0; i < 50; i++ {
		resp, err := http.Get(t.uri + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
}
