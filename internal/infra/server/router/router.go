// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/goal-planner/backend/internal/integration/entrypoint/controller"
	"github.com/goal-planner/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine              *gin.Engine
	healthController    *controller.HealthController
	goalController      *controller.GoalController
	planController      *controller.PlanController
	progressController  *controller.ProgressController
	progressRateLimiter *middleware.RateLimiter
	authMiddleware      *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	goalController *controller.GoalController,
	planController *controller.PlanController,
	progressController *controller.ProgressController,
	progressRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:    healthController,
		goalController:      goalController,
		planController:      planController,
		progressController:  progressController,
		progressRateLimiter: progressRateLimiter,
		authMiddleware:      authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	// Setup routes
	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes. Every API route requires authentication.
func (r *Router) setupAPIRoutes() {
	if r.authMiddleware == nil {
		return
	}

	v1 := r.engine.Group("/api/v1")
	v1.Use(r.authMiddleware.Authenticate())

	// Goal routes
	if r.goalController != nil {
		goals := v1.Group("/goals")
		{
			goals.GET("", r.goalController.List)
			goals.POST("", r.goalController.Create)
			goals.GET("/:id", r.goalController.Get)
			goals.PATCH("/:id", r.goalController.Update)
			goals.DELETE("/:id", r.goalController.Delete)

			// Progress routes (nested under goals)
			if r.progressController != nil {
				goals.GET("/:id/progress", r.progressController.Get)
				goals.POST("/:id/progress", r.progressWriteLimit(), r.progressController.Record)
			}
		}
	}

	// Plan routes
	if r.planController != nil {
		planRoutes := v1.Group("/plan")
		{
			planRoutes.GET("", r.planController.Get)
			planRoutes.PUT("/budget", r.planController.UpdateBudget)
		}
	}

	// Progress overview routes
	if r.progressController != nil {
		progressRoutes := v1.Group("/progress")
		{
			progressRoutes.GET("", r.progressController.List)
			progressRoutes.POST("/rebuild", r.progressWriteLimit(), r.progressController.Rebuild)
		}
	}
}

func (r *Router) progressWriteLimit() gin.HandlerFunc {
	if r.progressRateLimiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return r.progressRateLimiter.Middleware()
}
