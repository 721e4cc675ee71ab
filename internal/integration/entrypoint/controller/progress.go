// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goal-planner/backend/internal/application/usecase/progress"
	domainerror "github.com/goal-planner/backend/internal/domain/error"
	"github.com/goal-planner/backend/internal/integration/entrypoint/dto"
)

// ProgressController handles goal progress endpoints.
type ProgressController struct {
	recordUseCase  *progress.RecordProgressUseCase
	getUseCase     *progress.GetProgressUseCase
	listUseCase    *progress.ListProgressUseCase
	rebuildUseCase *progress.RebuildProgressUseCase
}

// NewProgressController creates a new progress controller instance.
func NewProgressController(
	recordUseCase *progress.RecordProgressUseCase,
	getUseCase *progress.GetProgressUseCase,
	listUseCase *progress.ListProgressUseCase,
	rebuildUseCase *progress.RebuildProgressUseCase,
) *ProgressController {
	return &ProgressController{
		recordUseCase:  recordUseCase,
		getUseCase:     getUseCase,
		listUseCase:    listUseCase,
		rebuildUseCase: rebuildUseCase,
	}
}

// Record handles POST /goals/:id/progress requests.
func (c *ProgressController) Record(ctx *gin.Context) {
	userID, ok := authenticatedUser(ctx)
	if !ok {
		return
	}
	goalID, ok := goalIDParam(ctx)
	if !ok {
		return
	}

	// Parse request body
	var req dto.RecordProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeMissingProgressFields),
		})
		return
	}

	// Parse month
	month, err := dto.ParseMonth(req.Month)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid month format, expected YYYY-MM",
			Code:  string(domainerror.ErrCodeInvalidMonthYear),
		})
		return
	}

	output, err := c.recordUseCase.Execute(ctx.Request.Context(), progress.RecordProgressInput{
		UserID:        userID,
		GoalID:        goalID,
		MonthYear:     month,
		ActualAmount:  *req.ActualAmount,
		PlannedAmount: req.PlannedAmount,
		Note:          req.Note,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	response := dto.ToGoalProgressResponse(output.Snapshot, output.History)
	entry := dto.ToProgressEntryResponse(output.Entry)
	response.Entry = &entry
	ctx.JSON(http.StatusOK, response)
}

// Get handles GET /goals/:id/progress requests.
func (c *ProgressController) Get(ctx *gin.Context) {
	userID, ok := authenticatedUser(ctx)
	if !ok {
		return
	}
	goalID, ok := goalIDParam(ctx)
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), progress.GetProgressInput{
		UserID: userID,
		GoalID: goalID,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	response := dto.ToGoalProgressResponse(output.Snapshot, output.History)
	response.Snapshot.GoalName = output.Goal.Name
	ctx.JSON(http.StatusOK, response)
}

// List handles GET /progress requests.
func (c *ProgressController) List(ctx *gin.Context) {
	userID, ok := authenticatedUser(ctx)
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), progress.ListProgressInput{UserID: userID})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToProgressListResponse(output))
}

// Rebuild handles POST /progress/rebuild requests for the authenticated user.
func (c *ProgressController) Rebuild(ctx *gin.Context) {
	userID, ok := authenticatedUser(ctx)
	if !ok {
		return
	}

	output, err := c.rebuildUseCase.Execute(ctx.Request.Context(), progress.RebuildProgressInput{UserID: &userID})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.RebuildProgressResponse{
		Users:     output.Users,
		Goals:     output.Goals,
		Rewritten: output.Rewritten,
		Conflicts: output.Conflicts,
	})
}
