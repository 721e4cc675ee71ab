// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goal-planner/backend/internal/application/usecase/plan"
	"github.com/goal-planner/backend/internal/domain/entity"
	domainerror "github.com/goal-planner/backend/internal/domain/error"
	"github.com/goal-planner/backend/internal/integration/entrypoint/dto"
)

// PlanController handles allocation plan and budget endpoints.
type PlanController struct {
	getPlanUseCase      *plan.GetPlanUseCase
	updateBudgetUseCase *plan.UpdateBudgetUseCase
}

// NewPlanController creates a new plan controller instance.
func NewPlanController(getPlanUseCase *plan.GetPlanUseCase, updateBudgetUseCase *plan.UpdateBudgetUseCase) *PlanController {
	return &PlanController{
		getPlanUseCase:      getPlanUseCase,
		updateBudgetUseCase: updateBudgetUseCase,
	}
}

// Get handles GET /plan requests. An optional funding_style query parameter
// previews another style without saving it.
func (c *PlanController) Get(ctx *gin.Context) {
	userID, ok := authenticatedUser(ctx)
	if !ok {
		return
	}

	input := plan.GetPlanInput{UserID: userID}
	if style := ctx.Query("funding_style"); style != "" {
		fundingStyle := entity.FundingStyle(style)
		input.FundingStyle = &fundingStyle
	}

	output, err := c.getPlanUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPlanResponse(output.Plan, output.Cached))
}

// UpdateBudget handles PUT /plan/budget requests.
func (c *PlanController) UpdateBudget(ctx *gin.Context) {
	userID, ok := authenticatedUser(ctx)
	if !ok {
		return
	}

	// Parse request body
	var req dto.UpdateBudgetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeMissingPlanFields),
		})
		return
	}

	input := plan.UpdateBudgetInput{
		UserID:          userID,
		MonthlyIncome:   *req.MonthlyIncome,
		MonthlyExpenses: *req.MonthlyExpenses,
	}
	if req.FundingStyle != nil {
		style := entity.FundingStyle(*req.FundingStyle)
		input.FundingStyle = &style
	}

	output, err := c.updateBudgetUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.UpdateBudgetResponse{
		Budget: dto.ToBudgetResponse(output.Budget),
		Plan:   dto.ToPlanResponse(output.Plan, false),
	})
}
