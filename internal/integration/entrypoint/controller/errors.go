// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerror "github.com/goal-planner/backend/internal/domain/error"
	"github.com/goal-planner/backend/internal/integration/entrypoint/dto"
	"github.com/goal-planner/backend/internal/integration/entrypoint/middleware"
)

// authenticatedUser returns the user ID set by the auth middleware, answering 401
// when it is missing.
func authenticatedUser(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return uuid.Nil, false
	}
	return userID, true
}

// goalIDParam parses the :id path parameter, answering 400 when it is not a UUID.
func goalIDParam(ctx *gin.Context) (uuid.UUID, bool) {
	goalID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid goal ID format",
			Code:  string(domainerror.ErrCodeMissingGoalFields),
		})
		return uuid.Nil, false
	}
	return goalID, true
}

// handleDomainError maps coded domain errors to HTTP responses.
func handleDomainError(ctx *gin.Context, err error) {
	var goalErr *domainerror.GoalError
	if errors.As(err, &goalErr) {
		ctx.JSON(getStatusCodeForGoalError(goalErr.Code), dto.ErrorResponse{
			Error: goalErr.Message,
			Code:  string(goalErr.Code),
		})
		return
	}

	var planErr *domainerror.PlanError
	if errors.As(err, &planErr) {
		ctx.JSON(getStatusCodeForPlanError(planErr.Code), dto.ErrorResponse{
			Error: planErr.Message,
			Code:  string(planErr.Code),
		})
		return
	}

	var progressErr *domainerror.ProgressError
	if errors.As(err, &progressErr) {
		ctx.JSON(getStatusCodeForProgressError(progressErr.Code), dto.ErrorResponse{
			Error: progressErr.Message,
			Code:  string(progressErr.Code),
		})
		return
	}

	// Generic server error
	slog.Error("Request failed", "error", err, "path", ctx.FullPath())
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForGoalError maps goal error codes to HTTP status codes.
func getStatusCodeForGoalError(code domainerror.GoalErrorCode) int {
	switch code {
	case domainerror.ErrCodeGoalNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeUnauthorizedGoalAccess:
		return http.StatusForbidden
	case domainerror.ErrCodeInvalidGoalAmount,
		domainerror.ErrCodeInvalidGoalCategory,
		domainerror.ErrCodeInvalidRiskProfile,
		domainerror.ErrCodeInvalidPaymentPeriod,
		domainerror.ErrCodeInvalidFrequency,
		domainerror.ErrCodeMissingGoalFields,
		domainerror.ErrCodeInvalidCustomRates,
		domainerror.ErrCodeInvalidTargetDate:
		return http.StatusBadRequest
	case domainerror.ErrCodeInvalidHorizon:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// getStatusCodeForPlanError maps plan error codes to HTTP status codes.
func getStatusCodeForPlanError(code domainerror.PlanErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidFundingStyle,
		domainerror.ErrCodeInvalidBudget,
		domainerror.ErrCodeMissingPlanFields:
		return http.StatusBadRequest
	case domainerror.ErrCodeInsufficientBudget:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// getStatusCodeForProgressError maps progress error codes to HTTP status codes.
func getStatusCodeForProgressError(code domainerror.ProgressErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidProgressAmount,
		domainerror.ErrCodeInvalidMonthYear,
		domainerror.ErrCodeMissingProgressFields:
		return http.StatusBadRequest
	case domainerror.ErrCodeReconciliationConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
