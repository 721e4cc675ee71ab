// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/goal-planner/backend/internal/domain/entity"
)

// UpdateBudgetRequest represents the request body for budget update.
type UpdateBudgetRequest struct {
	MonthlyIncome   *decimal.Decimal `json:"monthly_income" binding:"required"`
	MonthlyExpenses *decimal.Decimal `json:"monthly_expenses" binding:"required"`
	FundingStyle    *string          `json:"funding_style,omitempty" binding:"omitempty,oneof=waterfall parallel hybrid"`
}

// BudgetResponse represents a budget profile in API responses.
type BudgetResponse struct {
	MonthlyIncome   string    `json:"monthly_income"`
	MonthlyExpenses string    `json:"monthly_expenses"`
	MonthlyBudget   string    `json:"monthly_budget"`
	FundingStyle    string    `json:"funding_style"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PlanAllocationResponse represents one goal of an allocation plan.
type PlanAllocationResponse struct {
	GoalID      string `json:"goal_id"`
	GoalName    string `json:"goal_name"`
	TargetDate  string `json:"target_date"`
	RequiredPMT string `json:"required_pmt"`
	AllocationResponse
}

// PlanResponse represents an allocation plan in API responses.
type PlanResponse struct {
	FundingStyle       string                   `json:"funding_style"`
	MonthlyBudget      string                   `json:"monthly_budget"`
	StartMonth         string                   `json:"start_month"`
	Months             int                      `json:"months"`
	TotalRequired      string                   `json:"total_required"`
	Shortfall          string                   `json:"shortfall"`
	InsufficientBudget bool                     `json:"insufficient_budget"`
	Cached             bool                     `json:"cached"`
	Allocations        []PlanAllocationResponse `json:"allocations"`
}

// UpdateBudgetResponse represents the response of a budget update.
type UpdateBudgetResponse struct {
	Budget BudgetResponse `json:"budget"`
	Plan   PlanResponse   `json:"plan"`
}

// ToBudgetResponse converts a budget profile to its DTO.
func ToBudgetResponse(b *entity.BudgetProfile) BudgetResponse {
	return BudgetResponse{
		MonthlyIncome:   money(b.MonthlyIncome),
		MonthlyExpenses: money(b.MonthlyExpenses),
		MonthlyBudget:   money(b.MonthlyBudget()),
		FundingStyle:    string(b.FundingStyle),
		UpdatedAt:       b.UpdatedAt,
	}
}

// ToPlanResponse converts an allocation plan to its DTO.
func ToPlanResponse(p *entity.AllocationPlan, cached bool) PlanResponse {
	response := PlanResponse{
		FundingStyle:       string(p.FundingStyle),
		MonthlyBudget:      money(p.MonthlyBudget),
		StartMonth:         p.StartMonth.Format(monthLayout),
		Months:             p.Months,
		TotalRequired:      money(p.TotalRequired),
		Shortfall:          money(p.Shortfall),
		InsufficientBudget: p.InsufficientBudget(),
		Cached:             cached,
		Allocations:        make([]PlanAllocationResponse, len(p.Allocations)),
	}

	for i := range p.Allocations {
		a := &p.Allocations[i]
		item := PlanAllocationResponse{
			GoalID:             a.GoalID.String(),
			AllocationResponse: *ToAllocationResponse(a),
		}
		if a.Goal != nil {
			item.GoalName = a.Goal.Name
			item.TargetDate = a.Goal.TargetDate.Format(dateLayout)
			item.RequiredPMT = money(a.Goal.RequiredPMT)
		}
		response.Allocations[i] = item
	}

	return response
}
