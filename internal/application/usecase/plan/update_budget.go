package plan

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goal-planner/backend/internal/application/adapter"
	"github.com/goal-planner/backend/internal/domain/entity"
	domainerror "github.com/goal-planner/backend/internal/domain/error"
	"github.com/goal-planner/backend/internal/domain/planning"
)

// UpdateBudgetInput represents the input for updating a user's budget.
type UpdateBudgetInput struct {
	UserID          uuid.UUID
	MonthlyIncome   decimal.Decimal
	MonthlyExpenses decimal.Decimal
	FundingStyle    *entity.FundingStyle // Optional, keeps the current style
}

// UpdateBudgetOutput represents the output of updating a user's budget.
type UpdateBudgetOutput struct {
	Budget *entity.BudgetProfile
	Plan   *entity.AllocationPlan
}

// UpdateBudgetUseCase handles budget updates and the re-allocation they trigger.
type UpdateBudgetUseCase struct {
	budgetRepo adapter.BudgetRepository
	planner    *Planner
}

// NewUpdateBudgetUseCase creates a new UpdateBudgetUseCase instance.
func NewUpdateBudgetUseCase(budgetRepo adapter.BudgetRepository, planner *Planner) *UpdateBudgetUseCase {
	return &UpdateBudgetUseCase{
		budgetRepo: budgetRepo,
		planner:    planner,
	}
}

// Execute performs the budget update.
func (uc *UpdateBudgetUseCase) Execute(ctx context.Context, input UpdateBudgetInput) (*UpdateBudgetOutput, error) {
	// Validate amounts
	if input.MonthlyIncome.IsNegative() || input.MonthlyExpenses.IsNegative() {
		return nil, domainerror.NewPlanError(
			domainerror.ErrCodeInvalidBudget,
			"income and expenses must not be negative",
			domainerror.ErrInvalidBudget,
		)
	}

	// Validate funding style
	if input.FundingStyle != nil && !entity.IsValidFundingStyle(*input.FundingStyle) {
		return nil, domainerror.NewPlanError(
			domainerror.ErrCodeInvalidFundingStyle,
			"funding style must be 'waterfall', 'parallel', or 'hybrid'",
			domainerror.ErrInvalidFundingStyle,
		)
	}

	existing, err := uc.budgetRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load budget: %w", err)
	}

	now := uc.planner.Now()
	budget := existing
	if budget == nil {
		budget = entity.NewBudgetProfile(input.UserID, input.MonthlyIncome, input.MonthlyExpenses, uc.planner.defaultStyle)
		budget.CreatedAt = now
	}
	budget.MonthlyIncome = input.MonthlyIncome
	budget.MonthlyExpenses = input.MonthlyExpenses
	if input.FundingStyle != nil {
		budget.FundingStyle = *input.FundingStyle
	}
	budget.UpdatedAt = now

	if err := uc.budgetRepo.Save(ctx, budget); err != nil {
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}

	// Re-allocate against the stored budget
	state, err := uc.planner.Apply(ctx, input.UserID, planning.SetBudget{MonthlyBudget: budget.MonthlyBudget()})
	if err != nil {
		return nil, err
	}
	if err := uc.planner.Commit(ctx, input.UserID, state); err != nil {
		return nil, err
	}

	return &UpdateBudgetOutput{
		Budget: budget,
		Plan:   state.Plan,
	}, nil
}
