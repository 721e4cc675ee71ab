package plan

import (
	"context"

	"github.com/google/uuid"

	"github.com/goal-planner/backend/internal/domain/entity"
	domainerror "github.com/goal-planner/backend/internal/domain/error"
	"github.com/goal-planner/backend/internal/domain/planning"
)

// GetPlanInput represents the input for fetching an allocation plan.
type GetPlanInput struct {
	UserID       uuid.UUID
	FundingStyle *entity.FundingStyle // Optional what-if override, never persisted
}

// GetPlanOutput represents the output of fetching an allocation plan.
type GetPlanOutput struct {
	Plan   *entity.AllocationPlan
	Cached bool
}

// GetPlanUseCase handles fetching a user's allocation plan.
type GetPlanUseCase struct {
	planner *Planner
}

// NewGetPlanUseCase creates a new GetPlanUseCase instance.
func NewGetPlanUseCase(planner *Planner) *GetPlanUseCase {
	return &GetPlanUseCase{
		planner: planner,
	}
}

// Execute returns the plan of the current month. An override style recomputes the
// plan without touching the cache.
func (uc *GetPlanUseCase) Execute(ctx context.Context, input GetPlanInput) (*GetPlanOutput, error) {
	if input.FundingStyle != nil {
		if !entity.IsValidFundingStyle(*input.FundingStyle) {
			return nil, domainerror.NewPlanError(
				domainerror.ErrCodeInvalidFundingStyle,
				"funding style must be 'waterfall', 'parallel', or 'hybrid'",
				domainerror.ErrInvalidFundingStyle,
			)
		}

		state, err := uc.planner.Apply(ctx, input.UserID, planning.SetFundingStyle{Style: *input.FundingStyle})
		if err != nil {
			return nil, err
		}
		warnIfInsufficient(input.UserID, state.Plan)
		return &GetPlanOutput{Plan: state.Plan}, nil
	}

	plan, cached, err := uc.planner.CurrentPlan(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if !cached {
		warnIfInsufficient(input.UserID, plan)
	}

	return &GetPlanOutput{
		Plan:   plan,
		Cached: cached,
	}, nil
}
