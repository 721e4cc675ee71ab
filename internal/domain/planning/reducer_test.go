package planning

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goal-planner/backend/internal/domain/entity"
	domainerror "github.com/goal-planner/backend/internal/domain/error"
)

func newState() PlanState {
	return PlanState{
		AsOf:          asOf,
		MonthlyBudget: dec("1500"),
		FundingStyle:  entity.FundingStyleWaterfall,
	}
}

func addGoal(t *testing.T, state PlanState, name string, category entity.GoalCategory, years int, amount string) (PlanState, uuid.UUID) {
	t.Helper()
	goal := entity.NewGoal(uuid.New(), name, category, asOf.AddDate(years, 0, 0), dec(amount), entity.RiskProfileBalanced)
	next, err := Reduce(state, AddGoal{Goal: goal})
	require.NoError(t, err)
	return next, goal.ID
}

func TestReduce_AddGoal(t *testing.T) {
	state := newState()
	goal := entity.NewGoal(uuid.New(), "Car", entity.GoalCategoryVehicle, asOf.AddDate(3, 0, 0), dec("18000"), entity.RiskProfileBalanced)

	next, err := Reduce(state, AddGoal{Goal: goal})
	require.NoError(t, err)

	assert.Empty(t, state.Goals, "input state is not modified")
	assert.Nil(t, state.Plan)
	assert.True(t, goal.RequiredPMT.IsZero(), "caller's goal is not modified")

	require.Len(t, next.Goals, 1)
	derived := next.Goals[0]
	assert.Equal(t, goal.ID, derived.ID)
	assert.Equal(t, 36, derived.HorizonMonths)
	assert.True(t, derived.RequiredPMT.IsPositive())

	require.NotNil(t, next.Plan)
	assert.Equal(t, 36, next.Plan.Months)
	assert.Equal(t, entity.FirstOfMonth(asOf), next.Plan.StartMonth)
	_, ok := next.Plan.ForGoal(goal.ID)
	assert.True(t, ok)
}

func TestReduce_AddGoalAssignsID(t *testing.T) {
	goal := entity.NewGoal(uuid.New(), "Car", entity.GoalCategoryVehicle, asOf.AddDate(3, 0, 0), dec("18000"), entity.RiskProfileBalanced)
	goal.ID = uuid.Nil

	next, err := Reduce(newState(), AddGoal{Goal: goal})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, next.Goals[0].ID)
}

func TestReduce_AddGoalRejectsPastTarget(t *testing.T) {
	state := newState()
	goal := entity.NewGoal(uuid.New(), "Late", entity.GoalCategoryOther, asOf, dec("100"), entity.RiskProfileBalanced)

	next, err := Reduce(state, AddGoal{Goal: goal})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerror.ErrInvalidGoalDefinition))
	assert.Empty(t, next.Goals)

	_, err = Reduce(state, AddGoal{})
	assert.True(t, errors.Is(err, domainerror.ErrInvalidGoalDefinition))
}

func TestReduce_AddGoalRejectsInvalidDefinition(t *testing.T) {
	goal := entity.NewGoal(uuid.New(), "Boat", "yacht", asOf.AddDate(2, 0, 0), dec("100"), entity.RiskProfileBalanced)

	_, err := Reduce(newState(), AddGoal{Goal: goal})
	var goalErr *domainerror.GoalError
	require.True(t, errors.As(err, &goalErr))
	assert.Equal(t, domainerror.ErrCodeInvalidGoalCategory, goalErr.Code)
}

func TestReduce_UpdateGoal(t *testing.T) {
	state, carID := addGoal(t, newState(), "Car", entity.GoalCategoryVehicle, 3, "18000")
	state, tripID := addGoal(t, state, "Trip", entity.GoalCategoryTravel, 1, "2400")

	car, _ := state.Goal(carID)
	before := car.RequiredPMT

	amount := dec("36000")
	next, err := Reduce(state, UpdateGoal{GoalID: carID, Patch: GoalPatch{Amount: &amount}})
	require.NoError(t, err)

	updated, _ := next.Goal(carID)
	assert.True(t, updated.RequiredPMT.GreaterThan(before))
	assert.True(t, car.RequiredPMT.Equal(before), "previous state keeps its goal")

	_, ok := next.Plan.ForGoal(tripID)
	assert.True(t, ok, "every goal is re-allocated")
}

func TestReduce_UpdateGoalPatchFields(t *testing.T) {
	state, id := addGoal(t, newState(), "Pension", entity.GoalCategoryRetirement, 10, "100000")

	frequency := entity.PaymentFrequencyQuarterly
	period := 5
	flags := []string{entity.GoalFlagFoundational}
	next, err := Reduce(state, UpdateGoal{GoalID: id, Patch: GoalPatch{
		PaymentFrequency: &frequency,
		PaymentPeriod:    &period,
		Flags:            flags,
		SetFlags:         true,
	}})
	require.NoError(t, err)

	goal, _ := next.Goal(id)
	assert.True(t, goal.HasDrawdown())
	assert.True(t, goal.IsFoundational())
	assert.True(t, goal.Disbursement.IsPositive())

	flags[0] = "changed"
	assert.Equal(t, entity.GoalFlagFoundational, goal.Flags[0])

	cleared, err := Reduce(next, UpdateGoal{GoalID: id, Patch: GoalPatch{ClearPaymentPeriod: true}})
	require.NoError(t, err)
	goal, _ = cleared.Goal(id)
	assert.False(t, goal.HasDrawdown())
	assert.True(t, goal.Disbursement.IsZero())
}

func TestReduce_UpdateGoalErrors(t *testing.T) {
	state, id := addGoal(t, newState(), "Car", entity.GoalCategoryVehicle, 3, "18000")

	t.Run("unknown goal", func(t *testing.T) {
		name := "x"
		next, err := Reduce(state, UpdateGoal{GoalID: uuid.New(), Patch: GoalPatch{Name: &name}})
		assert.True(t, errors.Is(err, domainerror.ErrGoalNotFound))
		assert.Equal(t, state.Goals, next.Goals)
	})

	t.Run("target in the past", func(t *testing.T) {
		past := asOf.AddDate(0, -2, 0)
		_, err := Reduce(state, UpdateGoal{GoalID: id, Patch: GoalPatch{TargetDate: &past}})
		assert.True(t, errors.Is(err, domainerror.ErrInvalidGoalDefinition))
	})

	t.Run("negative amount keeps prior state", func(t *testing.T) {
		amount := dec("-1")
		next, err := Reduce(state, UpdateGoal{GoalID: id, Patch: GoalPatch{Amount: &amount}})
		assert.True(t, errors.Is(err, domainerror.ErrInvalidGoalDefinition))
		goal, _ := next.Goal(id)
		assert.True(t, dec("18000").Equal(goal.Amount))
	})
}

func TestReduce_DeactivateGoal(t *testing.T) {
	state, carID := addGoal(t, newState(), "Car", entity.GoalCategoryVehicle, 3, "18000")
	state, tripID := addGoal(t, state, "Trip", entity.GoalCategoryTravel, 1, "2400")

	next, err := Reduce(state, DeactivateGoal{GoalID: tripID})
	require.NoError(t, err)

	trip, ok := next.Goal(tripID)
	require.True(t, ok)
	require.NotNil(t, trip.DeletedAt)
	assert.Equal(t, asOf, *trip.DeletedAt)

	_, ok = next.Plan.ForGoal(tripID)
	assert.False(t, ok)
	_, ok = next.Plan.ForGoal(carID)
	assert.True(t, ok)

	_, err = Reduce(next, DeactivateGoal{GoalID: tripID})
	assert.True(t, errors.Is(err, domainerror.ErrGoalNotFound))
}

func TestReduce_SetBudget(t *testing.T) {
	state, _ := addGoal(t, newState(), "Car", entity.GoalCategoryVehicle, 3, "18000")

	next, err := Reduce(state, SetBudget{MonthlyBudget: dec("-200")})
	require.NoError(t, err)
	assert.True(t, next.MonthlyBudget.IsZero())
	assert.True(t, next.Plan.Allocations[0].MonthlyAllocations[0].IsZero())
	assert.True(t, next.Plan.InsufficientBudget())

	next, err = Reduce(state, SetBudget{MonthlyBudget: dec("200")})
	require.NoError(t, err)
	assert.True(t, dec("200").Equal(next.Plan.MonthlyBudget))
}

func TestReduce_SetFundingStyle(t *testing.T) {
	state, _ := addGoal(t, newState(), "Car", entity.GoalCategoryVehicle, 3, "18000")

	next, err := Reduce(state, SetFundingStyle{Style: entity.FundingStyleParallel})
	require.NoError(t, err)
	assert.Equal(t, entity.FundingStyleParallel, next.Plan.FundingStyle)

	_, err = Reduce(state, SetFundingStyle{Style: "lottery"})
	assert.True(t, errors.Is(err, domainerror.ErrInvalidFundingStyle))
}

func TestReduce_RecalculateExcludesMaturedGoals(t *testing.T) {
	state, tripID := addGoal(t, newState(), "Trip", entity.GoalCategoryTravel, 1, "2400")
	state, carID := addGoal(t, state, "Car", entity.GoalCategoryVehicle, 3, "18000")

	next, err := Reduce(state, Recalculate{AsOf: asOf.AddDate(1, 1, 0)})
	require.NoError(t, err)

	trip, _ := next.Goal(tripID)
	assert.True(t, next.Matured(trip))
	assert.Equal(t, 0, trip.HorizonMonths)
	assert.True(t, trip.RequiredPMT.IsZero())
	_, ok := next.Plan.ForGoal(tripID)
	assert.False(t, ok)

	car, _ := next.Goal(carID)
	assert.Equal(t, 23, car.HorizonMonths)
	assert.Equal(t, 23, next.Plan.Months)
}

func TestReduce_Deterministic(t *testing.T) {
	state, _ := addGoal(t, newState(), "Car", entity.GoalCategoryVehicle, 3, "18000")
	state, _ = addGoal(t, state, "Fund", entity.GoalCategoryEmergency, 1, "6000")

	a, err := Reduce(state, SetFundingStyle{Style: entity.FundingStyleHybrid})
	require.NoError(t, err)
	b, err := Reduce(state, SetFundingStyle{Style: entity.FundingStyleHybrid})
	require.NoError(t, err)

	assert.Equal(t, renderPlan(a.Plan), renderPlan(b.Plan))
}
