package planning

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goal-planner/backend/internal/domain/entity"
	domainerror "github.com/goal-planner/backend/internal/domain/error"
)

func assertMonths(t *testing.T, alloc *entity.GoalAllocation, from, to int, want string) {
	t.Helper()
	for m := from; m < to; m++ {
		got := alloc.MonthlyAllocations[m]
		assert.True(t, dec(want).Equal(got), "%s month %d: want %s, got %s", alloc.Goal.Name, m, want, got)
	}
}

func TestAllocate_Waterfall(t *testing.T) {
	a := flatGoal("A", entity.GoalCategoryHome, 12, "12000", "1000")
	b := flatGoal("B", entity.GoalCategoryTravel, 24, "6000", "500")

	plan, err := Allocate([]*entity.Goal{b, a}, dec("1000"), entity.FundingStyleWaterfall)
	require.NoError(t, err)

	assert.Equal(t, 24, plan.Months)
	require.Len(t, plan.Allocations, 2)
	assert.Equal(t, a.ID, plan.Allocations[0].GoalID, "earlier target date goes first")

	allocA, ok := plan.ForGoal(a.ID)
	require.True(t, ok)
	allocB, ok := plan.ForGoal(b.ID)
	require.True(t, ok)

	assertMonths(t, allocA, 0, 12, "1000")
	assertMonths(t, allocA, 12, 24, "0")
	assertMonths(t, allocB, 0, 12, "0")
	assertMonths(t, allocB, 12, 24, "500")

	assert.True(t, dec("12000").Equal(allocA.FinalBalance))
	assert.True(t, dec("6000").Equal(allocB.FinalBalance))
	assert.True(t, allocA.OnTrack())
	assert.True(t, allocB.OnTrack())

	assert.True(t, dec("1500").Equal(plan.TotalRequired))
	assert.True(t, dec("500").Equal(plan.Shortfall))
	assert.True(t, plan.InsufficientBudget())
}

func TestAllocate_WaterfallBestEffort(t *testing.T) {
	a := flatGoal("A", entity.GoalCategoryHome, 12, "12000", "1000")

	plan, err := Allocate([]*entity.Goal{a}, dec("800"), entity.FundingStyleWaterfall)
	require.NoError(t, err)

	alloc := &plan.Allocations[0]
	assertMonths(t, alloc, 0, 12, "800")
	assert.True(t, dec("9600").Equal(alloc.FinalBalance))
	assert.True(t, dec("2400").Equal(alloc.Gap))
	assert.False(t, alloc.OnTrack())
}

func TestAllocate_ParallelScalesProportionally(t *testing.T) {
	a := flatGoal("A", entity.GoalCategoryHome, 12, "12000", "1000")
	b := flatGoal("B", entity.GoalCategoryTravel, 12, "6000", "500")

	plan, err := Allocate([]*entity.Goal{a, b}, dec("900"), entity.FundingStyleParallel)
	require.NoError(t, err)

	allocA, _ := plan.ForGoal(a.ID)
	allocB, _ := plan.ForGoal(b.ID)
	assertMonths(t, allocA, 0, 12, "600")
	assertMonths(t, allocB, 0, 12, "300")

	assert.True(t, dec("4800").Equal(allocA.Gap))
	assert.True(t, dec("2400").Equal(allocB.Gap))
	assert.True(t, dec("600").Equal(plan.Shortfall))
}

func TestAllocate_ParallelWithEnoughBudget(t *testing.T) {
	a := flatGoal("A", entity.GoalCategoryHome, 12, "12000", "1000")
	b := flatGoal("B", entity.GoalCategoryTravel, 24, "6000", "250")

	plan, err := Allocate([]*entity.Goal{a, b}, dec("5000"), entity.FundingStyleParallel)
	require.NoError(t, err)

	allocA, _ := plan.ForGoal(a.ID)
	allocB, _ := plan.ForGoal(b.ID)
	assertMonths(t, allocA, 0, 12, "1000")
	assertMonths(t, allocB, 0, 24, "250")
	assert.True(t, plan.Shortfall.IsZero())
	assert.False(t, plan.InsufficientBudget())
}

func TestAllocate_Hybrid(t *testing.T) {
	emergency := flatGoal("Emergency", entity.GoalCategoryEmergency, 6, "3000", "500")
	home := flatGoal("Home", entity.GoalCategoryHome, 12, "6000", "500")
	travel := flatGoal("Travel", entity.GoalCategoryTravel, 12, "3000", "250")

	plan, err := Allocate([]*entity.Goal{home, travel, emergency}, dec("600"), entity.FundingStyleHybrid)
	require.NoError(t, err)

	allocE, _ := plan.ForGoal(emergency.ID)
	allocH, _ := plan.ForGoal(home.ID)
	allocT, _ := plan.ForGoal(travel.ID)

	// foundational goal first, remainder cascades by priority
	assertMonths(t, allocE, 0, 6, "500")
	assertMonths(t, allocH, 0, 6, "100")
	assertMonths(t, allocT, 0, 6, "0")

	// then parallel across the rest
	assertMonths(t, allocE, 6, 12, "0")
	assertMonths(t, allocH, 6, 12, "400")
	assertMonths(t, allocT, 6, 12, "200")

	assert.True(t, dec("3000").Equal(allocE.FinalBalance))
	assert.True(t, dec("3000").Equal(allocH.FinalBalance))
	assert.True(t, dec("1200").Equal(allocT.FinalBalance))
}

func TestAllocate_HybridFlaggedGoal(t *testing.T) {
	home := flatGoal("Home", entity.GoalCategoryHome, 6, "3000", "500")
	gift := flatGoal("Gift", entity.GoalCategoryGift, 12, "1200", "100")
	gift.Flags = []string{entity.GoalFlagFoundational}

	plan, err := Allocate([]*entity.Goal{home, gift}, dec("500"), entity.FundingStyleHybrid)
	require.NoError(t, err)

	allocG, _ := plan.ForGoal(gift.ID)
	allocH, _ := plan.ForGoal(home.ID)
	assertMonths(t, allocG, 0, 6, "100")
	assertMonths(t, allocH, 0, 6, "400")
}

func TestAllocate_WithoutFoundationalHybridIsParallel(t *testing.T) {
	a := flatGoal("A", entity.GoalCategoryHome, 12, "12000", "1000")
	b := flatGoal("B", entity.GoalCategoryTravel, 12, "6000", "500")

	hybrid, err := Allocate([]*entity.Goal{a, b}, dec("900"), entity.FundingStyleHybrid)
	require.NoError(t, err)
	parallel, err := Allocate([]*entity.Goal{a, b}, dec("900"), entity.FundingStyleParallel)
	require.NoError(t, err)

	assert.Equal(t, renderPlan(parallel)[1:], renderPlan(hybrid)[1:])
}

func TestAllocate_NeverExceedsBudget(t *testing.T) {
	goals := []*entity.Goal{
		derivedGoal("Emergency", entity.GoalCategoryEmergency, 12, "10000", entity.RiskProfileConservative),
		derivedGoal("Car", entity.GoalCategoryVehicle, 30, "25000", entity.RiskProfileBalanced),
		derivedGoal("School", entity.GoalCategoryEducation, 96, "80000", entity.RiskProfileGrowth),
	}
	budget := dec("1234.56")

	for _, style := range []entity.FundingStyle{
		entity.FundingStyleWaterfall,
		entity.FundingStyleParallel,
		entity.FundingStyleHybrid,
	} {
		t.Run(string(style), func(t *testing.T) {
			plan, err := Allocate(goals, budget, style)
			require.NoError(t, err)
			for m := 0; m < plan.Months; m++ {
				total := decimal.Zero
				for _, alloc := range plan.Allocations {
					assert.False(t, alloc.MonthlyAllocations[m].IsNegative())
					total = total.Add(alloc.MonthlyAllocations[m])
				}
				assert.True(t, total.LessThanOrEqual(budget), "month %d total %s", m, total)
			}
		})
	}
}

func TestAllocate_RunningBalancesCompound(t *testing.T) {
	goal := derivedGoal("School", entity.GoalCategoryEducation, 96, "80000", entity.RiskProfileGrowth)

	plan, err := Allocate([]*entity.Goal{goal}, dec("700"), entity.FundingStyleWaterfall)
	require.NoError(t, err)

	rates, err := accumulationRates(goal.ReturnPhases, goal.HorizonMonths)
	require.NoError(t, err)

	alloc := plan.Allocations[0]
	previous := decimal.Zero
	for m := 0; m < goal.HorizonMonths; m++ {
		want := previous.Mul(one.Add(rates[m])).Add(alloc.MonthlyAllocations[m]).Round(scale)
		assert.True(t, want.Equal(alloc.RunningBalances[m]), "month %d", m)
		previous = alloc.RunningBalances[m]
	}
}

func TestAllocate_FullyFundedGoalReachesTarget(t *testing.T) {
	goal := derivedGoal("Car", entity.GoalCategoryVehicle, 48, "20000", entity.RiskProfileBalanced)

	plan, err := Allocate([]*entity.Goal{goal}, dec("10000"), entity.FundingStyleWaterfall)
	require.NoError(t, err)

	final, _ := plan.Allocations[0].FinalBalance.Float64()
	assert.InDelta(t, 20000, final, 0.01)
}

func TestAllocate_Drawdown(t *testing.T) {
	pension := flatGoal("Pension", entity.GoalCategoryRetirement, 12, "12000", "1000")
	pension.PaymentFrequency = entity.PaymentFrequencyMonthly
	pension.PaymentPeriod = intPtr(1)
	pension.ReturnPhases = append(pension.ReturnPhases, entity.ReturnPhase{Length: 12, Rate: decimal.Zero, Drawdown: true})
	pension.Disbursement = dec("1000")
	later := flatGoal("Later", entity.GoalCategoryOther, 30, "3000", "100")

	plan, err := Allocate([]*entity.Goal{pension, later}, dec("2000"), entity.FundingStyleWaterfall)
	require.NoError(t, err)

	alloc, _ := plan.ForGoal(pension.ID)
	assert.True(t, dec("12000").Equal(alloc.RunningBalances[11]))
	for d := 0; d < 12; d++ {
		want := decimal.NewFromInt(int64(11000 - 1000*d))
		assert.True(t, want.Equal(alloc.RunningBalances[12+d]), "drawdown month %d", d)
	}
	for m := 24; m < 30; m++ {
		assert.True(t, alloc.RunningBalances[m].IsZero())
	}
	assertMonths(t, alloc, 12, 30, "0")
	assert.True(t, dec("12000").Equal(alloc.FinalBalance))
}

func TestAllocate_ZeroAmountGoal(t *testing.T) {
	empty := derivedGoal("Nothing", entity.GoalCategoryOther, 12, "0", entity.RiskProfileBalanced)
	other := flatGoal("A", entity.GoalCategoryHome, 12, "1200", "100")

	assert.True(t, empty.RequiredPMT.IsZero())

	plan, err := Allocate([]*entity.Goal{empty, other}, dec("500"), entity.FundingStyleParallel)
	require.NoError(t, err)

	alloc, _ := plan.ForGoal(empty.ID)
	assertMonths(t, alloc, 0, 12, "0")
	assert.True(t, alloc.Gap.IsZero())

	allocA, _ := plan.ForGoal(other.ID)
	assertMonths(t, allocA, 0, 12, "100")
}

func TestAllocate_SkipsInactiveGoals(t *testing.T) {
	a := flatGoal("A", entity.GoalCategoryHome, 12, "12000", "1000")
	deleted := flatGoal("Deleted", entity.GoalCategoryTravel, 6, "600", "100")
	at := asOf
	deleted.DeletedAt = &at

	plan, err := Allocate([]*entity.Goal{a, deleted}, dec("1000"), entity.FundingStyleWaterfall)
	require.NoError(t, err)

	require.Len(t, plan.Allocations, 1)
	_, ok := plan.ForGoal(deleted.ID)
	assert.False(t, ok)
}

func TestAllocate_NoGoals(t *testing.T) {
	plan, err := Allocate(nil, dec("1000"), entity.FundingStyleHybrid)
	require.NoError(t, err)
	assert.Equal(t, 0, plan.Months)
	assert.Empty(t, plan.Allocations)
	assert.True(t, plan.Shortfall.IsZero())
}

func TestAllocate_Deterministic(t *testing.T) {
	goals := []*entity.Goal{
		derivedGoal("Emergency", entity.GoalCategoryEmergency, 12, "10000", entity.RiskProfileConservative),
		derivedGoal("Car", entity.GoalCategoryVehicle, 30, "25000", entity.RiskProfileBalanced),
		derivedGoal("School", entity.GoalCategoryEducation, 96, "80000", entity.RiskProfileGrowth),
	}

	first, err := Allocate(goals, dec("900"), entity.FundingStyleHybrid)
	require.NoError(t, err)
	second, err := Allocate(goals, dec("900"), entity.FundingStyleHybrid)
	require.NoError(t, err)

	assert.Equal(t, renderPlan(first), renderPlan(second))
}

func TestAllocate_Errors(t *testing.T) {
	a := flatGoal("A", entity.GoalCategoryHome, 12, "12000", "1000")

	_, err := Allocate([]*entity.Goal{a}, dec("1000"), "round-robin")
	assert.True(t, errors.Is(err, domainerror.ErrInvalidFundingStyle))

	_, err = Allocate([]*entity.Goal{a}, dec("-1"), entity.FundingStyleWaterfall)
	assert.True(t, errors.Is(err, domainerror.ErrInvalidBudget))
}

func TestAllocate_ZeroBudget(t *testing.T) {
	a := flatGoal("A", entity.GoalCategoryHome, 12, "12000", "1000")

	for _, style := range []entity.FundingStyle{
		entity.FundingStyleWaterfall,
		entity.FundingStyleParallel,
		entity.FundingStyleHybrid,
	} {
		plan, err := Allocate([]*entity.Goal{a}, decimal.Zero, style)
		require.NoError(t, err)
		assertMonths(t, &plan.Allocations[0], 0, 12, "0")
		assert.True(t, dec("12000").Equal(plan.Allocations[0].Gap))
	}
}

func TestPrioritize(t *testing.T) {
	late := flatGoal("Late", entity.GoalCategoryHome, 24, "100", "1")
	early := flatGoal("Early", entity.GoalCategoryHome, 6, "100", "1")
	tieA := flatGoal("TieA", entity.GoalCategoryHome, 12, "100", "1")
	tieB := flatGoal("TieB", entity.GoalCategoryHome, 12, "100", "1")

	ordered := Prioritize([]*entity.Goal{late, tieA, early, tieB})
	names := make([]string, len(ordered))
	for i, goal := range ordered {
		names[i] = goal.Name
	}
	assert.Equal(t, []string{"Early", "TieA", "TieB", "Late"}, names)
}

// renderPlan flattens a plan into strings so two plans compare by value.
func renderPlan(plan *entity.AllocationPlan) []string {
	out := []string{string(plan.FundingStyle), plan.TotalRequired.String(), plan.Shortfall.String()}
	for _, alloc := range plan.Allocations {
		out = append(out, alloc.GoalID.String())
		for m := range alloc.MonthlyAllocations {
			out = append(out, fmt.Sprintf("%d:%s:%s", m, alloc.MonthlyAllocations[m], alloc.RunningBalances[m]))
		}
	}
	return out
}
