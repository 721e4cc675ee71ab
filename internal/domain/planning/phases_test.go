package planning

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goal-planner/backend/internal/domain/entity"
	domainerror "github.com/goal-planner/backend/internal/domain/error"
)

func phaseLengths(phases []entity.ReturnPhase) []int {
	lengths := make([]int, len(phases))
	for i, phase := range phases {
		lengths[i] = phase.Length
	}
	return lengths
}

func TestBuildReturnPhases_Layout(t *testing.T) {
	tests := []struct {
		name    string
		horizon int
		profile entity.RiskProfile
		lengths []int
		rates   []string
	}{
		{"one month", 1, entity.RiskProfileConservative, []int{1}, []string{"0.02"}},
		{"short horizon stays low", 24, entity.RiskProfileBalanced, []int{24}, []string{"0.03"}},
		{"three years is still one phase", 36, entity.RiskProfileGrowth, []int{36}, []string{"0.05"}},
		{"just above three years de-risks", 37, entity.RiskProfileBalanced, []int{13, 24}, []string{"0.06", "0.03"}},
		{"five years", 60, entity.RiskProfileBalanced, []int{36, 24}, []string{"0.06", "0.03"}},
		{"seven years", 84, entity.RiskProfileGrowth, []int{60, 24}, []string{"0.08", "0.05"}},
		{"ten years", 120, entity.RiskProfileGrowth, []int{86, 19, 15}, []string{"0.08", "0.07", "0.05"}},
		{"remainder goes last", 121, entity.RiskProfileConservative, []int{87, 19, 15}, []string{"0.04", "0.03", "0.02"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phases, err := BuildReturnPhases(tt.horizon, tt.profile, nil, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.lengths, phaseLengths(phases))
			for i, rate := range tt.rates {
				assert.True(t, dec(rate).Equal(phases[i].Rate), "phase %d rate %s", i, phases[i].Rate)
				assert.False(t, phases[i].Drawdown)
			}
		})
	}
}

func TestBuildReturnPhases_LengthsSumToHorizon(t *testing.T) {
	for h := 1; h <= 480; h++ {
		phases, err := BuildReturnPhases(h, entity.RiskProfileBalanced, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, h, AccumulationMonths(phases), "horizon %d", h)
		if h <= 36 {
			assert.Len(t, phases, 1, "horizon %d", h)
		}
	}
}

func TestBuildReturnPhases_Drawdown(t *testing.T) {
	phases, err := BuildReturnPhases(60, entity.RiskProfileGrowth, intPtr(4), nil)
	require.NoError(t, err)
	require.Len(t, phases, 3)

	last := phases[2]
	assert.True(t, last.Drawdown)
	assert.Equal(t, 48, last.Length)
	assert.True(t, dec("0.02").Equal(last.Rate))
	assert.Equal(t, 60, AccumulationMonths(phases))
}

func TestBuildReturnPhases_CustomRates(t *testing.T) {
	custom := &entity.RateSet{High: dec("0.10"), Mid: dec("0.09"), Low: dec("0.01")}

	phases, err := BuildReturnPhases(60, "", nil, custom)
	require.NoError(t, err)
	require.Len(t, phases, 2)
	assert.True(t, dec("0.10").Equal(phases[0].Rate))
	assert.True(t, dec("0.01").Equal(phases[1].Rate))
}

func TestBuildReturnPhases_Errors(t *testing.T) {
	t.Run("zero horizon", func(t *testing.T) {
		_, err := BuildReturnPhases(0, entity.RiskProfileBalanced, nil, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerror.ErrInvalidHorizon))

		var goalErr *domainerror.GoalError
		require.True(t, errors.As(err, &goalErr))
		assert.Equal(t, domainerror.ErrCodeInvalidHorizon, goalErr.Code)
	})

	t.Run("negative horizon", func(t *testing.T) {
		_, err := BuildReturnPhases(-3, entity.RiskProfileBalanced, nil, nil)
		assert.True(t, errors.Is(err, domainerror.ErrInvalidHorizon))
	})

	t.Run("zero payment period", func(t *testing.T) {
		_, err := BuildReturnPhases(12, entity.RiskProfileBalanced, intPtr(0), nil)
		assert.True(t, errors.Is(err, domainerror.ErrInvalidGoalDefinition))
	})

	t.Run("unknown profile", func(t *testing.T) {
		_, err := BuildReturnPhases(12, "aggressive", nil, nil)
		assert.True(t, errors.Is(err, domainerror.ErrInvalidGoalDefinition))
	})

	t.Run("custom rate at minus one", func(t *testing.T) {
		custom := &entity.RateSet{High: dec("0.05"), Mid: dec("0.05"), Low: dec("-1")}
		_, err := BuildReturnPhases(12, entity.RiskProfileBalanced, nil, custom)
		assert.True(t, errors.Is(err, domainerror.ErrInvalidGoalDefinition))
	})
}
