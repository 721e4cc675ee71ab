package planning

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goal-planner/backend/internal/domain/entity"
	domainerror "github.com/goal-planner/backend/internal/domain/error"
)

func TestMonthlyRate(t *testing.T) {
	assert.True(t, MonthlyRate(decimal.Zero).IsZero())

	for _, annual := range []string{"0.02", "0.05", "0.08", "0.12"} {
		monthly := MonthlyRate(dec(annual))
		compounded := one
		for i := 0; i < 12; i++ {
			compounded = compounded.Mul(one.Add(monthly))
		}
		got, _ := compounded.Sub(one).Float64()
		want, _ := dec(annual).Float64()
		assert.InDelta(t, want, got, 1e-8, "annual %s", annual)
	}
}

func TestMonthlyRate_DecimalRoot(t *testing.T) {
	tests := map[string]string{
		"0.02": "0.0016515813",
		"0.05": "0.0040741238",
		"0.06": "0.0048675506",
		"0.12": "0.0094887929",
	}
	for annual, want := range tests {
		got := MonthlyRate(dec(annual))
		assert.True(t, dec(want).Equal(got), "annual %s: got %s", annual, got)
	}

	assert.True(t, MonthlyRate(dec("-1")).Equal(dec("-1")))
}

func TestRequiredPayment_ZeroRate(t *testing.T) {
	phases := []entity.ReturnPhase{{Length: 12, Rate: decimal.Zero}}

	pmt, err := RequiredPayment(dec("12000"), phases, 12)
	require.NoError(t, err)
	assert.True(t, dec("1000").Equal(pmt), "got %s", pmt)
}

func TestRequiredPayment_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		horizon int
		amount  string
		profile entity.RiskProfile
		period  *int
	}{
		{"short conservative", 24, "5000", entity.RiskProfileConservative, nil},
		{"two phases", 60, "30000", entity.RiskProfileBalanced, nil},
		{"three phases", 121, "150000", entity.RiskProfileGrowth, nil},
		{"long with drawdown", 200, "400000", entity.RiskProfileGrowth, intPtr(10)},
		{"single month", 1, "750", entity.RiskProfileBalanced, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phases, err := BuildReturnPhases(tt.horizon, tt.profile, tt.period, nil)
			require.NoError(t, err)

			pmt, err := RequiredPayment(dec(tt.amount), phases, tt.horizon)
			require.NoError(t, err)
			assert.True(t, pmt.IsPositive())

			balances, err := Project(pmt, phases, tt.horizon)
			require.NoError(t, err)
			require.Len(t, balances, tt.horizon)

			final, _ := balances[tt.horizon-1].Float64()
			target, _ := dec(tt.amount).Float64()
			assert.InDelta(t, target, final, 0.01)
		})
	}
}

func TestRequiredPayment_GrowthLowersPayment(t *testing.T) {
	flat := []entity.ReturnPhase{{Length: 60, Rate: decimal.Zero}}
	growing, err := BuildReturnPhases(60, entity.RiskProfileGrowth, nil, nil)
	require.NoError(t, err)

	flatPMT, err := RequiredPayment(dec("60000"), flat, 60)
	require.NoError(t, err)
	growingPMT, err := RequiredPayment(dec("60000"), growing, 60)
	require.NoError(t, err)

	assert.True(t, dec("1000").Equal(flatPMT))
	assert.True(t, growingPMT.LessThan(flatPMT))
}

func TestRequiredPayment_IgnoresDrawdown(t *testing.T) {
	withDrawdown, err := BuildReturnPhases(60, entity.RiskProfileBalanced, intPtr(5), nil)
	require.NoError(t, err)
	without, err := BuildReturnPhases(60, entity.RiskProfileBalanced, nil, nil)
	require.NoError(t, err)

	a, err := RequiredPayment(dec("20000"), withDrawdown, 60)
	require.NoError(t, err)
	b, err := RequiredPayment(dec("20000"), without, 60)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestRequiredPayment_EdgeCases(t *testing.T) {
	phases := []entity.ReturnPhase{{Length: 12, Rate: dec("0.05")}}

	t.Run("zero target", func(t *testing.T) {
		pmt, err := RequiredPayment(decimal.Zero, phases, 12)
		require.NoError(t, err)
		assert.True(t, pmt.IsZero())
	})

	t.Run("negative target", func(t *testing.T) {
		_, err := RequiredPayment(dec("-1"), phases, 12)
		assert.True(t, errors.Is(err, domainerror.ErrInvalidGoalDefinition))
	})

	t.Run("zero horizon", func(t *testing.T) {
		_, err := RequiredPayment(dec("1000"), phases, 0)
		assert.True(t, errors.Is(err, domainerror.ErrInvalidHorizon))
	})

	t.Run("zero horizon with zero target", func(t *testing.T) {
		_, err := RequiredPayment(decimal.Zero, phases, 0)
		assert.True(t, errors.Is(err, domainerror.ErrInvalidHorizon))
	})

	t.Run("zero-length phases are skipped", func(t *testing.T) {
		mixed := []entity.ReturnPhase{
			{Length: 0, Rate: dec("0.05")},
			{Length: 12, Rate: decimal.Zero},
		}
		pmt, err := RequiredPayment(dec("1200"), mixed, 12)
		require.NoError(t, err)
		assert.True(t, dec("100").Equal(pmt))
	})

	t.Run("only drawdown phases", func(t *testing.T) {
		drawdownOnly := []entity.ReturnPhase{{Length: 12, Rate: dec("0.02"), Drawdown: true}}
		_, err := RequiredPayment(dec("1200"), drawdownOnly, 12)
		assert.True(t, errors.Is(err, domainerror.ErrInvalidHorizon))
	})

	t.Run("short phases extend with the last rate", func(t *testing.T) {
		short := []entity.ReturnPhase{{Length: 6, Rate: decimal.Zero}}
		pmt, err := RequiredPayment(dec("1200"), short, 12)
		require.NoError(t, err)
		assert.True(t, dec("100").Equal(pmt))
	})
}

func TestDisbursement(t *testing.T) {
	flatDrawdown := func(months int) []entity.ReturnPhase {
		return []entity.ReturnPhase{
			{Length: 12, Rate: decimal.Zero},
			{Length: months, Rate: decimal.Zero, Drawdown: true},
		}
	}

	tests := []struct {
		name      string
		funded    string
		phases    []entity.ReturnPhase
		frequency entity.PaymentFrequency
		payout    string
		count     int
	}{
		{"no drawdown", "1000", []entity.ReturnPhase{{Length: 12, Rate: decimal.Zero}}, entity.PaymentFrequencyMonthly, "0", 0},
		{"monthly", "1200", flatDrawdown(12), entity.PaymentFrequencyMonthly, "100", 12},
		{"quarterly", "1200", flatDrawdown(12), entity.PaymentFrequencyQuarterly, "300", 4},
		{"biannual", "1200", flatDrawdown(12), entity.PaymentFrequencyBiannual, "600", 2},
		{"annual", "4000", flatDrawdown(48), entity.PaymentFrequencyAnnual, "1000", 4},
		{"once", "1000", flatDrawdown(24), entity.PaymentFrequencyOnce, "1000", 1},
		{"nothing funded", "0", flatDrawdown(12), entity.PaymentFrequencyMonthly, "0", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payout, count, err := Disbursement(dec(tt.funded), tt.phases, tt.frequency)
			require.NoError(t, err)
			assert.True(t, dec(tt.payout).Equal(payout), "got %s", payout)
			assert.Equal(t, tt.count, count)
		})
	}
}

func TestDisbursement_SpendsDownToZero(t *testing.T) {
	phases, err := BuildReturnPhases(24, entity.RiskProfileBalanced, intPtr(3), nil)
	require.NoError(t, err)

	for _, frequency := range []entity.PaymentFrequency{
		entity.PaymentFrequencyMonthly,
		entity.PaymentFrequencyQuarterly,
		entity.PaymentFrequencyAnnual,
	} {
		t.Run(string(frequency), func(t *testing.T) {
			funded := dec("36000")
			payout, _, err := Disbursement(funded, phases, frequency)
			require.NoError(t, err)

			monthly := MonthlyRate(dec("0.02"))
			interval := PayoutInterval(frequency)
			balance := funded
			for d := 0; d < 36; d++ {
				balance = balance.Mul(one.Add(monthly))
				if d%interval == 0 {
					balance = balance.Sub(payout)
				}
			}
			remaining, _ := balance.Float64()
			assert.InDelta(t, 0, remaining, 0.01)
		})
	}
}

func TestDisbursement_InvalidFrequency(t *testing.T) {
	phases := []entity.ReturnPhase{
		{Length: 12, Rate: decimal.Zero},
		{Length: 12, Rate: decimal.Zero, Drawdown: true},
	}
	_, _, err := Disbursement(dec("100"), phases, "weekly")
	assert.True(t, errors.Is(err, domainerror.ErrInvalidGoalDefinition))
}

func TestGrowthFactors(t *testing.T) {
	rates := []decimal.Decimal{dec("0.5"), dec("0.5"), dec("1")}
	factors := growthFactors(rates)

	require.Len(t, factors, 3)
	assert.True(t, dec("3").Equal(factors[0]))
	assert.True(t, dec("2").Equal(factors[1]))
	assert.True(t, dec("1").Equal(factors[2]))
	assert.Empty(t, growthFactors(nil))
}
