package planning

import (
	"github.com/shopspring/decimal"

	"github.com/goal-planner/backend/internal/domain/entity"
	domainerror "github.com/goal-planner/backend/internal/domain/error"
)

// accumulationRates expands the accumulation phases into one monthly rate per month
// of the horizon. Months past the last phase keep its rate.
func accumulationRates(phases []entity.ReturnPhase, horizonMonths int) ([]decimal.Decimal, error) {
	if horizonMonths < 1 {
		return nil, domainerror.NewGoalError(
			domainerror.ErrCodeInvalidHorizon,
			"horizon must be at least one month",
			domainerror.ErrInvalidHorizon,
		)
	}

	rates := make([]decimal.Decimal, 0, horizonMonths)
	last := decimal.Zero
	covered := false
	for _, phase := range phases {
		if phase.Drawdown || phase.Length <= 0 {
			continue
		}
		monthly := MonthlyRate(phase.Rate)
		for i := 0; i < phase.Length && len(rates) < horizonMonths; i++ {
			rates = append(rates, monthly)
		}
		last = monthly
		covered = true
		if len(rates) == horizonMonths {
			break
		}
	}
	if !covered {
		return nil, domainerror.NewGoalError(
			domainerror.ErrCodeInvalidHorizon,
			"no accumulation phase to solve against",
			domainerror.ErrInvalidHorizon,
		)
	}
	for len(rates) < horizonMonths {
		rates = append(rates, last)
	}

	return rates, nil
}

// growthFactors returns, for a contribution made at the end of month i, how much one
// unit grows to by the end of the last month.
func growthFactors(rates []decimal.Decimal) []decimal.Decimal {
	n := len(rates)
	factors := make([]decimal.Decimal, n)
	if n == 0 {
		return factors
	}
	factors[n-1] = one
	for i := n - 2; i >= 0; i-- {
		factors[i] = factors[i+1].Mul(one.Add(rates[i+1])).Round(scale)
	}
	return factors
}

// RequiredPayment solves the level monthly contribution that grows to target by the
// end of the accumulation phases, compounding each month at the rate of its phase.
// Drawdown phases are ignored: the target must be fully funded by the target date.
func RequiredPayment(target decimal.Decimal, phases []entity.ReturnPhase, horizonMonths int) (decimal.Decimal, error) {
	rates, err := accumulationRates(phases, horizonMonths)
	if err != nil {
		return decimal.Zero, err
	}
	if target.IsNegative() {
		return decimal.Zero, domainerror.NewInvalidGoalError(
			domainerror.ErrCodeInvalidGoalAmount,
			"amount must not be negative",
		)
	}
	if target.IsZero() {
		return decimal.Zero, nil
	}

	total := decimal.Zero
	for _, factor := range growthFactors(rates) {
		total = total.Add(factor)
	}

	return target.Div(total).Round(scale), nil
}

// Project runs a level contribution through the accumulation phases and returns the
// balance at the end of every month.
func Project(contribution decimal.Decimal, phases []entity.ReturnPhase, horizonMonths int) ([]decimal.Decimal, error) {
	rates, err := accumulationRates(phases, horizonMonths)
	if err != nil {
		return nil, err
	}

	balances := make([]decimal.Decimal, horizonMonths)
	balance := decimal.Zero
	for i, rate := range rates {
		balance = balance.Mul(one.Add(rate)).Add(contribution).Round(scale)
		balances[i] = balance
	}
	return balances, nil
}

// PayoutInterval is the number of months between two disbursements. Zero means a
// single payout.
func PayoutInterval(frequency entity.PaymentFrequency) int {
	switch frequency {
	case entity.PaymentFrequencyMonthly:
		return 1
	case entity.PaymentFrequencyQuarterly:
		return 3
	case entity.PaymentFrequencyBiannual:
		return 6
	case entity.PaymentFrequencyAnnual:
		return 12
	default:
		return 0
	}
}

// payoutMonths lists the drawdown month offsets at which a payout happens.
func payoutMonths(frequency entity.PaymentFrequency, drawdownMonths int) []int {
	interval := PayoutInterval(frequency)
	if interval == 0 {
		return []int{0}
	}
	months := make([]int, 0, drawdownMonths/interval+1)
	for m := 0; m < drawdownMonths; m += interval {
		months = append(months, m)
	}
	return months
}

// Disbursement computes the level payout that spends funded down to zero over the
// drawdown phase, with the balance growing at the drawdown rate between payouts.
// It returns the payout and the number of payouts; both are zero without a drawdown.
func Disbursement(funded decimal.Decimal, phases []entity.ReturnPhase, frequency entity.PaymentFrequency) (decimal.Decimal, int, error) {
	phase, ok := drawdownPhase(phases)
	if !ok {
		return decimal.Zero, 0, nil
	}
	if !entity.IsValidPaymentFrequency(frequency) {
		return decimal.Zero, 0, domainerror.NewInvalidGoalError(
			domainerror.ErrCodeInvalidFrequency,
			"payment frequency must be 'once', 'monthly', 'quarterly', 'biannual', or 'annual'",
		)
	}

	months := payoutMonths(frequency, phase.Length)
	if !funded.IsPositive() {
		return decimal.Zero, len(months), nil
	}

	rates := make([]decimal.Decimal, phase.Length)
	monthly := MonthlyRate(phase.Rate)
	for i := range rates {
		rates[i] = monthly
	}
	factors := growthFactors(rates)

	// funded grown to the end of the drawdown must equal every payout grown from its month
	grown := funded.Mul(factors[0]).Mul(one.Add(monthly))
	weight := decimal.Zero
	for _, m := range months {
		weight = weight.Add(factors[m])
	}

	return grown.Div(weight).Round(scale), len(months), nil
}
