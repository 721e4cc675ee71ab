package planning

import (
	"strings"
	"time"

	"github.com/goal-planner/backend/internal/domain/entity"
	domainerror "github.com/goal-planner/backend/internal/domain/error"
)

// MonthsBetween counts calendar months from the month of from to the month of to.
func MonthsBetween(from, to time.Time) int {
	f := entity.FirstOfMonth(from)
	t := entity.FirstOfMonth(to)
	return (t.Year()-f.Year())*12 + int(t.Month()) - int(f.Month())
}

// ValidateGoal checks the structural shape of a goal. A zero amount is allowed and
// yields a zero required payment.
func ValidateGoal(goal *entity.Goal) error {
	if strings.TrimSpace(goal.Name) == "" {
		return domainerror.NewInvalidGoalError(domainerror.ErrCodeMissingGoalFields, "name is required")
	}
	if goal.Amount.IsNegative() {
		return domainerror.NewInvalidGoalError(domainerror.ErrCodeInvalidGoalAmount, "amount must not be negative")
	}
	if !entity.IsValidCategory(goal.Category) {
		return domainerror.NewInvalidGoalError(domainerror.ErrCodeInvalidGoalCategory, "unknown goal category")
	}
	if goal.CustomRates == nil && !entity.IsValidProfile(goal.Profile) {
		return domainerror.NewInvalidGoalError(
			domainerror.ErrCodeInvalidRiskProfile,
			"profile must be 'conservative', 'balanced', or 'growth'",
		)
	}
	if goal.HorizonMonths < 1 {
		return domainerror.NewInvalidGoalError(
			domainerror.ErrCodeInvalidTargetDate,
			"target date must be at least one month ahead",
		)
	}
	if goal.PaymentPeriod != nil && *goal.PaymentPeriod < 1 {
		return domainerror.NewInvalidGoalError(
			domainerror.ErrCodeInvalidPaymentPeriod,
			"payment period must be at least one year",
		)
	}
	if goal.PaymentFrequency != "" && !entity.IsValidPaymentFrequency(goal.PaymentFrequency) {
		return domainerror.NewInvalidGoalError(
			domainerror.ErrCodeInvalidFrequency,
			"payment frequency must be 'once', 'monthly', 'quarterly', 'biannual', or 'annual'",
		)
	}
	return nil
}

// Derive recomputes the horizon, return phases, required payment and disbursement
// of a goal as of the given date.
func Derive(goal *entity.Goal, asOf time.Time) error {
	goal.HorizonMonths = MonthsBetween(asOf, goal.TargetDate)
	if goal.PaymentFrequency == "" {
		goal.PaymentFrequency = entity.PaymentFrequencyOnce
	}
	if err := ValidateGoal(goal); err != nil {
		return err
	}

	phases, err := BuildReturnPhases(goal.HorizonMonths, goal.Profile, goal.PaymentPeriod, goal.CustomRates)
	if err != nil {
		return err
	}

	pmt, err := RequiredPayment(goal.Amount, phases, goal.HorizonMonths)
	if err != nil {
		return err
	}

	payout, _, err := Disbursement(goal.Amount, phases, goal.PaymentFrequency)
	if err != nil {
		return err
	}

	goal.ReturnPhases = phases
	goal.RequiredPMT = pmt
	goal.Disbursement = payout
	return nil
}
