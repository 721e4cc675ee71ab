package planning

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goal-planner/backend/internal/domain/entity"
)

var asOf = time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func intPtr(v int) *int {
	return &v
}

// flatGoal builds an already-derived goal that earns nothing, so contributions add up exactly.
func flatGoal(name string, category entity.GoalCategory, horizon int, amount, pmt string) *entity.Goal {
	return &entity.Goal{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		Name:             name,
		Category:         category,
		TargetDate:       asOf.AddDate(0, horizon, 0),
		Amount:           dec(amount),
		HorizonMonths:    horizon,
		Profile:          entity.RiskProfileConservative,
		PaymentFrequency: entity.PaymentFrequencyOnce,
		ReturnPhases:     []entity.ReturnPhase{{Length: horizon, Rate: decimal.Zero}},
		RequiredPMT:      dec(pmt),
		Disbursement:     decimal.Zero,
	}
}

// derivedGoal builds a goal from its definition and derives it as of asOf.
func derivedGoal(name string, category entity.GoalCategory, horizon int, amount string, profile entity.RiskProfile) *entity.Goal {
	goal := entity.NewGoal(uuid.New(), name, category, asOf.AddDate(0, horizon, 0), dec(amount), profile)
	if err := Derive(goal, asOf); err != nil {
		panic(err)
	}
	return goal
}
