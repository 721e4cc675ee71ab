// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalCategory represents what a savings goal is for.
type GoalCategory string

const (
	GoalCategoryEmergency  GoalCategory = "emergency"
	GoalCategoryHome       GoalCategory = "home"
	GoalCategoryEducation  GoalCategory = "education"
	GoalCategoryTravel     GoalCategory = "travel"
	GoalCategoryGift       GoalCategory = "gift"
	GoalCategoryRetirement GoalCategory = "retirement"
	GoalCategoryVehicle    GoalCategory = "vehicle"
	GoalCategoryOther      GoalCategory = "other"
)

// RiskProfile drives the default annual return rates of a goal.
type RiskProfile string

const (
	RiskProfileConservative RiskProfile = "conservative"
	RiskProfileBalanced     RiskProfile = "balanced"
	RiskProfileGrowth       RiskProfile = "growth"
)

// PaymentFrequency is the disbursement cadence of a goal with a payment period.
type PaymentFrequency string

const (
	PaymentFrequencyOnce      PaymentFrequency = "once"
	PaymentFrequencyMonthly   PaymentFrequency = "monthly"
	PaymentFrequencyQuarterly PaymentFrequency = "quarterly"
	PaymentFrequencyBiannual  PaymentFrequency = "biannual"
	PaymentFrequencyAnnual    PaymentFrequency = "annual"
)

// GoalFlagFoundational marks a goal that hybrid funding serves before all others.
const GoalFlagFoundational = "foundational"

// RateSet holds the high, mid and low annual return rates used by return phases.
type RateSet struct {
	High decimal.Decimal `json:"high"`
	Mid  decimal.Decimal `json:"mid"`
	Low  decimal.Decimal `json:"low"`
}

// ReturnPhase is a run of months compounding at a single annual rate.
type ReturnPhase struct {
	Length   int             `json:"length"`
	Rate     decimal.Decimal `json:"rate"`
	Drawdown bool            `json:"drawdown,omitempty"`
}

// Goal represents a savings target in the Goal Planner system.
type Goal struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	Name             string
	Category         GoalCategory
	TargetDate       time.Time
	Amount           decimal.Decimal
	HorizonMonths    int
	Profile          RiskProfile
	CustomRates      *RateSet
	PaymentFrequency PaymentFrequency
	PaymentPeriod    *int // years of post-target drawdown
	Flags            []string

	// Derived by the planning engine on every mutation.
	ReturnPhases []ReturnPhase
	RequiredPMT  decimal.Decimal
	Disbursement decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time // Soft-delete support
}

// NewGoal creates a new Goal entity.
func NewGoal(userID uuid.UUID, name string, category GoalCategory, targetDate time.Time, amount decimal.Decimal, profile RiskProfile) *Goal {
	now := time.Now().UTC()

	return &Goal{
		ID:               uuid.New(),
		UserID:           userID,
		Name:             name,
		Category:         category,
		TargetDate:       targetDate,
		Amount:           amount,
		Profile:          profile,
		PaymentFrequency: PaymentFrequencyOnce,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// IsActive reports whether the goal takes part in allocation.
func (g *Goal) IsActive() bool {
	return g.DeletedAt == nil
}

// IsFoundational reports whether hybrid funding serves this goal first.
func (g *Goal) IsFoundational() bool {
	if g.Category == GoalCategoryEmergency {
		return true
	}
	for _, flag := range g.Flags {
		if flag == GoalFlagFoundational {
			return true
		}
	}
	return false
}

// HasDrawdown reports whether the goal disburses over a payment period after its target date.
func (g *Goal) HasDrawdown() bool {
	return g.PaymentPeriod != nil
}

// Clone returns a deep copy of the goal.
func (g *Goal) Clone() *Goal {
	c := *g
	if g.CustomRates != nil {
		rates := *g.CustomRates
		c.CustomRates = &rates
	}
	if g.PaymentPeriod != nil {
		period := *g.PaymentPeriod
		c.PaymentPeriod = &period
	}
	if g.DeletedAt != nil {
		deletedAt := *g.DeletedAt
		c.DeletedAt = &deletedAt
	}
	c.Flags = append([]string(nil), g.Flags...)
	c.ReturnPhases = append([]ReturnPhase(nil), g.ReturnPhases...)
	return &c
}

// IsValidCategory validates a goal category.
func IsValidCategory(category GoalCategory) bool {
	switch category {
	case GoalCategoryEmergency, GoalCategoryHome, GoalCategoryEducation, GoalCategoryTravel,
		GoalCategoryGift, GoalCategoryRetirement, GoalCategoryVehicle, GoalCategoryOther:
		return true
	}
	return false
}

// IsValidProfile validates a risk profile.
func IsValidProfile(profile RiskProfile) bool {
	return profile == RiskProfileConservative ||
		profile == RiskProfileBalanced ||
		profile == RiskProfileGrowth
}

// IsValidPaymentFrequency validates a payment frequency.
func IsValidPaymentFrequency(frequency PaymentFrequency) bool {
	switch frequency {
	case PaymentFrequencyOnce, PaymentFrequencyMonthly, PaymentFrequencyQuarterly,
		PaymentFrequencyBiannual, PaymentFrequencyAnnual:
		return true
	}
	return false
}
