// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/goal-planner/backend/internal/application/usecase/goal"
	"github.com/goal-planner/backend/internal/domain/entity"
)

// RateSetRequest represents custom high, mid and low annual rates.
type RateSetRequest struct {
	High decimal.Decimal `json:"high"`
	Mid  decimal.Decimal `json:"mid"`
	Low  decimal.Decimal `json:"low"`
}

func (r *RateSetRequest) toEntity() *entity.RateSet {
	if r == nil {
		return nil
	}
	return &entity.RateSet{High: r.High, Mid: r.Mid, Low: r.Low}
}

// CreateGoalRequest represents the request body for goal creation.
type CreateGoalRequest struct {
	Name             string           `json:"name" binding:"required"`
	Category         string           `json:"category" binding:"required"`
	TargetDate       string           `json:"target_date" binding:"required"`
	Amount           *decimal.Decimal `json:"amount" binding:"required"`
	Profile          string           `json:"profile,omitempty" binding:"omitempty,oneof=conservative balanced growth"`
	CustomRates      *RateSetRequest  `json:"custom_rates,omitempty"`
	PaymentFrequency *string          `json:"payment_frequency,omitempty" binding:"omitempty,oneof=once monthly quarterly biannual annual"`
	PaymentPeriod    *int             `json:"payment_period,omitempty" binding:"omitempty,gte=1"`
	Flags            []string         `json:"flags,omitempty"`
}

// ToInput converts the request into use case input. The profile defaults to balanced.
func (r CreateGoalRequest) ToInput(targetDate time.Time) goal.CreateGoalInput {
	profile := entity.RiskProfile(r.Profile)
	if profile == "" {
		profile = entity.RiskProfileBalanced
	}

	input := goal.CreateGoalInput{
		Name:          r.Name,
		Category:      entity.GoalCategory(r.Category),
		TargetDate:    targetDate,
		Amount:        *r.Amount,
		Profile:       profile,
		CustomRates:   r.CustomRates.toEntity(),
		PaymentPeriod: r.PaymentPeriod,
		Flags:         r.Flags,
	}
	if r.PaymentFrequency != nil {
		frequency := entity.PaymentFrequency(*r.PaymentFrequency)
		input.PaymentFrequency = &frequency
	}
	return input
}

// UpdateGoalRequest represents the request body for goal update.
type UpdateGoalRequest struct {
	Name               *string          `json:"name,omitempty"`
	Category           *string          `json:"category,omitempty"`
	TargetDate         *string          `json:"target_date,omitempty"`
	Amount             *decimal.Decimal `json:"amount,omitempty"`
	Profile            *string          `json:"profile,omitempty" binding:"omitempty,oneof=conservative balanced growth"`
	CustomRates        *RateSetRequest  `json:"custom_rates,omitempty"`
	ClearCustomRates   bool             `json:"clear_custom_rates,omitempty"`
	PaymentFrequency   *string          `json:"payment_frequency,omitempty" binding:"omitempty,oneof=once monthly quarterly biannual annual"`
	PaymentPeriod      *int             `json:"payment_period,omitempty" binding:"omitempty,gte=1"`
	ClearPaymentPeriod bool             `json:"clear_payment_period,omitempty"`
	Flags              *[]string        `json:"flags,omitempty"`
}

// ToInput converts the request into use case input.
func (r UpdateGoalRequest) ToInput(targetDate *time.Time) goal.UpdateGoalInput {
	input := goal.UpdateGoalInput{
		Name:               r.Name,
		TargetDate:         targetDate,
		Amount:             r.Amount,
		CustomRates:        r.CustomRates.toEntity(),
		ClearCustomRates:   r.ClearCustomRates,
		PaymentPeriod:      r.PaymentPeriod,
		ClearPaymentPeriod: r.ClearPaymentPeriod,
		Flags:              r.Flags,
	}
	if r.Category != nil {
		category := entity.GoalCategory(*r.Category)
		input.Category = &category
	}
	if r.Profile != nil {
		profile := entity.RiskProfile(*r.Profile)
		input.Profile = &profile
	}
	if r.PaymentFrequency != nil {
		frequency := entity.PaymentFrequency(*r.PaymentFrequency)
		input.PaymentFrequency = &frequency
	}
	return input
}

// RateSetResponse represents custom rates in API responses.
type RateSetResponse struct {
	High string `json:"high"`
	Mid  string `json:"mid"`
	Low  string `json:"low"`
}

// ReturnPhaseResponse represents one return phase in API responses.
type ReturnPhaseResponse struct {
	Length   int    `json:"length"`
	Rate     string `json:"rate"`
	Drawdown bool   `json:"drawdown"`
}

// AllocationResponse represents the funding schedule of one goal.
type AllocationResponse struct {
	MonthlyAllocations []string `json:"monthly_allocations"`
	RunningBalances    []string `json:"running_balances"`
	FinalBalance       string   `json:"final_balance"`
	Gap                string   `json:"gap"`
	OnTrack            bool     `json:"on_track"`
}

// GoalResponse represents a single goal in API responses.
type GoalResponse struct {
	ID               string                `json:"id"`
	UserID           string                `json:"user_id"`
	Name             string                `json:"name"`
	Category         string                `json:"category"`
	TargetDate       string                `json:"target_date"`
	Amount           string                `json:"amount"`
	Profile          string                `json:"profile"`
	CustomRates      *RateSetResponse      `json:"custom_rates,omitempty"`
	PaymentFrequency string                `json:"payment_frequency"`
	PaymentPeriod    *int                  `json:"payment_period,omitempty"`
	Flags            []string              `json:"flags"`
	HorizonMonths    int                   `json:"horizon_months"`
	ReturnPhases     []ReturnPhaseResponse `json:"return_phases"`
	RequiredPMT      string                `json:"required_pmt"`
	Disbursement     string                `json:"disbursement"`
	Allocation       *AllocationResponse   `json:"allocation,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// GoalListResponse represents the response for listing goals.
type GoalListResponse struct {
	Goals []GoalResponse `json:"goals"`
}

// ToGoalResponse converts a domain Goal entity to a GoalResponse DTO.
func ToGoalResponse(g *entity.Goal, allocation *entity.GoalAllocation) GoalResponse {
	response := GoalResponse{
		ID:               g.ID.String(),
		UserID:           g.UserID.String(),
		Name:             g.Name,
		Category:         string(g.Category),
		TargetDate:       g.TargetDate.Format(dateLayout),
		Amount:           money(g.Amount),
		Profile:          string(g.Profile),
		PaymentFrequency: string(g.PaymentFrequency),
		PaymentPeriod:    g.PaymentPeriod,
		Flags:            g.Flags,
		HorizonMonths:    g.HorizonMonths,
		ReturnPhases:     make([]ReturnPhaseResponse, len(g.ReturnPhases)),
		RequiredPMT:      money(g.RequiredPMT),
		Disbursement:     money(g.Disbursement),
		Allocation:       ToAllocationResponse(allocation),
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        g.UpdatedAt,
	}

	if response.Flags == nil {
		response.Flags = []string{}
	}

	if g.CustomRates != nil {
		response.CustomRates = &RateSetResponse{
			High: g.CustomRates.High.String(),
			Mid:  g.CustomRates.Mid.String(),
			Low:  g.CustomRates.Low.String(),
		}
	}

	for i, phase := range g.ReturnPhases {
		response.ReturnPhases[i] = ReturnPhaseResponse{
			Length:   phase.Length,
			Rate:     phase.Rate.String(),
			Drawdown: phase.Drawdown,
		}
	}

	return response
}

// ToAllocationResponse converts a goal allocation, if any, to its DTO.
func ToAllocationResponse(a *entity.GoalAllocation) *AllocationResponse {
	if a == nil {
		return nil
	}
	return &AllocationResponse{
		MonthlyAllocations: moneySeries(a.MonthlyAllocations),
		RunningBalances:    moneySeries(a.RunningBalances),
		FinalBalance:       money(a.FinalBalance),
		Gap:                money(a.Gap),
		OnTrack:            a.OnTrack(),
	}
}

// ToGoalListResponse converts listed goals to GoalListResponse.
func ToGoalListResponse(goals []*goal.GoalWithAllocation) GoalListResponse {
	response := GoalListResponse{
		Goals: make([]GoalResponse, len(goals)),
	}
	for i, g := range goals {
		response.Goals[i] = ToGoalResponse(g.Goal, g.Allocation)
	}
	return response
}
