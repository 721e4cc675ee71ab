// Package planfile reads offline goal plans from YAML files.
package planfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/goal-planner/backend/internal/domain/entity"
	"github.com/goal-planner/backend/internal/domain/planning"
)

// File is the YAML shape of a plan file. The budget is either given directly or
// derived from income and expenses.
type File struct {
	AsOf            time.Time           `yaml:"as_of"`
	MonthlyBudget   *decimal.Decimal    `yaml:"monthly_budget"`
	MonthlyIncome   *decimal.Decimal    `yaml:"monthly_income"`
	MonthlyExpenses *decimal.Decimal    `yaml:"monthly_expenses"`
	FundingStyle    entity.FundingStyle `yaml:"funding_style"`
	Goals           []GoalSpec          `yaml:"goals"`
}

// GoalSpec is one goal of a plan file.
type GoalSpec struct {
	Name             string                  `yaml:"name"`
	Category         entity.GoalCategory     `yaml:"category"`
	TargetDate       time.Time               `yaml:"target_date"`
	Amount           decimal.Decimal         `yaml:"amount"`
	Profile          entity.RiskProfile      `yaml:"profile"`
	CustomRates      *RatesSpec              `yaml:"custom_rates"`
	PaymentFrequency entity.PaymentFrequency `yaml:"payment_frequency"`
	PaymentPeriod    *int                    `yaml:"payment_period"`
	Flags            []string                `yaml:"flags"`
}

// RatesSpec overrides the profile's annual rates.
type RatesSpec struct {
	High decimal.Decimal `yaml:"high"`
	Mid  decimal.Decimal `yaml:"mid"`
	Low  decimal.Decimal `yaml:"low"`
}

// Parser loads and validates plan files.
type Parser struct {
	now func() time.Time
}

// NewParser creates a new Parser. Files without as_of are planned as of now.
func NewParser() *Parser {
	return &Parser{now: func() time.Time { return time.Now().UTC() }}
}

// LoadFromFile reads, decodes and validates a plan file.
func (p *Parser) LoadFromFile(filename string) (*File, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return p.Parse(data)
}

// Parse decodes and validates plan file contents. Unknown keys are rejected.
func (p *Parser) Parse(data []byte) (*File, error) {
	var file File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("plan file is empty")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if file.AsOf.IsZero() {
		file.AsOf = p.now()
	}
	if file.FundingStyle == "" {
		file.FundingStyle = entity.FundingStyleWaterfall
	}

	if err := p.Validate(&file); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}
	return &file, nil
}

// Validate checks the budget, the funding style and every goal definition.
func (p *Parser) Validate(file *File) error {
	if len(file.Goals) == 0 {
		return errors.New("at least one goal is required")
	}
	if !entity.IsValidFundingStyle(file.FundingStyle) {
		return fmt.Errorf("unknown funding style %q", file.FundingStyle)
	}
	if err := validateBudget(file); err != nil {
		return err
	}

	for i := range file.Goals {
		goal := file.Goals[i].toGoal(uuid.Nil)
		if err := planning.Derive(goal, file.AsOf); err != nil {
			return fmt.Errorf("goal %d (%s) validation failed: %w", i, file.Goals[i].Name, err)
		}
	}
	return nil
}

func validateBudget(file *File) error {
	if file.MonthlyBudget != nil {
		if file.MonthlyIncome != nil || file.MonthlyExpenses != nil {
			return errors.New("monthly_budget cannot be combined with monthly_income or monthly_expenses")
		}
		if file.MonthlyBudget.IsNegative() {
			return errors.New("monthly_budget must not be negative")
		}
		return nil
	}
	if file.MonthlyIncome == nil {
		return errors.New("monthly_budget or monthly_income is required")
	}
	if file.MonthlyIncome.IsNegative() {
		return errors.New("monthly_income must not be negative")
	}
	if file.MonthlyExpenses != nil && file.MonthlyExpenses.IsNegative() {
		return errors.New("monthly_expenses must not be negative")
	}
	return nil
}

// Budget is the monthly amount available for goals, never negative.
func (f *File) Budget() decimal.Decimal {
	if f.MonthlyBudget != nil {
		return *f.MonthlyBudget
	}
	if f.MonthlyIncome == nil {
		return decimal.Zero
	}
	expenses := decimal.Zero
	if f.MonthlyExpenses != nil {
		expenses = *f.MonthlyExpenses
	}
	return entity.NewBudgetProfile(uuid.Nil, *f.MonthlyIncome, expenses, f.FundingStyle).MonthlyBudget()
}

// State builds the plan state of the file and derives its plan. Goals get stable IDs
// from their position in the file.
func (f *File) State() (planning.PlanState, error) {
	state := planning.PlanState{
		Goals:         make([]*entity.Goal, len(f.Goals)),
		MonthlyBudget: f.Budget(),
		FundingStyle:  f.FundingStyle,
	}
	for i := range f.Goals {
		id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("goalplan/%d/%s", i, f.Goals[i].Name)))
		goal := f.Goals[i].toGoal(id)
		goal.CreatedAt = f.AsOf
		goal.UpdatedAt = f.AsOf
		state.Goals[i] = goal
	}
	return planning.Reduce(state, planning.Recalculate{AsOf: f.AsOf})
}

func (s GoalSpec) toGoal(id uuid.UUID) *entity.Goal {
	profile := s.Profile
	if profile == "" {
		profile = entity.RiskProfileBalanced
	}
	goal := entity.NewGoal(uuid.Nil, s.Name, s.Category, s.TargetDate, s.Amount, profile)
	goal.ID = id
	if s.PaymentFrequency != "" {
		goal.PaymentFrequency = s.PaymentFrequency
	}
	if s.PaymentPeriod != nil {
		period := *s.PaymentPeriod
		goal.PaymentPeriod = &period
	}
	if s.CustomRates != nil {
		goal.CustomRates = &entity.RateSet{High: s.CustomRates.High, Mid: s.CustomRates.Mid, Low: s.CustomRates.Low}
	}
	goal.Flags = append([]string(nil), s.Flags...)
	return goal
}
