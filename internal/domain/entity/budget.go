package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetProfile holds the income and expenses a user's savings budget derives from.
type BudgetProfile struct {
	UserID          uuid.UUID
	MonthlyIncome   decimal.Decimal
	MonthlyExpenses decimal.Decimal
	FundingStyle    FundingStyle
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewBudgetProfile creates a new BudgetProfile entity.
func NewBudgetProfile(userID uuid.UUID, income, expenses decimal.Decimal, style FundingStyle) *BudgetProfile {
	now := time.Now().UTC()

	return &BudgetProfile{
		UserID:          userID,
		MonthlyIncome:   income,
		MonthlyExpenses: expenses,
		FundingStyle:    style,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// MonthlyBudget is what is left to save each month, never negative.
func (b *BudgetProfile) MonthlyBudget() decimal.Decimal {
	budget := b.MonthlyIncome.Sub(b.MonthlyExpenses)
	if budget.IsNegative() {
		return decimal.Zero
	}
	return budget
}
