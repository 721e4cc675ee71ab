// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goal-planner/backend/internal/domain/entity"
)

// BudgetModel represents the budget_profiles table in the database.
type BudgetModel struct {
	UserID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	MonthlyIncome   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	MonthlyExpenses decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	FundingStyle    string          `gorm:"type:varchar(20);not null;default:'waterfall'"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for the BudgetModel.
func (BudgetModel) TableName() string {
	return "budget_profiles"
}

// ToEntity converts a BudgetModel to a domain BudgetProfile entity.
func (m *BudgetModel) ToEntity() *entity.BudgetProfile {
	return &entity.BudgetProfile{
		UserID:          m.UserID,
		MonthlyIncome:   m.MonthlyIncome,
		MonthlyExpenses: m.MonthlyExpenses,
		FundingStyle:    entity.FundingStyle(m.FundingStyle),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// BudgetFromEntity creates a BudgetModel from a domain BudgetProfile entity.
func BudgetFromEntity(budget *entity.BudgetProfile) *BudgetModel {
	return &BudgetModel{
		UserID:          budget.UserID,
		MonthlyIncome:   budget.MonthlyIncome,
		MonthlyExpenses: budget.MonthlyExpenses,
		FundingStyle:    string(budget.FundingStyle),
		CreatedAt:       budget.CreatedAt,
		UpdatedAt:       budget.UpdatedAt,
	}
}
