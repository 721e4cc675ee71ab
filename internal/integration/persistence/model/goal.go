// Package model defines database models for persistence layer.
package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/goal-planner/backend/internal/domain/entity"
)

// GoalModel represents the goals table in the database.
type GoalModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name             string          `gorm:"type:varchar(120);not null"`
	Category         string          `gorm:"type:varchar(20);not null"`
	TargetDate       time.Time       `gorm:"type:date;not null;index"`
	Amount           decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Profile          string          `gorm:"type:varchar(20)"`
	CustomRates      datatypes.JSON
	PaymentFrequency string `gorm:"type:varchar(20);not null;default:'once'"`
	PaymentPeriod    *int
	Flags            pq.StringArray `gorm:"type:text"`
	HorizonMonths    int            `gorm:"not null;default:0"`
	ReturnPhases     datatypes.JSON
	RequiredPMT      decimal.Decimal `gorm:"type:decimal(20,10);not null;default:0"`
	Disbursement     decimal.Decimal `gorm:"type:decimal(20,10);not null;default:0"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
	DeletedAt        gorm.DeletedAt  `gorm:"index"` // Soft-delete support
}

// TableName returns the table name for the GoalModel.
func (GoalModel) TableName() string {
	return "goals"
}

// ToEntity converts a GoalModel to a domain Goal entity.
func (m *GoalModel) ToEntity() *entity.Goal {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	var customRates *entity.RateSet
	if len(m.CustomRates) > 0 && string(m.CustomRates) != "null" {
		var rates entity.RateSet
		if err := json.Unmarshal(m.CustomRates, &rates); err == nil {
			customRates = &rates
		}
	}

	var phases []entity.ReturnPhase
	if len(m.ReturnPhases) > 0 {
		_ = json.Unmarshal(m.ReturnPhases, &phases)
	}

	return &entity.Goal{
		ID:               m.ID,
		UserID:           m.UserID,
		Name:             m.Name,
		Category:         entity.GoalCategory(m.Category),
		TargetDate:       m.TargetDate.UTC(),
		Amount:           m.Amount,
		HorizonMonths:    m.HorizonMonths,
		Profile:          entity.RiskProfile(m.Profile),
		CustomRates:      customRates,
		PaymentFrequency: entity.PaymentFrequency(m.PaymentFrequency),
		PaymentPeriod:    m.PaymentPeriod,
		Flags:            []string(m.Flags),
		ReturnPhases:     phases,
		RequiredPMT:      m.RequiredPMT,
		Disbursement:     m.Disbursement,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		DeletedAt:        deletedAt,
	}
}

// GoalFromEntity creates a GoalModel from a domain Goal entity.
func GoalFromEntity(goal *entity.Goal) *GoalModel {
	var deletedAt gorm.DeletedAt
	if goal.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *goal.DeletedAt, Valid: true}
	}

	var customRates datatypes.JSON
	if goal.CustomRates != nil {
		customRates, _ = json.Marshal(goal.CustomRates)
	}

	phases, _ := json.Marshal(goal.ReturnPhases)

	flags := pq.StringArray{}
	if len(goal.Flags) > 0 {
		flags = append(flags, goal.Flags...)
	}

	return &GoalModel{
		ID:               goal.ID,
		UserID:           goal.UserID,
		Name:             goal.Name,
		Category:         string(goal.Category),
		TargetDate:       goal.TargetDate,
		Amount:           goal.Amount,
		Profile:          string(goal.Profile),
		CustomRates:      customRates,
		PaymentFrequency: string(goal.PaymentFrequency),
		PaymentPeriod:    goal.PaymentPeriod,
		Flags:            flags,
		HorizonMonths:    goal.HorizonMonths,
		ReturnPhases:     datatypes.JSON(phases),
		RequiredPMT:      goal.RequiredPMT,
		Disbursement:     goal.Disbursement,
		CreatedAt:        goal.CreatedAt,
		UpdatedAt:        goal.UpdatedAt,
		DeletedAt:        deletedAt,
	}
}
