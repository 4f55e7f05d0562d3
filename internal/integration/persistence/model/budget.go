package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/budget-api/internal/domain/entity"
)

// BudgetModel represents the budgets table in the database.
type BudgetModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name           string          `gorm:"type:varchar(100);not null"`
	Limit          decimal.Decimal `gorm:"column:limit_amount;type:decimal(15,2);not null"`
	Icon           string          `gorm:"type:varchar(20)"`
	Color          string          `gorm:"type:varchar(7)"`
	AlertThreshold int             `gorm:"not null;default:80"`
	CreatedAt      time.Time       `gorm:"not null;index"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for the BudgetModel.
func (BudgetModel) TableName() string {
	return "budgets"
}

// ToEntity converts a BudgetModel to a domain Budget entity.
func (m *BudgetModel) ToEntity() *entity.Budget {
	return &entity.Budget{
		ID:             m.ID,
		UserID:         m.UserID,
		Name:           m.Name,
		Limit:          m.Limit,
		Icon:           m.Icon,
		Color:          m.Color,
		AlertThreshold: m.AlertThreshold,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// BudgetFromEntity creates a BudgetModel from a domain Budget entity.
func BudgetFromEntity(b *entity.Budget) *BudgetModel {
	return &BudgetModel{
		ID:             b.ID,
		UserID:         b.UserID,
		Name:           b.Name,
		Limit:          b.Limit,
		Icon:           b.Icon,
		Color:          b.Color,
		AlertThreshold: b.AlertThreshold,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// All returns every model managed by the relational store, in migration order.
func All() []interface{} {
	return []interface{}{
		&UserModel{},
		&BudgetModel{},
		&TransactionModel{},
	}
}
