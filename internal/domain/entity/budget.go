// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget defaults applied when the caller omits the field.
const (
	DefaultBudgetIcon     = "📊"
	DefaultBudgetColor    = "#FF6B6B"
	DefaultAlertThreshold = 80
)

// Budget is a named spending limit. The spent amount is derived from transactions
// and never stored.
type Budget struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Name           string
	Limit          decimal.Decimal
	Icon           string
	Color          string
	AlertThreshold int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewBudget creates a new Budget with default presentation settings.
func NewBudget(userID uuid.UUID, name string, limit decimal.Decimal) *Budget {
	now := time.Now().UTC()
	return &Budget{
		ID:             uuid.New(),
		UserID:         userID,
		Name:           name,
		Limit:          limit,
		Icon:           DefaultBudgetIcon,
		Color:          DefaultBudgetColor,
		AlertThreshold: DefaultAlertThreshold,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// BudgetRemoval describes the atomic removal of a budget: fallback budgets to
// create, transactions to relink, and the budget to delete. Any transaction still
// referencing BudgetID after relinking is unlinked.
type BudgetRemoval struct {
	UserID     uuid.UUID
	BudgetID   uuid.UUID
	NewBudgets []*Budget
	Relinks    map[uuid.UUID]uuid.UUID
}
