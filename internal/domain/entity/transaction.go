// Package entity defines the core business entities for the domain layer.
package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction (expense or income).
type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"
)

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeExpense || t == TransactionTypeIncome
}

// DateLayout is the calendar-date format transactions are exchanged in.
const DateLayout = "2006-01-02"

// Transaction represents a single income or expense entry. Amount is always positive;
// Type carries the direction.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Type        TransactionType
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time
	Time        string
	Location    string
	Note        string
	Tags        []string
	BudgetID    *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTransaction creates a new Transaction entity with empty optional fields.
func NewTransaction(
	userID uuid.UUID,
	transactionType TransactionType,
	amount decimal.Decimal,
	category string,
	date time.Time,
) *Transaction {
	now := time.Now().UTC()

	return &Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      transactionType,
		Amount:    amount,
		Category:  category,
		Date:      date,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsExpense reports whether the transaction is an expense.
func (t *Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}

// IsLinkedTo reports whether the transaction references the given budget.
func (t *Transaction) IsLinkedTo(budgetID uuid.UUID) bool {
	return t.BudgetID != nil && *t.BudgetID == budgetID
}

// ParseDate accepts either a calendar date or an RFC 3339 timestamp and returns the
// calendar date at UTC midnight.
func ParseDate(value string) (time.Time, error) {
	if d, err := time.Parse(DateLayout, value); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognised date %q", value)
	}
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}
