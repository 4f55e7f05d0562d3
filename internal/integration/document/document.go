// Package document defines the JSON document shapes shared by the file and Redis
// stores, and their conversion to domain entities.
package document

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/budget-api/internal/domain/entity"
)

// User is the stored form of entity.User.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"passwordHash"`
	Avatar       string    `json:"avatar"`
	Phone        string    `json:"phone"`
	Location     string    `json:"location"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Transaction is the stored form of entity.Transaction.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	Location    string          `json:"location"`
	Note        string          `json:"note"`
	Tags        []string        `json:"tags"`
	BudgetID    *uuid.UUID      `json:"budgetId"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Budget is the stored form of entity.Budget.
type Budget struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"userId"`
	Name           string          `json:"name"`
	Limit          decimal.Decimal `json:"limit"`
	Icon           string          `json:"icon"`
	Color          string          `json:"color"`
	AlertThreshold int             `json:"alertThreshold"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// FromUser converts a user entity.
func FromUser(u *entity.User) User {
	return User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Avatar:       u.Avatar,
		Phone:        u.Phone,
		Location:     u.Location,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// ToEntity converts the document back to an entity.
func (d User) ToEntity() *entity.User {
	return &entity.User{
		ID:           d.ID,
		Email:        d.Email,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		Avatar:       d.Avatar,
		Phone:        d.Phone,
		Location:     d.Location,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// FromTransaction converts a transaction entity. Tags and BudgetID are copied.
func FromTransaction(t *entity.Transaction) Transaction {
	var budgetID *uuid.UUID
	if t.BudgetID != nil {
		id := *t.BudgetID
		budgetID = &id
	}
	return Transaction{
		ID:          t.ID,
		UserID:      t.UserID,
		Type:        string(t.Type),
		Amount:      t.Amount,
		Category:    t.Category,
		Description: t.Description,
		Date:        t.Date.Format(entity.DateLayout),
		Time:        t.Time,
		Location:    t.Location,
		Note:        t.Note,
		Tags:        append([]string{}, t.Tags...),
		BudgetID:    budgetID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ToEntity converts the document back to an entity. An unparsable date yields the
// zero time rather than failing the whole read.
func (d Transaction) ToEntity() *entity.Transaction {
	date, _ := time.Parse(entity.DateLayout, d.Date)
	var budgetID *uuid.UUID
	if d.BudgetID != nil {
		id := *d.BudgetID
		budgetID = &id
	}
	return &entity.Transaction{
		ID:          d.ID,
		UserID:      d.UserID,
		Type:        entity.TransactionType(d.Type),
		Amount:      d.Amount,
		Category:    d.Category,
		Description: d.Description,
		Date:        date,
		Time:        d.Time,
		Location:    d.Location,
		Note:        d.Note,
		Tags:        append([]string{}, d.Tags...),
		BudgetID:    budgetID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// FromBudget converts a budget entity.
func FromBudget(b *entity.Budget) Budget {
	return Budget{
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

// ToEntity converts the document back to an entity.
func (d Budget) ToEntity() *entity.Budget {
	return &entity.Budget{
		ID:             d.ID,
		UserID:         d.UserID,
		Name:           d.Name,
		Limit:          d.Limit,
		Icon:           d.Icon,
		Color:          d.Color,
		AlertThreshold: d.AlertThreshold,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// SortTransactions orders documents by creation time, breaking ties by id.
func SortTransactions(docs []Transaction) {
	sort.SliceStable(docs, func(i, j int) bool {
		return createdBefore(docs[i].CreatedAt, docs[j].CreatedAt, docs[i].ID, docs[j].ID)
	})
}

// SortBudgets orders documents by creation time, breaking ties by id.
func SortBudgets(docs []Budget) {
	sort.SliceStable(docs, func(i, j int) bool {
		return createdBefore(docs[i].CreatedAt, docs[j].CreatedAt, docs[i].ID, docs[j].ID)
	})
}

func createdBefore(a, b time.Time, idA, idB uuid.UUID) bool {
	if !a.Equal(b) {
		return a.Before(b)
	}
	return idA.String() < idB.String()
}
