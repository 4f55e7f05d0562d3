package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of transaction dates.
const DateLayout = "2006-01-02"

// User is the public user shape returned by login and register.
type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Profile is the full profile record.
type Profile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

// AuthResult is returned by Login and Register.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Transaction is a transaction record as served by the API.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	Location    string          `json:"location"`
	Note        string          `json:"note"`
	Tags        []string        `json:"tags"`
	BudgetID    *string         `json:"budgetId"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Day parses Date. Records with an unreadable date report false.
func (t Transaction) Day() (time.Time, bool) {
	d, err := time.Parse(DateLayout, t.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// IsExpense reports whether the transaction is an expense.
func (t Transaction) IsExpense() bool { return t.Type == "expense" }

// IsIncome reports whether the transaction is income.
func (t Transaction) IsIncome() bool { return t.Type == "income" }

// Budget is a budget record as served by the API.
type Budget struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	Name           string          `json:"name"`
	Limit          decimal.Decimal `json:"limit"`
	Icon           string          `json:"icon"`
	Color          string          `json:"color"`
	AlertThreshold int             `json:"alertThreshold"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// DeleteBudgetResult reports what a budget deletion changed.
type DeleteBudgetResult struct {
	Success        bool     `json:"success"`
	Reassigned     int      `json:"reassigned"`
	CreatedBudgets []Budget `json:"createdBudgets"`
}

// ProfileUpdate carries the profile fields to change. Nil fields are not sent.
type ProfileUpdate struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Location *string `json:"location,omitempty"`
}

// NewTransaction carries the fields of a transaction to create.
type NewTransaction struct {
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	Description string          `json:"description,omitempty"`
	Time        string          `json:"time,omitempty"`
	Location    string          `json:"location,omitempty"`
	Note        string          `json:"note,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	BudgetID    string          `json:"budgetId,omitempty"`
}

// TransactionPatch carries a partial transaction update. ClearBudget sends an
// explicit null budgetId and takes precedence over BudgetID.
type TransactionPatch struct {
	Type        *string
	Amount      *decimal.Decimal
	Category    *string
	Date        *string
	Description *string
	Time        *string
	Location    *string
	Note        *string
	Tags        []string
	BudgetID    *string
	ClearBudget bool
}

func (p TransactionPatch) body() map[string]any {
	out := map[string]any{}
	set := func(key string, v *string) {
		if v != nil {
			out[key] = *v
		}
	}
	set("type", p.Type)
	set("category", p.Category)
	set("date", p.Date)
	set("description", p.Description)
	set("time", p.Time)
	set("location", p.Location)
	set("note", p.Note)
	if p.Amount != nil {
		out["amount"] = *p.Amount
	}
	if p.Tags != nil {
		out["tags"] = p.Tags
	}
	switch {
	case p.ClearBudget:
		out["budgetId"] = nil
	case p.BudgetID != nil:
		out["budgetId"] = *p.BudgetID
	}
	return out
}

// NewBudget carries the fields of a budget to create. Zero optional fields take server defaults.
type NewBudget struct {
	Name           string          `json:"name"`
	Limit          decimal.Decimal `json:"limit"`
	Icon           string          `json:"icon,omitempty"`
	Color          string          `json:"color,omitempty"`
	AlertThreshold int             `json:"alertThreshold,omitempty"`
}

// BudgetPatch carries a partial budget update.
type BudgetPatch struct {
	Name           *string          `json:"name,omitempty"`
	Limit          *decimal.Decimal `json:"limit,omitempty"`
	Icon           *string          `json:"icon,omitempty"`
	Color          *string          `json:"color,omitempty"`
	AlertThreshold *int             `json:"alertThreshold,omitempty"`
}
