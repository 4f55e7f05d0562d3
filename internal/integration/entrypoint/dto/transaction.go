package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/budget-api/internal/domain/entity"
)

// CreateTransactionRequest represents the request body for transaction creation.
// Amount accepts a JSON number or a numeric string.
type CreateTransactionRequest struct {
	Type        string           `json:"type"`
	Amount      *decimal.Decimal `json:"amount"`
	Category    string           `json:"category"`
	Date        string           `json:"date"`
	Description string           `json:"description"`
	Time        string           `json:"time"`
	Location    string           `json:"location"`
	Note        string           `json:"note"`
	Tags        []string         `json:"tags"`
	BudgetID    NullableString   `json:"budgetId"`
}

// UpdateTransactionRequest represents a partial transaction update.
// A null budgetId clears the budget link.
type UpdateTransactionRequest struct {
	Type        *string          `json:"type"`
	Amount      *decimal.Decimal `json:"amount"`
	Category    *string          `json:"category"`
	Date        *string          `json:"date"`
	Description *string          `json:"description"`
	Time        *string          `json:"time"`
	Location    *string          `json:"location"`
	Note        *string          `json:"note"`
	Tags        *[]string        `json:"tags"`
	BudgetID    NullableString   `json:"budgetId"`
}

// TransactionResponse represents a single transaction in API responses.
type TransactionResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Location    string    `json:"location"`
	Note        string    `json:"note"`
	Tags        []string  `json:"tags"`
	BudgetID    *string   `json:"budgetId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToTransactionResponse converts a Transaction entity to a TransactionResponse DTO.
func ToTransactionResponse(txn *entity.Transaction) TransactionResponse {
	response := TransactionResponse{
		ID:          txn.ID.String(),
		UserID:      txn.UserID.String(),
		Type:        string(txn.Type),
		Amount:      txn.Amount.InexactFloat64(),
		Category:    txn.Category,
		Description: txn.Description,
		Date:        txn.Date.Format(entity.DateLayout),
		Time:        txn.Time,
		Location:    txn.Location,
		Note:        txn.Note,
		Tags:        txn.Tags,
		CreatedAt:   txn.CreatedAt,
		UpdatedAt:   txn.UpdatedAt,
	}
	if response.Tags == nil {
		response.Tags = []string{}
	}
	if txn.BudgetID != nil {
		id := txn.BudgetID.String()
		response.BudgetID = &id
	}
	return response
}

// ToTransactionListResponse converts transactions into their response shape.
func ToTransactionListResponse(txns []*entity.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		out[i] = ToTransactionResponse(txn)
	}
	return out
}
