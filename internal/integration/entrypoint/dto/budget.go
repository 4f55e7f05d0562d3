package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/budget-api/internal/domain/entity"
)

// CreateBudgetRequest represents the request body for budget creation.
type CreateBudgetRequest struct {
	Name           string           `json:"name"`
	Limit          *decimal.Decimal `json:"limit"`
	Icon           string           `json:"icon"`
	Color          string           `json:"color"`
	AlertThreshold int              `json:"alertThreshold"`
}

// UpdateBudgetRequest represents a partial budget update.
type UpdateBudgetRequest struct {
	Name           *string          `json:"name"`
	Limit          *decimal.Decimal `json:"limit"`
	Icon           *string          `json:"icon"`
	Color          *string          `json:"color"`
	AlertThreshold *int             `json:"alertThreshold"`
}

// BudgetResponse represents a single budget in API responses.
type BudgetResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Name           string    `json:"name"`
	Limit          float64   `json:"limit"`
	Icon           string    `json:"icon"`
	Color          string    `json:"color"`
	AlertThreshold int       `json:"alertThreshold"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// DeleteBudgetResponse reports the outcome of a budget deletion.
type DeleteBudgetResponse struct {
	Success        bool             `json:"success"`
	Reassigned     int              `json:"reassigned"`
	CreatedBudgets []BudgetResponse `json:"createdBudgets"`
}

// ToBudgetResponse converts a Budget entity to a BudgetResponse DTO.
func ToBudgetResponse(budget *entity.Budget) BudgetResponse {
	return BudgetResponse{
		ID:             budget.ID.String(),
		UserID:         budget.UserID.String(),
		Name:           budget.Name,
		Limit:          budget.Limit.InexactFloat64(),
		Icon:           budget.Icon,
		Color:          budget.Color,
		AlertThreshold: budget.AlertThreshold,
		CreatedAt:      budget.CreatedAt,
		UpdatedAt:      budget.UpdatedAt,
	}
}

// ToBudgetListResponse converts budgets into their response shape.
func ToBudgetListResponse(budgets []*entity.Budget) []BudgetResponse {
	out := make([]BudgetResponse, len(budgets))
	for i, b := range budgets {
		out[i] = ToBudgetResponse(b)
	}
	return out
}
