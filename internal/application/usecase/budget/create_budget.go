package budget

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/budget-api/internal/application/adapter"
	"github.com/finance-tracker/budget-api/internal/domain/entity"
	domainerror "github.com/finance-tracker/budget-api/internal/domain/error"
)

// CreateBudgetInput represents the input for budget creation. Empty optional
// fields take the budget defaults.
type CreateBudgetInput struct {
	UserID         uuid.UUID
	Name           string
	Limit          *decimal.Decimal
	Icon           string
	Color          string
	AlertThreshold int
}

// CreateBudgetUseCase handles budget creation logic.
type CreateBudgetUseCase struct {
	budgetRepo adapter.BudgetRepository
}

// NewCreateBudgetUseCase creates a new CreateBudgetUseCase instance.
func NewCreateBudgetUseCase(budgetRepo adapter.BudgetRepository) *CreateBudgetUseCase {
	return &CreateBudgetUseCase{budgetRepo: budgetRepo}
}

// Execute validates and stores a new budget.
func (uc *CreateBudgetUseCase) Execute(ctx context.Context, input CreateBudgetInput) (*entity.Budget, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.Limit == nil {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeMissingBudgetFields,
			"Missing fields",
			domainerror.ErrMissingBudgetFields,
		)
	}
	if err := validateNewLimit(*input.Limit); err != nil {
		return nil, err
	}

	budget := entity.NewBudget(input.UserID, name, *input.Limit)

	if input.Icon != "" {
		budget.Icon = input.Icon
	}
	if input.Color != "" {
		if err := validateColor(input.Color); err != nil {
			return nil, err
		}
		budget.Color = input.Color
	}
	if input.AlertThreshold != 0 {
		if err := validateThreshold(input.AlertThreshold); err != nil {
			return nil, err
		}
		budget.AlertThreshold = input.AlertThreshold
	}

	if err := uc.budgetRepo.Create(ctx, budget); err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}
	return budget, nil
}
