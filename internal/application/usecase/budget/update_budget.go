package budget

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/budget-api/internal/application/adapter"
	"github.com/finance-tracker/budget-api/internal/domain/entity"
	domainerror "github.com/finance-tracker/budget-api/internal/domain/error"
)

// UpdateBudgetInput represents a partial update. Nil fields are left unchanged.
type UpdateBudgetInput struct {
	BudgetID       uuid.UUID
	UserID         uuid.UUID
	Name           *string
	Limit          *decimal.Decimal
	Icon           *string
	Color          *string
	AlertThreshold *int
}

// UpdateBudgetUseCase handles budget update logic.
type UpdateBudgetUseCase struct {
	budgetRepo adapter.BudgetRepository
}

// NewUpdateBudgetUseCase creates a new UpdateBudgetUseCase instance.
func NewUpdateBudgetUseCase(budgetRepo adapter.BudgetRepository) *UpdateBudgetUseCase {
	return &UpdateBudgetUseCase{budgetRepo: budgetRepo}
}

// Execute merges the supplied fields into the caller's budget.
func (uc *UpdateBudgetUseCase) Execute(ctx context.Context, input UpdateBudgetInput) (*entity.Budget, error) {
	budget, err := uc.budgetRepo.FindByIDAndUser(ctx, input.BudgetID, input.UserID)
	if err != nil {
		if errors.Is(err, domainerror.ErrBudgetNotFound) {
			return nil, notFoundError()
		}
		return nil, fmt.Errorf("failed to find budget: %w", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domainerror.NewBudgetError(
				domainerror.ErrCodeMissingBudgetFields,
				"name must not be empty",
				domainerror.ErrMissingBudgetFields,
			)
		}
		budget.Name = name
	}
	if input.Limit != nil {
		if err := validateUpdatedLimit(*input.Limit); err != nil {
			return nil, err
		}
		budget.Limit = *input.Limit
	}
	if input.Icon != nil {
		budget.Icon = *input.Icon
	}
	if input.Color != nil {
		if err := validateColor(*input.Color); err != nil {
			return nil, err
		}
		budget.Color = *input.Color
	}
	if input.AlertThreshold != nil {
		threshold := *input.AlertThreshold
		if threshold == 0 {
			threshold = entity.DefaultAlertThreshold
		}
		if err := validateThreshold(threshold); err != nil {
			return nil, err
		}
		budget.AlertThreshold = threshold
	}

	budget.UpdatedAt = time.Now().UTC()

	if err := uc.budgetRepo.Update(ctx, budget); err != nil {
		if errors.Is(err, domainerror.ErrBudgetNotFound) {
			return nil, notFoundError()
		}
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}
	return budget, nil
}
