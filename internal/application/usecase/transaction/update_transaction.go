package transaction

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

// UpdateTransactionInput represents a partial update. Nil fields are left unchanged.
type UpdateTransactionInput struct {
	TransactionID uuid.UUID
	UserID        uuid.UUID
	Type          *string
	Amount        *decimal.Decimal
	Category      *string
	Date          *string
	Description   *string
	Time          *string
	Location      *string
	Note          *string
	Tags          *[]string
	Budget        BudgetRef
}

// UpdateTransactionUseCase handles transaction update logic.
type UpdateTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	budgetRepo      adapter.BudgetRepository
}

// NewUpdateTransactionUseCase creates a new UpdateTransactionUseCase instance.
func NewUpdateTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	budgetRepo adapter.BudgetRepository,
) *UpdateTransactionUseCase {
	return &UpdateTransactionUseCase{
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
	}
}

// Execute merges the supplied fields into the caller's transaction.
func (uc *UpdateTransactionUseCase) Execute(ctx context.Context, input UpdateTransactionInput) (*entity.Transaction, error) {
	transaction, err := uc.transactionRepo.FindByIDAndUser(ctx, input.TransactionID, input.UserID)
	if err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return nil, notFoundError()
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}

	if input.Type != nil {
		if transaction.Type, err = parseType(*input.Type); err != nil {
			return nil, err
		}
	}
	if input.Amount != nil {
		if err := validateAmount(*input.Amount); err != nil {
			return nil, err
		}
		transaction.Amount = *input.Amount
	}
	if input.Category != nil {
		category := strings.TrimSpace(*input.Category)
		if category == "" {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeMissingTransactionFields,
				"category must not be empty",
				domainerror.ErrMissingTransactionFields,
			)
		}
		transaction.Category = category
	}
	if input.Date != nil {
		if transaction.Date, err = parseDate(*input.Date); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		transaction.Description = *input.Description
	}
	if input.Time != nil {
		transaction.Time = *input.Time
	}
	if input.Location != nil {
		transaction.Location = *input.Location
	}
	if input.Note != nil {
		transaction.Note = *input.Note
	}
	if input.Tags != nil {
		transaction.Tags = normalizeTags(*input.Tags)
	}
	if input.Budget.Set {
		if transaction.BudgetID, err = resolveBudget(ctx, uc.budgetRepo, input.UserID, input.Budget.ID); err != nil {
			return nil, err
		}
	}

	transaction.UpdatedAt = time.Now().UTC()

	if err := uc.transactionRepo.Update(ctx, transaction); err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return nil, notFoundError()
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return transaction, nil
}
