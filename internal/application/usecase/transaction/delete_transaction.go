package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/budget-api/internal/application/adapter"
	domainerror "github.com/finance-tracker/budget-api/internal/domain/error"
)

// DeleteTransactionUseCase handles transaction deletion logic.
type DeleteTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewDeleteTransactionUseCase creates a new DeleteTransactionUseCase instance.
func NewDeleteTransactionUseCase(transactionRepo adapter.TransactionRepository) *DeleteTransactionUseCase {
	return &DeleteTransactionUseCase{
		transactionRepo: transactionRepo,
	}
}

// Execute removes the caller's transaction.
func (uc *DeleteTransactionUseCase) Execute(ctx context.Context, transactionID, userID uuid.UUID) error {
	if err := uc.transactionRepo.DeleteByIDAndUser(ctx, transactionID, userID); err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return notFoundError()
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}
