package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/budget-api/internal/domain/entity"
)

// TransactionRepository defines persistence operations for transactions.
// Every lookup is scoped to the owning user; a record owned by someone else is
// reported as domainerror.ErrTransactionNotFound.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *entity.Transaction) error
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*entity.Transaction, error)
	// ListByUser returns the user's transactions in creation order.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Transaction, error)
	Update(ctx context.Context, transaction *entity.Transaction) error
	DeleteByIDAndUser(ctx context.Context, id, userID uuid.UUID) error
}
