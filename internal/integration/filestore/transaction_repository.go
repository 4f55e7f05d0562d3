package filestore

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/budget-api/internal/application/adapter"
	"github.com/finance-tracker/budget-api/internal/domain/entity"
	domainerror "github.com/finance-tracker/budget-api/internal/domain/error"
	"github.com/finance-tracker/budget-api/internal/integration/document"
)

type transactionRepository struct {
	store *Store
}

// NewTransactionRepository returns a transaction repository backed by the store.
func NewTransactionRepository(store *Store) adapter.TransactionRepository {
	return &transactionRepository{store: store}
}

func (r *transactionRepository) Create(_ context.Context, transaction *entity.Transaction) error {
	return r.store.mutate(func() error {
		r.store.transactions = append(r.store.transactions, document.FromTransaction(transaction))
		return nil
	}, transactions)
}

func (r *transactionRepository) FindByIDAndUser(_ context.Context, id, userID uuid.UUID) (*entity.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if i := r.indexOf(id, userID); i >= 0 {
		return r.store.transactions[i].ToEntity(), nil
	}
	return nil, domainerror.ErrTransactionNotFound
}

func (r *transactionRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]*entity.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*entity.Transaction, 0)
	for _, t := range r.store.transactions {
		if t.UserID == userID {
			out = append(out, t.ToEntity())
		}
	}
	return out, nil
}

func (r *transactionRepository) Update(_ context.Context, transaction *entity.Transaction) error {
	return r.store.mutate(func() error {
		i := r.indexOf(transaction.ID, transaction.UserID)
		if i < 0 {
			return domainerror.ErrTransactionNotFound
		}
		doc := document.FromTransaction(transaction)
		doc.CreatedAt = r.store.transactions[i].CreatedAt
		r.store.transactions[i] = doc
		return nil
	}, transactions)
}

func (r *transactionRepository) DeleteByIDAndUser(_ context.Context, id, userID uuid.UUID) error {
	return r.store.mutate(func() error {
		i := r.indexOf(id, userID)
		if i < 0 {
			return domainerror.ErrTransactionNotFound
		}
		r.store.transactions = append(r.store.transactions[:i:i], r.store.transactions[i+1:]...)
		return nil
	}, transactions)
}

// indexOf must be called with the lock held.
func (r *transactionRepository) indexOf(id, userID uuid.UUID) int {
	for i, t := range r.store.transactions {
		if t.ID == id && t.UserID == userID {
			return i
		}
	}
	return -1
}
