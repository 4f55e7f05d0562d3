package docstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/budget-api/internal/application/adapter"
	"github.com/finance-tracker/budget-api/internal/domain/entity"
	domainerror "github.com/finance-tracker/budget-api/internal/domain/error"
	"github.com/finance-tracker/budget-api/internal/integration/document"
)

type transactionRepository struct {
	store *Store
}

// NewTransactionRepository returns a transaction repository backed by Redis.
func NewTransactionRepository(store *Store) adapter.TransactionRepository {
	return &transactionRepository{store: store}
}

func (r *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	data, err := encode(document.FromTransaction(transaction))
	if err != nil {
		return err
	}
	return r.store.client.HSet(ctx, r.store.transactionsKey(transaction.UserID), transaction.ID.String(), data).Err()
}

func (r *transactionRepository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*entity.Transaction, error) {
	doc, found, err := getDoc[document.Transaction](ctx, r.store.client, r.store.transactionsKey(userID), id.String())
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domainerror.ErrTransactionNotFound
	}
	return doc.ToEntity(), nil
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Transaction, error) {
	docs, err := allDocs[document.Transaction](ctx, r.store.client, r.store.transactionsKey(userID))
	if err != nil {
		return nil, err
	}
	document.SortTransactions(docs)

	out := make([]*entity.Transaction, len(docs))
	for i := range docs {
		out[i] = docs[i].ToEntity()
	}
	return out, nil
}

func (r *transactionRepository) Update(ctx context.Context, transaction *entity.Transaction) error {
	key := r.store.transactionsKey(transaction.UserID)
	id := transaction.ID.String()

	return r.store.watch(ctx, func(tx *redis.Tx) error {
		current, found, err := getDoc[document.Transaction](ctx, tx, key, id)
		if err != nil {
			return err
		}
		if !found {
			return domainerror.ErrTransactionNotFound
		}
		doc := document.FromTransaction(transaction)
		doc.CreatedAt = current.CreatedAt
		data, err := encode(doc)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, id, data)
			return nil
		})
		return err
	}, key)
}

func (r *transactionRepository) DeleteByIDAndUser(ctx context.Context, id, userID uuid.UUID) error {
	n, err := r.store.client.HDel(ctx, r.store.transactionsKey(userID), id.String()).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return domainerror.ErrTransactionNotFound
	}
	return nil
}
