package docstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/budget-api/internal/application/adapter"
	"github.com/finance-tracker/budget-api/internal/domain/entity"
	domainerror "github.com/finance-tracker/budget-api/internal/domain/error"
	"github.com/finance-tracker/budget-api/internal/integration/document"
)

type budgetRepository struct {
	store *Store
}

// NewBudgetRepository returns a budget repository backed by Redis.
func NewBudgetRepository(store *Store) adapter.BudgetRepository {
	return &budgetRepository{store: store}
}

func (r *budgetRepository) Create(ctx context.Context, budget *entity.Budget) error {
	data, err := encode(document.FromBudget(budget))
	if err != nil {
		return err
	}
	return r.store.client.HSet(ctx, r.store.budgetsKey(budget.UserID), budget.ID.String(), data).Err()
}

func (r *budgetRepository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*entity.Budget, error) {
	doc, found, err := getDoc[document.Budget](ctx, r.store.client, r.store.budgetsKey(userID), id.String())
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domainerror.ErrBudgetNotFound
	}
	return doc.ToEntity(), nil
}

func (r *budgetRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Budget, error) {
	docs, err := allDocs[document.Budget](ctx, r.store.client, r.store.budgetsKey(userID))
	if err != nil {
		return nil, err
	}
	document.SortBudgets(docs)

	out := make([]*entity.Budget, len(docs))
	for i := range docs {
		out[i] = docs[i].ToEntity()
	}
	return out, nil
}

func (r *budgetRepository) Update(ctx context.Context, budget *entity.Budget) error {
	key := r.store.budgetsKey(budget.UserID)
	id := budget.ID.String()

	return r.store.watch(ctx, func(tx *redis.Tx) error {
		current, found, err := getDoc[document.Budget](ctx, tx, key, id)
		if err != nil {
			return err
		}
		if !found {
			return domainerror.ErrBudgetNotFound
		}
		doc := document.FromBudget(budget)
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

// DeleteWithReassignment watches the user's budget and transaction hashes and
// applies every write in a single MULTI/EXEC.
func (r *budgetRepository) DeleteWithReassignment(ctx context.Context, removal *entity.BudgetRemoval) error {
	budgetsKey := r.store.budgetsKey(removal.UserID)
	txnsKey := r.store.transactionsKey(removal.UserID)
	budgetID := removal.BudgetID.String()

	return r.store.watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.HExists(ctx, budgetsKey, budgetID).Result()
		if err != nil {
			return err
		}
		if !exists {
			return domainerror.ErrBudgetNotFound
		}

		txns, err := allDocs[document.Transaction](ctx, tx, txnsKey)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		changed := make(map[string]interface{})
		for _, t := range txns {
			if target, ok := removal.Relinks[t.ID]; ok {
				id := target
				t.BudgetID = &id
			} else if t.BudgetID != nil && *t.BudgetID == removal.BudgetID {
				t.BudgetID = nil
			} else {
				continue
			}
			t.UpdatedAt = now
			data, err := encode(t)
			if err != nil {
				return err
			}
			changed[t.ID.String()] = data
		}

		newBudgets := make(map[string]interface{}, len(removal.NewBudgets))
		for _, b := range removal.NewBudgets {
			data, err := encode(document.FromBudget(b))
			if err != nil {
				return err
			}
			newBudgets[b.ID.String()] = data
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if len(newBudgets) > 0 {
				pipe.HSet(ctx, budgetsKey, newBudgets)
			}
			if len(changed) > 0 {
				pipe.HSet(ctx, txnsKey, changed)
			}
			pipe.HDel(ctx, budgetsKey, budgetID)
			return nil
		})
		return err
	}, budgetsKey, txnsKey)
}
