package filestore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/budget-api/internal/application/adapter"
	"github.com/finance-tracker/budget-api/internal/domain/entity"
	domainerror "github.com/finance-tracker/budget-api/internal/domain/error"
	"github.com/finance-tracker/budget-api/internal/integration/document"
)

type budgetRepository struct {
	store *Store
}

// NewBudgetRepository returns a budget repository backed by the store.
func NewBudgetRepository(store *Store) adapter.BudgetRepository {
	return &budgetRepository{store: store}
}

func (r *budgetRepository) Create(_ context.Context, budget *entity.Budget) error {
	return r.store.mutate(func() error {
		r.store.budgets = append(r.store.budgets, document.FromBudget(budget))
		return nil
	}, budgets)
}

func (r *budgetRepository) FindByIDAndUser(_ context.Context, id, userID uuid.UUID) (*entity.Budget, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if i := r.indexOf(id, userID); i >= 0 {
		return r.store.budgets[i].ToEntity(), nil
	}
	return nil, domainerror.ErrBudgetNotFound
}

func (r *budgetRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]*entity.Budget, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*entity.Budget, 0)
	for _, b := range r.store.budgets {
		if b.UserID == userID {
			out = append(out, b.ToEntity())
		}
	}
	return out, nil
}

func (r *budgetRepository) Update(_ context.Context, budget *entity.Budget) error {
	return r.store.mutate(func() error {
		i := r.indexOf(budget.ID, budget.UserID)
		if i < 0 {
			return domainerror.ErrBudgetNotFound
		}
		doc := document.FromBudget(budget)
		doc.CreatedAt = r.store.budgets[i].CreatedAt
		r.store.budgets[i] = doc
		return nil
	}, budgets)
}

// DeleteWithReassignment applies the removal under the store lock. Both
// collections are written before the lock is released; a failed write restores
// the previous state.
func (r *budgetRepository) DeleteWithReassignment(_ context.Context, removal *entity.BudgetRemoval) error {
	return r.store.mutate(func() error {
		i := r.indexOf(removal.BudgetID, removal.UserID)
		if i < 0 {
			return domainerror.ErrBudgetNotFound
		}

		for _, b := range removal.NewBudgets {
			r.store.budgets = append(r.store.budgets, document.FromBudget(b))
		}

		// transactions are rewritten into a fresh slice so the snapshot stays intact
		now := time.Now().UTC()
		txns := make([]document.Transaction, len(r.store.transactions))
		copy(txns, r.store.transactions)
		for k := range txns {
			t := &txns[k]
			if t.UserID != removal.UserID {
				continue
			}
			if target, ok := removal.Relinks[t.ID]; ok {
				id := target
				t.BudgetID = &id
				t.UpdatedAt = now
				continue
			}
			if t.BudgetID != nil && *t.BudgetID == removal.BudgetID {
				t.BudgetID = nil
				t.UpdatedAt = now
			}
		}
		r.store.transactions = txns

		i = r.indexOf(removal.BudgetID, removal.UserID)
		r.store.budgets = append(r.store.budgets[:i:i], r.store.budgets[i+1:]...)
		return nil
	}, budgets, transactions)
}

// indexOf must be called with the lock held.
func (r *budgetRepository) indexOf(id, userID uuid.UUID) int {
	for i, b := range r.store.budgets {
		if b.ID == id && b.UserID == userID {
			return i
		}
	}
	return -1
}
