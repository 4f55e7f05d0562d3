package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/budget-api/internal/domain/entity"
)

// BudgetRepository defines persistence operations for budgets.
// Every lookup is scoped to the owning user; a record owned by someone else is
// reported as domainerror.ErrBudgetNotFound.
type BudgetRepository interface {
	Create(ctx context.Context, budget *entity.Budget) error
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*entity.Budget, error)
	// ListByUser returns the user's budgets in creation order.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Budget, error)
	Update(ctx context.Context, budget *entity.Budget) error

	// DeleteWithReassignment applies the removal as one atomic unit: it creates
	// the new budgets, relinks the listed transactions, unlinks any other
	// transaction still pointing at the budget and deletes the budget.
	// On error nothing is changed.
	DeleteWithReassignment(ctx context.Context, removal *entity.BudgetRemoval) error
}

// HealthChecker is implemented by stores that can report their availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
