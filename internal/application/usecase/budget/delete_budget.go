package budget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/budget-api/internal/application/adapter"
	"github.com/finance-tracker/budget-api/internal/domain/entity"
	domainerror "github.com/finance-tracker/budget-api/internal/domain/error"
)

// DeleteBudgetInput represents the input for budget deletion. With Reassign set,
// expenses linked to the budget move to a same-named budget for their category,
// created with a zero limit when none exists. Without it they are only unlinked.
type DeleteBudgetInput struct {
	BudgetID uuid.UUID
	UserID   uuid.UUID
	Reassign bool
}

// DeleteBudgetOutput reports what the deletion changed besides removing the budget.
type DeleteBudgetOutput struct {
	Reassigned     int
	CreatedBudgets []*entity.Budget
}

// DeleteBudgetUseCase handles budget deletion logic.
type DeleteBudgetUseCase struct {
	budgetRepo      adapter.BudgetRepository
	transactionRepo adapter.TransactionRepository
}

// NewDeleteBudgetUseCase creates a new DeleteBudgetUseCase instance.
func NewDeleteBudgetUseCase(
	budgetRepo adapter.BudgetRepository,
	transactionRepo adapter.TransactionRepository,
) *DeleteBudgetUseCase {
	return &DeleteBudgetUseCase{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
	}
}

// Execute plans the reassignment and hands it to the store as one atomic removal.
func (uc *DeleteBudgetUseCase) Execute(ctx context.Context, input DeleteBudgetInput) (*DeleteBudgetOutput, error) {
	if _, err := uc.budgetRepo.FindByIDAndUser(ctx, input.BudgetID, input.UserID); err != nil {
		if errors.Is(err, domainerror.ErrBudgetNotFound) {
			return nil, notFoundError()
		}
		return nil, fmt.Errorf("failed to find budget: %w", err)
	}

	removal := &entity.BudgetRemoval{
		UserID:   input.UserID,
		BudgetID: input.BudgetID,
		Relinks:  map[uuid.UUID]uuid.UUID{},
	}

	if input.Reassign {
		if err := uc.plan(ctx, removal); err != nil {
			return nil, err
		}
	}

	if err := uc.budgetRepo.DeleteWithReassignment(ctx, removal); err != nil {
		if errors.Is(err, domainerror.ErrBudgetNotFound) {
			return nil, notFoundError()
		}
		slog.Error("Budget removal failed",
			"user_id", input.UserID,
			"budget_id", input.BudgetID,
			"error", err,
		)
		return nil, fmt.Errorf("failed to delete budget: %w", err)
	}

	return &DeleteBudgetOutput{
		Reassigned:     len(removal.Relinks),
		CreatedBudgets: removal.NewBudgets,
	}, nil
}

// plan fills removal with a target budget for every linked expense, keyed by the
// expense's category name.
func (uc *DeleteBudgetUseCase) plan(ctx context.Context, removal *entity.BudgetRemoval) error {
	transactions, err := uc.transactionRepo.ListByUser(ctx, removal.UserID)
	if err != nil {
		return fmt.Errorf("failed to list transactions: %w", err)
	}
	budgets, err := uc.budgetRepo.ListByUser(ctx, removal.UserID)
	if err != nil {
		return fmt.Errorf("failed to list budgets: %w", err)
	}

	byName := make(map[string]uuid.UUID, len(budgets))
	for _, b := range budgets {
		if b.ID == removal.BudgetID {
			continue
		}
		// first budget with a name wins, matching creation order
		if _, ok := byName[b.Name]; !ok {
			byName[b.Name] = b.ID
		}
	}

	for _, t := range transactions {
		if !t.IsExpense() || !t.IsLinkedTo(removal.BudgetID) {
			continue
		}
		target, ok := byName[t.Category]
		if !ok {
			fallback := entity.NewBudget(removal.UserID, t.Category, decimal.Zero)
			removal.NewBudgets = append(removal.NewBudgets, fallback)
			target = fallback.ID
			byName[t.Category] = target
		}
		removal.Relinks[t.ID] = target
	}
	return nil
}
