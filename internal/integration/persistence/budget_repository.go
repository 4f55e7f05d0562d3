package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finance-tracker/budget-api/internal/application/adapter"
	"github.com/finance-tracker/budget-api/internal/domain/entity"
	domainerror "github.com/finance-tracker/budget-api/internal/domain/error"
	"github.com/finance-tracker/budget-api/internal/integration/persistence/model"
)

// budgetRepository implements the adapter.BudgetRepository interface.
type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository instance.
func NewBudgetRepository(db *gorm.DB) adapter.BudgetRepository {
	return &budgetRepository{db: db}
}

// Create creates a new budget in the database.
func (r *budgetRepository) Create(ctx context.Context, budget *entity.Budget) error {
	return r.db.WithContext(ctx).Create(model.BudgetFromEntity(budget)).Error
}

// FindByIDAndUser retrieves a budget owned by the user.
func (r *budgetRepository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*entity.Budget, error) {
	var budgetModel model.BudgetModel
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&budgetModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrBudgetNotFound
		}
		return nil, result.Error
	}
	return budgetModel.ToEntity(), nil
}

// ListByUser retrieves all budgets for a given user in creation order.
func (r *budgetRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Budget, error) {
	var budgetModels []model.BudgetModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&budgetModels)
	if result.Error != nil {
		return nil, result.Error
	}

	budgets := make([]*entity.Budget, len(budgetModels))
	for i := range budgetModels {
		budgets[i] = budgetModels[i].ToEntity()
	}
	return budgets, nil
}

// Update replaces every mutable column of the budget.
func (r *budgetRepository) Update(ctx context.Context, budget *entity.Budget) error {
	result := r.db.WithContext(ctx).
		Model(&model.BudgetModel{}).
		Where("id = ? AND user_id = ?", budget.ID, budget.UserID).
		Select("*").
		Omit("id", "user_id", "created_at").
		Updates(model.BudgetFromEntity(budget))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrBudgetNotFound
	}
	return nil
}

// DeleteWithReassignment applies the removal inside one database transaction.
func (r *budgetRepository) DeleteWithReassignment(ctx context.Context, removal *entity.BudgetRemoval) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.BudgetModel{}).
			Where("id = ? AND user_id = ?", removal.BudgetID, removal.UserID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerror.ErrBudgetNotFound
		}

		for _, b := range removal.NewBudgets {
			if err := tx.Create(model.BudgetFromEntity(b)).Error; err != nil {
				return fmt.Errorf("failed to create budget %q: %w", b.Name, err)
			}
		}

		for txnID, budgetID := range removal.Relinks {
			if err := tx.Model(&model.TransactionModel{}).
				Where("id = ? AND user_id = ?", txnID, removal.UserID).
				Update("budget_id", budgetID).Error; err != nil {
				return fmt.Errorf("failed to relink transaction %s: %w", txnID, err)
			}
		}

		if err := tx.Model(&model.TransactionModel{}).
			Where("user_id = ? AND budget_id = ?", removal.UserID, removal.BudgetID).
			Update("budget_id", nil).Error; err != nil {
			return fmt.Errorf("failed to unlink transactions: %w", err)
		}

		return tx.Where("id = ? AND user_id = ?", removal.BudgetID, removal.UserID).
			Delete(&model.BudgetModel{}).Error
	})
}
