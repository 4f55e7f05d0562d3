package transaction

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/budget-api/internal/application/adapter"
	"github.com/finance-tracker/budget-api/internal/domain/entity"
	domainerror "github.com/finance-tracker/budget-api/internal/domain/error"
)

// CreateTransactionInput represents the input for transaction creation.
// Amount is nil when the caller did not send one.
type CreateTransactionInput struct {
	UserID      uuid.UUID
	Type        string
	Amount      *decimal.Decimal
	Category    string
	Date        string
	Description string
	Time        string
	Location    string
	Note        string
	Tags        []string
	BudgetID    string
}

// CreateTransactionUseCase handles transaction creation logic.
type CreateTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	budgetRepo      adapter.BudgetRepository
}

// NewCreateTransactionUseCase creates a new CreateTransactionUseCase instance.
func NewCreateTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	budgetRepo adapter.BudgetRepository,
) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
	}
}

// Execute validates and stores a new transaction.
func (uc *CreateTransactionUseCase) Execute(ctx context.Context, input CreateTransactionInput) (*entity.Transaction, error) {
	category := strings.TrimSpace(input.Category)
	if input.Amount == nil || input.Type == "" || category == "" || input.Date == "" {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeMissingTransactionFields,
			"Missing fields",
			domainerror.ErrMissingTransactionFields,
		)
	}

	txnType, err := parseType(input.Type)
	if err != nil {
		return nil, err
	}
	if err := validateAmount(*input.Amount); err != nil {
		return nil, err
	}
	date, err := parseDate(input.Date)
	if err != nil {
		return nil, err
	}
	budgetID, err := resolveBudget(ctx, uc.budgetRepo, input.UserID, input.BudgetID)
	if err != nil {
		return nil, err
	}

	transaction := entity.NewTransaction(input.UserID, txnType, *input.Amount, category, date)
	transaction.Description = input.Description
	transaction.Time = input.Time
	transaction.Location = input.Location
	transaction.Note = input.Note
	transaction.Tags = normalizeTags(input.Tags)
	transaction.BudgetID = budgetID

	if err := uc.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return transaction, nil
}
