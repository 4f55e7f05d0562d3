// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/budget-api/internal/application/adapter"
	"github.com/finance-tracker/budget-api/internal/domain/entity"
	domainerror "github.com/finance-tracker/budget-api/internal/domain/error"
)

// BudgetRef is an optional budget reference in an update. Set reports whether the
// field was supplied at all; an empty ID clears the link.
type BudgetRef struct {
	Set bool
	ID  string
}

func parseType(value string) (entity.TransactionType, error) {
	t := entity.TransactionType(strings.ToLower(strings.TrimSpace(value)))
	if !t.IsValid() {
		return "", domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionType,
			"type must be income or expense",
			domainerror.ErrInvalidTransactionType,
		)
	}
	return t, nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionAmount,
			"amount must be greater than zero",
			domainerror.ErrInvalidTransactionAmount,
		)
	}
	return nil
}

func parseDate(value string) (time.Time, error) {
	date, err := entity.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionDate,
			"date must be YYYY-MM-DD or an RFC 3339 timestamp",
			domainerror.ErrInvalidTransactionDate,
		)
	}
	return date, nil
}

// resolveBudget returns nil for an empty reference and otherwise checks that the
// budget exists and belongs to userID.
func resolveBudget(ctx context.Context, budgets adapter.BudgetRepository, userID uuid.UUID, ref string) (*uuid.UUID, error) {
	if ref == "" {
		return nil, nil
	}
	notFound := domainerror.NewTransactionError(
		domainerror.ErrCodeTxnBudgetNotFound,
		"budget not found",
		domainerror.ErrBudgetNotFoundForTransaction,
	)

	id, err := uuid.Parse(ref)
	if err != nil {
		return nil, notFound
	}
	if _, err := budgets.FindByIDAndUser(ctx, id, userID); err != nil {
		if errors.Is(err, domainerror.ErrBudgetNotFound) {
			return nil, notFound
		}
		return nil, fmt.Errorf("failed to find budget: %w", err)
	}
	return &id, nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

func notFoundError() error {
	return domainerror.NewTransactionError(
		domainerror.ErrCodeTransactionNotFound,
		"Transaction not found",
		domainerror.ErrTransactionNotFound,
	)
}
