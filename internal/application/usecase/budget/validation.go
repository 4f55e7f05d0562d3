// Package budget contains budget-related use cases.
package budget

import (
	"regexp"

	"github.com/shopspring/decimal"

	domainerror "github.com/finance-tracker/budget-api/internal/domain/error"
)

var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func isValidHexColor(color string) bool {
	return hexColorRegex.MatchString(color)
}

func validateColor(color string) error {
	if !isValidHexColor(color) {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidBudgetColor,
			"color must be a valid hex format (#RGB or #RRGGBB)",
			domainerror.ErrInvalidBudgetColor,
		)
	}
	return nil
}

// validateThreshold accepts percentages in 1..100.
func validateThreshold(threshold int) error {
	if threshold < 1 || threshold > 100 {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidAlertThreshold,
			"alertThreshold must be between 1 and 100",
			domainerror.ErrInvalidAlertThreshold,
		)
	}
	return nil
}

func invalidLimitError(message string) error {
	return domainerror.NewBudgetError(
		domainerror.ErrCodeInvalidBudgetLimit,
		message,
		domainerror.ErrInvalidBudgetLimit,
	)
}

func validateNewLimit(limit decimal.Decimal) error {
	if !limit.IsPositive() {
		return invalidLimitError("limit must be greater than zero")
	}
	return nil
}

func validateUpdatedLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return invalidLimitError("limit must not be negative")
	}
	return nil
}

func notFoundError() error {
	return domainerror.NewBudgetError(
		domainerror.ErrCodeBudgetNotFound,
		"Budget not found",
		domainerror.ErrBudgetNotFound,
	)
}
