package error

import "errors"

// Budget domain errors.
var (
	// ErrBudgetNotFound is returned when a budget does not exist or is owned by someone else.
	ErrBudgetNotFound = errors.New("budget not found")

	// ErrInvalidBudgetLimit is returned when a limit is negative, or not positive on create.
	ErrInvalidBudgetLimit = errors.New("invalid budget limit")

	// ErrInvalidAlertThreshold is returned when the alert threshold is outside 1..100.
	ErrInvalidAlertThreshold = errors.New("invalid alert threshold")

	// ErrInvalidBudgetColor is returned when the color is not a hex color.
	ErrInvalidBudgetColor = errors.New("invalid budget color")

	// ErrMissingBudgetFields is returned when required fields are absent.
	ErrMissingBudgetFields = errors.New("missing fields")
)

// BudgetErrorCode defines error codes for budget errors.
// Format: BDG-XXYYYY where XX is category and YYYY is specific error.
type BudgetErrorCode string

const (
	ErrCodeBudgetNotFound        BudgetErrorCode = "BDG-010001"
	ErrCodeInvalidBudgetLimit    BudgetErrorCode = "BDG-010002"
	ErrCodeInvalidAlertThreshold BudgetErrorCode = "BDG-010003"
	ErrCodeInvalidBudgetColor    BudgetErrorCode = "BDG-010004"
	ErrCodeMissingBudgetFields   BudgetErrorCode = "BDG-010005"
)

// BudgetError represents a budget error with code and message.
type BudgetError struct {
	Code    BudgetErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *BudgetError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *BudgetError) Unwrap() error {
	return e.Err
}

// NewBudgetError creates a new BudgetError with the given code and message.
func NewBudgetError(code BudgetErrorCode, message string, err error) *BudgetError {
	return &BudgetError{Code: code, Message: message, Err: err}
}
