package error

import "errors"

// Plan domain errors.
var (
	// ErrInsufficientBudget signals that the budget cannot cover every required payment.
	// It is informational: allocation still runs best-effort.
	ErrInsufficientBudget = errors.New("insufficient budget")

	// ErrInvalidFundingStyle is returned for an unknown funding style.
	ErrInvalidFundingStyle = errors.New("invalid funding style")

	// ErrInvalidBudget is returned when income or expenses are negative.
	ErrInvalidBudget = errors.New("invalid budget")
)

// PlanErrorCode defines error codes for plan errors.
// Format: PLN-XXYYYY where XX is category and YYYY is specific error.
type PlanErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidFundingStyle PlanErrorCode = "PLN-010001"
	ErrCodeInvalidBudget       PlanErrorCode = "PLN-010002"
	ErrCodeMissingPlanFields   PlanErrorCode = "PLN-010003"

	// Informational (02XXXX)
	ErrCodeInsufficientBudget PlanErrorCode = "PLN-020001"
)

// PlanError represents a plan error with code and message.
type PlanError struct {
	Code    PlanErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *PlanError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *PlanError) Unwrap() error {
	return e.Err
}

// NewPlanError creates a new PlanError with the given code and message.
func NewPlanError(code PlanErrorCode, message string, err error) *PlanError {
	return &PlanError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
