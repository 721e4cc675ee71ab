package error

import "errors"

// Progress domain errors.
var (
	// ErrReconciliationConflict marks two entries competing for the same goal and month.
	// It is resolved by recomputing from history, never by dropping an entry silently.
	ErrReconciliationConflict = errors.New("reconciliation conflict")

	// ErrInvalidProgressAmount is returned when a reported amount is negative.
	ErrInvalidProgressAmount = errors.New("invalid progress amount")

	// ErrInvalidMonthYear is returned when the month cannot be parsed.
	ErrInvalidMonthYear = errors.New("invalid month")
)

// ProgressErrorCode defines error codes for progress errors.
// Format: PRG-XXYYYY where XX is category and YYYY is specific error.
type ProgressErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidProgressAmount ProgressErrorCode = "PRG-010001"
	ErrCodeInvalidMonthYear      ProgressErrorCode = "PRG-010002"
	ErrCodeMissingProgressFields ProgressErrorCode = "PRG-010003"

	// Reconciliation errors (02XXXX)
	ErrCodeReconciliationConflict ProgressErrorCode = "PRG-020001"
)

// ProgressError represents a progress error with code and message.
type ProgressError struct {
	Code    ProgressErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ProgressError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ProgressError) Unwrap() error {
	return e.Err
}

// NewProgressError creates a new ProgressError with the given code and message.
func NewProgressError(code ProgressErrorCode, message string, err error) *ProgressError {
	return &ProgressError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
