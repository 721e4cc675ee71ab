// Package error defines domain-specific errors for the Goal Planner application.
package error

import "errors"

// Goal domain errors.
var (
	// ErrGoalNotFound is returned when a goal is not found in the system.
	ErrGoalNotFound = errors.New("goal not found")

	// ErrInvalidGoalDefinition is returned when a goal has a bad shape (non-positive amount,
	// unknown profile, payment period shorter than a year, ...).
	ErrInvalidGoalDefinition = errors.New("invalid goal definition")

	// ErrInvalidHorizon is returned when a goal has no accumulation months to solve against.
	ErrInvalidHorizon = errors.New("invalid horizon")

	// ErrUnauthorizedGoalAccess is returned when user is not authorized to access a goal.
	ErrUnauthorizedGoalAccess = errors.New("unauthorized access to goal")
)

// GoalErrorCode defines error codes for goal errors.
// Format: GOL-XXYYYY where XX is category and YYYY is specific error.
type GoalErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeGoalNotFound           GoalErrorCode = "GOL-010001"
	ErrCodeInvalidGoalAmount      GoalErrorCode = "GOL-010002"
	ErrCodeInvalidGoalCategory    GoalErrorCode = "GOL-010003"
	ErrCodeInvalidRiskProfile     GoalErrorCode = "GOL-010004"
	ErrCodeInvalidPaymentPeriod   GoalErrorCode = "GOL-010005"
	ErrCodeUnauthorizedGoalAccess GoalErrorCode = "GOL-010006"
	ErrCodeInvalidFrequency       GoalErrorCode = "GOL-010007"
	ErrCodeMissingGoalFields      GoalErrorCode = "GOL-010008"
	ErrCodeInvalidCustomRates     GoalErrorCode = "GOL-010009"
	ErrCodeInvalidTargetDate      GoalErrorCode = "GOL-010010"

	// Calculation errors (02XXXX)
	ErrCodeInvalidHorizon GoalErrorCode = "GOL-020001"
)

// GoalError represents a goal error with code and message.
type GoalError struct {
	Code    GoalErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *GoalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *GoalError) Unwrap() error {
	return e.Err
}

// NewGoalError creates a new GoalError with the given code and message.
func NewGoalError(code GoalErrorCode, message string, err error) *GoalError {
	return &GoalError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewInvalidGoalError wraps ErrInvalidGoalDefinition with the given code.
func NewInvalidGoalError(code GoalErrorCode, message string) *GoalError {
	return NewGoalError(code, message, ErrInvalidGoalDefinition)
}
