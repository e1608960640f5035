// internal/core/errors.go
package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Wrapf creates a new error with the same code and a formatted cause.
func Wrapf(base *Error, format string, args ...any) *Error {
	return WrapError(base, fmt.Errorf(format, args...))
}

// Predefined errors
var (
	// Condition errors
	ErrMissingColumn      = &Error{Code: "MISSING_COLUMN", Message: "condition references a column absent from the table"}
	ErrMalformedCondition = &Error{Code: "MALFORMED_CONDITION", Message: "structurally invalid condition tree"}
	ErrConditionSyntax    = &Error{Code: "CONDITION_SYNTAX", Message: "condition expression cannot be parsed"}

	// Backtest errors
	ErrInvalidInput      = &Error{Code: "INVALID_INPUT", Message: "backtest input is invalid"}
	ErrSignalComputation = &Error{Code: "SIGNAL_COMPUTATION_FAILED", Message: "condition evaluation failed"}

	// Data errors
	ErrNoData         = &Error{Code: "NO_DATA", Message: "no data available"}
	ErrProviderFailed = &Error{Code: "PROVIDER_FAILED", Message: "data provider failed"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
)
