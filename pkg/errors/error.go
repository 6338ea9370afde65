// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid parameters, malformed series, type mismatches
//   - Data/Resource errors (200-299): Missing data, query failures, unavailable resources
//   - Indicator and feature errors (300-399): Indicator lookup, alignment, numeric degeneracy
//   - Training errors (400-499): Insufficient samples, model fitting and model format errors
//   - Persistence and reporting errors (600-699): Store and sink failures
//   - Market data errors (700-799): Market data fetching and parsing errors
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeInvalidParameter, "invalid parameter value")
//
//	// Create a formatted error
//	err := errors.Newf(errors.ErrCodeMissingData, "no bars for symbol %s", symbol)
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeQueryFailed, "failed to execute query", originalErr)
//
//	// Check error code anywhere in the chain
//	if errors.HasCode(err, errors.ErrCodeMissingData) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join is a convenience wrapper around the standard errors.Join function.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// coded is implemented by every error type of this package.
type coded interface {
	ErrorCode() ErrorCode
}

// ErrorCode returns the error code.
func (e *Error) ErrorCode() ErrorCode {
	return e.Code
}

// GetCode extracts the outermost ErrorCode from err's chain.
// Returns ErrCodeUnknown if no error in the chain carries a code.
func GetCode(err error) ErrorCode {
	var c coded
	if errors.As(err, &c) {
		return c.ErrorCode()
	}

	return ErrCodeUnknown
}

// HasCode reports whether any error in err's chain carries the given ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		if c, ok := err.(coded); ok && c.ErrorCode() == code {
			return true
		}

		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, inner := range joined.Unwrap() {
				if HasCode(inner, code) {
					return true
				}
			}

			return false
		}

		err = errors.Unwrap(err)
	}

	return false
}

// InsufficientDataError represents an error when there is not enough data
// for a calculation (e.g., indicator windows or a training sample threshold).
type InsufficientDataError struct {
	Code     ErrorCode // ErrCodeInsufficientData or ErrCodeInsufficientSamples
	Required int       // Minimum data points required
	Actual   int       // Actual data points available
	Symbol   string    // Optional: symbol context
	Message  string    // Human-readable message
}

// NewInsufficientDataErrorf reports that a series is too short for a
// computation such as an indicator window.
func NewInsufficientDataErrorf(required, actual int, symbol, format string, args ...any) *InsufficientDataError {
	return &InsufficientDataError{
		Code:     ErrCodeInsufficientData,
		Required: required,
		Actual:   actual,
		Symbol:   symbol,
		Message:  fmt.Sprintf(format, args...),
	}
}

// NewInsufficientSamplesError reports that fewer usable training rows than
// required survived feature assembly.
func NewInsufficientSamplesError(required, actual int, symbol string) *InsufficientDataError {
	return &InsufficientDataError{
		Code:     ErrCodeInsufficientSamples,
		Required: required,
		Actual:   actual,
		Symbol:   symbol,
		Message:  fmt.Sprintf("insufficient data for %s: %d usable rows, need at least %d", symbol, actual, required),
	}
}

// Error implements the error interface.
func (e *InsufficientDataError) Error() string {
	return e.Message
}

// ErrorCode returns the error code.
func (e *InsufficientDataError) ErrorCode() ErrorCode {
	if e.Code == 0 {
		return ErrCodeInsufficientData
	}

	return e.Code
}

// IsInsufficientDataError checks if an error is an InsufficientDataError.
// It uses errors.As to check the error chain.
func IsInsufficientDataError(err error) bool {
	var insufficientErr *InsufficientDataError

	return errors.As(err, &insufficientErr)
}

// IsMissingData reports whether err means an instrument has no usable series.
func IsMissingData(err error) bool {
	return HasCode(err, ErrCodeMissingData)
}

// IsAlignment reports whether err is a feature/target alignment failure.
func IsAlignment(err error) bool {
	return HasCode(err, ErrCodeAlignment)
}

// IsInsufficientSamples reports whether err means too few training rows.
func IsInsufficientSamples(err error) bool {
	return HasCode(err, ErrCodeInsufficientSamples)
}

// IsNumericDegeneracy reports whether err is a non-fatal degeneracy warning.
func IsNumericDegeneracy(err error) bool {
	return HasCode(err, ErrCodeNumericDegeneracy)
}
