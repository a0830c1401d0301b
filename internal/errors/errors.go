// Package errors provides structured error types for the Stellwerk identity
// core. All errors include a category, code, message, and retryable flag so
// that the service layers can classify outcomes consistently: credential and
// auth failures collapse to a single unauthorized result externally while
// staying distinguishable for logging and telemetry.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors by subsystem.
type ErrorCategory string

const (
	// ErrCategoryIdentifier covers snowflake range and timestamp domain
	// faults. These indicate a deployment or clock problem, never bad input.
	ErrCategoryIdentifier ErrorCategory = "IDENTIFIER"

	// ErrCategoryCredential covers malformed presented credentials. Always a
	// client-input fault.
	ErrCategoryCredential ErrorCategory = "CREDENTIAL"

	// ErrCategoryAuth covers validation rejections of well-formed
	// credentials: unknown hash, identity mismatch, expiry.
	ErrCategoryAuth ErrorCategory = "AUTH"

	// ErrCategoryStore covers persistence failures in the authentication
	// record store.
	ErrCategoryStore ErrorCategory = "STORE"

	// ErrCategoryInternal covers unexpected server faults, including hash
	// algorithm failures.
	ErrCategoryInternal ErrorCategory = "INTERNAL"
)

// Error codes for each category.
const (
	// Identifier codes
	CodePartOutOfRange    = "PART_OUT_OF_RANGE"
	CodeTimeBeforeEpoch   = "TIME_BEFORE_EPOCH"
	CodeTimestampTooLarge = "TIMESTAMP_TOO_LARGE"

	// Credential codes
	CodeMalformedToken = "MALFORMED_TOKEN"

	// Auth codes
	CodeTokenNotFound = "TOKEN_NOT_FOUND"
	CodeUserMismatch  = "USER_MISMATCH"
	CodeTokenExpired  = "TOKEN_EXPIRED"

	// Store codes
	CodeQueryFailed     = "QUERY_FAILED"
	CodeDuplicateRecord = "DUPLICATE_RECORD"

	// Internal codes
	CodeHashFailed = "HASH_FAILED"
	CodeUnexpected = "UNEXPECTED"
)

// StellwerkError is the structured error type used by the service layers.
type StellwerkError struct {
	Category  ErrorCategory
	Code      string
	Message   string
	Cause     error
	Retryable bool
}

// Error returns a formatted error string.
func (e *StellwerkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *StellwerkError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches this error's category and code.
func (e *StellwerkError) Is(target error) bool {
	var t *StellwerkError
	if errors.As(target, &t) {
		return e.Category == t.Category && e.Code == t.Code
	}
	return false
}

// New creates a new StellwerkError.
func New(category ErrorCategory, code, message string) *StellwerkError {
	return &StellwerkError{
		Category:  category,
		Code:      code,
		Message:   message,
		Retryable: isRetryable(category, code),
	}
}

// Wrap creates a new StellwerkError wrapping an existing error.
func Wrap(category ErrorCategory, code, message string, cause error) *StellwerkError {
	return &StellwerkError{
		Category:  category,
		Code:      code,
		Message:   message,
		Cause:     cause,
		Retryable: isRetryable(category, code),
	}
}

// IsRetryable checks whether an error (or its chain) is retryable.
func IsRetryable(err error) bool {
	var se *StellwerkError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return false
}

// IsUnauthorized reports whether an error should be collapsed to the single
// externally observable unauthorized outcome. Credential decode failures and
// auth rejections both qualify; store and internal faults do not, since they
// are server errors rather than a judgment on the presented credential.
func IsUnauthorized(err error) bool {
	cat := GetCategory(err)
	return cat == ErrCategoryCredential || cat == ErrCategoryAuth
}

// GetCategory extracts the error category from an error chain.
// Returns empty string if the error is not a StellwerkError.
func GetCategory(err error) ErrorCategory {
	var se *StellwerkError
	if errors.As(err, &se) {
		return se.Category
	}
	return ""
}

// GetCode extracts the error code from an error chain.
// Returns empty string if the error is not a StellwerkError.
func GetCode(err error) string {
	var se *StellwerkError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// isRetryable determines if an error code is retryable. Malformed or
// rejected credentials are never retryable: re-presenting the same input
// cannot succeed.
func isRetryable(category ErrorCategory, code string) bool {
	return category == ErrCategoryStore && code == CodeQueryFailed
}

// Convenience constructors for common errors.

func NewCredentialError(message string, cause error) *StellwerkError {
	return Wrap(ErrCategoryCredential, CodeMalformedToken, message, cause)
}

func NewAuthError(code, message string) *StellwerkError {
	return New(ErrCategoryAuth, code, message)
}

func NewStoreError(code, message string, cause error) *StellwerkError {
	return Wrap(ErrCategoryStore, code, message, cause)
}

func NewInternalError(message string, cause error) *StellwerkError {
	return Wrap(ErrCategoryInternal, CodeUnexpected, message, cause)
}

func NewHashError(message string, cause error) *StellwerkError {
	return Wrap(ErrCategoryInternal, CodeHashFailed, message, cause)
}
