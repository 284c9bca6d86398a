// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies an error for fallback and retry decisions.
type ErrorType string

const (
	// Provider call categories
	ErrorTypeRetryable ErrorType = "retryable"      // rate limit, warm-up, timeout
	ErrorTypeFatal     ErrorType = "fatal_provider" // bad credentials, malformed config
	ErrorTypeParse     ErrorType = "parse_error"    // response did not match the schema

	// General categories
	ErrorTypeValidation  ErrorType = "validation_error"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypePersistence ErrorType = "persistence_error"
	ErrorTypeProcessing  ErrorType = "processing_error"
)

// AppError carries a category alongside the underlying error.
type AppError struct {
	Type     ErrorType
	Message  string
	Err      error
	Provider string // originating provider, when applicable
	Code     string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap supports errors.Is / errors.As chains.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a categorized error.
func NewAppError(errType ErrorType, message string, originalError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     originalError,
		Code:    generateErrorCode(errType),
	}
}

// NewRetryableError marks a transient provider condition worth retrying.
func NewRetryableError(provider, message string, originalError error) *AppError {
	e := NewAppError(ErrorTypeRetryable, message, originalError)
	e.Provider = provider
	return e
}

// NewFatalProviderError marks a provider as unusable for the process run.
func NewFatalProviderError(provider, message string, originalError error) *AppError {
	e := NewAppError(ErrorTypeFatal, message, originalError)
	e.Provider = provider
	return e
}

// NewParseError marks a provider response that failed schema validation.
func NewParseError(provider, message string, originalError error) *AppError {
	e := NewAppError(ErrorTypeParse, message, originalError)
	e.Provider = provider
	return e
}

// NewValidationError creates a request validation error.
func NewValidationError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeValidation, message, originalError)
}

// NewNotFoundError creates a missing-record error.
func NewNotFoundError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeNotFound, message, originalError)
}

// NewPersistenceError wraps a storage failure.
func NewPersistenceError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypePersistence, message, originalError)
}

// NewProcessingError creates a generic processing error.
func NewProcessingError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeProcessing, message, originalError)
}

func isType(err error, t ErrorType) bool {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError.Type == t
	}
	return false
}

// IsRetryable reports whether err is a transient provider condition.
func IsRetryable(err error) bool { return isType(err, ErrorTypeRetryable) }

// IsFatalProvider reports whether err disables a provider for the run.
func IsFatalProvider(err error) bool { return isType(err, ErrorTypeFatal) }

// IsParseError reports whether err is a response-schema failure.
func IsParseError(err error) bool { return isType(err, ErrorTypeParse) }

// IsValidationError reports whether err is a validation failure.
func IsValidationError(err error) bool { return isType(err, ErrorTypeValidation) }

// IsNotFoundError reports whether err is a missing-record failure.
func IsNotFoundError(err error) bool { return isType(err, ErrorTypeNotFound) }

// IsPersistenceError reports whether err is a storage failure.
func IsPersistenceError(err error) bool { return isType(err, ErrorTypePersistence) }

// generateErrorCode maps a type to its user-facing code.
func generateErrorCode(errType ErrorType) string {
	switch errType {
	case ErrorTypeRetryable:
		return "RETRYABLE"
	case ErrorTypeFatal:
		return "FATAL_PROVIDER"
	case ErrorTypeParse:
		return "PARSE_ERROR"
	case ErrorTypeValidation:
		return "VALIDATION_ERROR"
	case ErrorTypeNotFound:
		return "NOT_FOUND"
	case ErrorTypePersistence:
		return "PERSISTENCE_ERROR"
	case ErrorTypeProcessing:
		return "PROCESSING_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}

// WrapError wraps an existing error, preserving an existing category.
func WrapError(err error, message string, errType ErrorType) error {
	if err == nil {
		return nil
	}

	var appError *AppError
	if errors.As(err, &appError) {
		return &AppError{
			Type:     appError.Type,
			Message:  fmt.Sprintf("%s: %s", message, appError.Message),
			Err:      appError,
			Provider: appError.Provider,
			Code:     appError.Code,
		}
	}

	return NewAppError(errType, message, err)
}
