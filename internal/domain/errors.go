package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a machine-readable error code
type ErrorCode string

const (
	// Action errors (ACTION_*)
	ErrorCodeActionNotAllowed ErrorCode = "ACTION_NOT_ALLOWED"
	ErrorCodeNotEligible      ErrorCode = "NOT_ELIGIBLE"

	// Gateway errors (GATEWAY_*)
	ErrorCodeGatewayActionFailed ErrorCode = "GATEWAY_ACTION_FAILED"
	ErrorCodeGatewayError        ErrorCode = "GATEWAY_ERROR"

	// Record errors (RECORD_*)
	ErrorCodeRecordNotFound  ErrorCode = "RECORD_NOT_FOUND"
	ErrorCodeRecordConflict  ErrorCode = "RECORD_CONFLICT"
	ErrorCodeRecordCorrupted ErrorCode = "RECORD_CORRUPTED"

	// Validation errors (VALIDATION_*)
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Internal errors (INTERNAL_*)
	ErrorCodeInternalError ErrorCode = "INTERNAL_ERROR"
	ErrorCodeDatabaseError ErrorCode = "INTERNAL_DATABASE_ERROR"
)

// DomainError represents a structured domain error with error code and context
type DomainError struct {
	Err     error
	Code    ErrorCode
	Action  ActionType
	Message string
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewActionError creates a domain error tied to a specific lifecycle action.
func NewActionError(code ErrorCode, action ActionType, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Action:  action,
		Message: message,
	}
}

// WrapError wraps an existing error with a domain error code
func WrapError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// GetErrorCode extracts the error code from an error, returns empty string if not a DomainError
func GetErrorCode(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// IsDomainError checks if an error is a DomainError with the given code
func IsDomainError(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}

// IsActionNotAllowed reports whether an error means remote processing is
// disabled in configuration.
func IsActionNotAllowed(err error) bool {
	return IsDomainError(err, ErrorCodeActionNotAllowed)
}

// IsGatewayError reports whether an error came from the gateway: either a
// rejected action or a transport failure.
func IsGatewayError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeGatewayActionFailed || code == ErrorCodeGatewayError
}

// Common domain errors
var (
	ErrRecordNotFound  = NewDomainError(ErrorCodeRecordNotFound, "payment record not found")
	ErrRecordConflict  = NewDomainError(ErrorCodeRecordConflict, "payment record already exists for order")
	ErrMissingOrder    = NewDomainError(ErrorCodeValidationFailed, "order is required")
	ErrEmptyReference  = NewDomainError(ErrorCodeNotEligible, "payment record has no transaction reference")
	ErrInvalidCurrency = NewDomainError(ErrorCodeValidationFailed, "invalid currency")
)
