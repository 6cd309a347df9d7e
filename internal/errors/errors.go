package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    "VALIDATION_FAILED",
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, identifier string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Code:    "NOT_FOUND",
		Context: map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// NewDatabaseError creates a new database error
func NewDatabaseError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeDatabase,
		Message: fmt.Sprintf("database operation failed: %s", operation),
		Code:    "DATABASE_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(field string, value interface{}, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInput,
		Message: fmt.Sprintf("invalid input for %s: %s", field, reason),
		Code:    "INVALID_INPUT",
		Context: map[string]interface{}{
			"field":  field,
			"value":  value,
			"reason": reason,
		},
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(operation string, timeout interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeTimeout,
		Message: fmt.Sprintf("operation timed out: %s", operation),
		Code:    "TIMEOUT",
		Context: map[string]interface{}{
			"operation": operation,
			"timeout":   timeout,
		},
	}
}

// NewRemoteUnavailableError reports a transport failure or a non-success
// response from the remote todo store.
func NewRemoteUnavailableError(operation string, status int, cause error) *AppError {
	msg := fmt.Sprintf("remote store unavailable: %s", operation)
	if status > 0 {
		msg = fmt.Sprintf("remote store unavailable: %s (status %d)", operation, status)
	}
	return &AppError{
		Type:    ErrorTypeRemoteUnavailable,
		Message: msg,
		Code:    "REMOTE_UNAVAILABLE",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
			"status":    status,
		},
	}
}

// NewLocalCacheError creates a new local cache error
func NewLocalCacheError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeLocalCache,
		Message: fmt.Sprintf("local cache failure: %s", operation),
		Code:    "LOCAL_CACHE_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// WrapError wraps an existing error with additional context
func WrapError(err error, errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Code:    errorType.String(),
		Cause:   err,
		Context: make(map[string]interface{}),
	}
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

// IsNotFound reports whether err is a not found error
func IsNotFound(err error) bool {
	return IsErrorType(err, ErrorTypeNotFound)
}

// IsValidation reports whether err is a validation or invalid input error
func IsValidation(err error) bool {
	return IsErrorType(err, ErrorTypeValidation) || IsErrorType(err, ErrorTypeInvalidInput)
}

// GetUserMessage returns a user-friendly error message
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation:
			if appErr.Cause != nil {
				return fmt.Sprintf("%s: %s", appErr.Message, causeMessage(appErr.Cause))
			}
			return appErr.Message
		case ErrorTypeNotFound:
			return appErr.Message
		case ErrorTypeInvalidInput:
			return appErr.Message
		case ErrorTypeDatabase:
			return "A database error occurred. Please try again."
		case ErrorTypeTimeout:
			if timeout, ok := appErr.GetContext("timeout"); ok && timeout != nil {
				return fmt.Sprintf("The operation timed out after %v. Please try again.", timeout)
			}
			return "The operation timed out. Please try again."
		case ErrorTypeRemoteUnavailable:
			return "The todo server is unreachable."
		case ErrorTypeLocalCache:
			return "The local cache could not be used."
		default:
			return "An unexpected error occurred. Please try again."
		}
	}
	return err.Error()
}

// userFriendly is implemented by validation.ValidationError.
type userFriendly interface {
	GetUserFriendlyMessage() string
}

func causeMessage(cause error) string {
	if _, ok := AsAppError(cause); ok {
		return GetUserMessage(cause)
	}
	var uf userFriendly
	if errors.As(cause, &uf) {
		return uf.GetUserFriendlyMessage()
	}
	return cause.Error()
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError determines if an error should be logged based on its type
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput:
			return false // These are user errors, not system errors
		default:
			return true
		}
	}
	return true // Unknown errors should be logged
}

// HTTPStatus maps an error to the status code the REST API answers with
func HTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeInvalidInput:
			return http.StatusBadRequest
		case ErrorTypeNotFound:
			return http.StatusNotFound
		case ErrorTypeTimeout:
			return http.StatusGatewayTimeout
		case ErrorTypeRemoteUnavailable:
			return http.StatusBadGateway
		}
	}
	return http.StatusInternalServerError
}
