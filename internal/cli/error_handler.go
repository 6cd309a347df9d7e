package cli

import (
	stderrors "errors"
	"fmt"

	"todo-manager/internal/errors"
	"todo-manager/internal/validation"
)

// Exit codes returned by the todo binary.
const (
	ExitSuccess   = 0
	ExitFailure   = 1 // server, cache or unexpected failure
	ExitUserError = 2 // bad arguments, invalid input, unknown todo
)

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// userError carries the message shown to the user while keeping the
// original error reachable for errors.As and ExitCode.
type userError struct {
	message string
	err     error
}

func (e *userError) Error() string { return e.message }
func (e *userError) Unwrap() error { return e.err }

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return fmt.Errorf("failed to %s: unknown error", operation)
	}
	return &userError{
		message: fmt.Sprintf("failed to %s: %s", operation, eh.message(err)),
		err:     err,
	}
}

// HandleSimple provides user-friendly error messages without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	if err == nil {
		return nil
	}
	return &userError{message: eh.message(err), err: err}
}

func (eh *ErrorHandler) message(err error) string {
	// Handle AppError types first so their causes are explained too
	if _, ok := errors.AsAppError(err); ok {
		return errors.GetUserMessage(err)
	}
	var validationErr *validation.ValidationError
	if stderrors.As(err, &validationErr) {
		return validationErr.GetUserFriendlyMessage()
	}
	return err.Error()
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsValidation(err)
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsNotFound(err)
}

// IsDatabaseError checks if an error is a database error
func (eh *ErrorHandler) IsDatabaseError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeDatabase)
}

// IsRemoteUnavailableError checks if an error means the todo server could not be used
func (eh *ErrorHandler) IsRemoteUnavailableError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeRemoteUnavailable)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}

// ExitCode maps an error to the process exit status
func (eh *ErrorHandler) ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case eh.IsValidationError(err), eh.IsNotFoundError(err):
		return ExitUserError
	default:
		return ExitFailure
	}
}
