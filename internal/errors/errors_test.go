package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name        string
		err         *AppError
		wantType    ErrorType
		wantCode    string
		wantMessage string
		wantContext map[string]interface{}
	}{
		{
			name:        "validation",
			err:         NewValidationError("title is required", cause),
			wantType:    ErrorTypeValidation,
			wantCode:    "VALIDATION_FAILED",
			wantMessage: "title is required",
		},
		{
			name:        "not found",
			err:         NewNotFoundError("todo", "abc"),
			wantType:    ErrorTypeNotFound,
			wantCode:    "NOT_FOUND",
			wantMessage: "todo not found: abc",
			wantContext: map[string]interface{}{"resource": "todo", "identifier": "abc"},
		},
		{
			name:        "database",
			err:         NewDatabaseError("insert todo", cause),
			wantType:    ErrorTypeDatabase,
			wantCode:    "DATABASE_ERROR",
			wantMessage: "database operation failed: insert todo",
			wantContext: map[string]interface{}{"operation": "insert todo"},
		},
		{
			name:        "invalid input",
			err:         NewInvalidInputError("priority", "urgent", "unknown priority"),
			wantType:    ErrorTypeInvalidInput,
			wantCode:    "INVALID_INPUT",
			wantMessage: "invalid input for priority: unknown priority",
			wantContext: map[string]interface{}{"field": "priority", "value": "urgent"},
		},
		{
			name:        "timeout",
			err:         NewTimeoutError("list todos", "5s"),
			wantType:    ErrorTypeTimeout,
			wantCode:    "TIMEOUT",
			wantMessage: "operation timed out: list todos",
		},
		{
			name:        "remote unavailable with status",
			err:         NewRemoteUnavailableError("create todo", http.StatusInternalServerError, nil),
			wantType:    ErrorTypeRemoteUnavailable,
			wantCode:    "REMOTE_UNAVAILABLE",
			wantMessage: "remote store unavailable: create todo (status 500)",
			wantContext: map[string]interface{}{"status": http.StatusInternalServerError},
		},
		{
			name:        "remote unavailable without status",
			err:         NewRemoteUnavailableError("list todos", 0, cause),
			wantType:    ErrorTypeRemoteUnavailable,
			wantCode:    "REMOTE_UNAVAILABLE",
			wantMessage: "remote store unavailable: list todos",
		},
		{
			name:        "local cache",
			err:         NewLocalCacheError("write snapshot", cause),
			wantType:    ErrorTypeLocalCache,
			wantCode:    "LOCAL_CACHE_ERROR",
			wantMessage: "local cache failure: write snapshot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantMessage, tt.err.Message)
			for key, want := range tt.wantContext {
				got, ok := tt.err.GetContext(key)
				require.True(t, ok, "missing context key %s", key)
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	cause := errors.New("original error")
	err := WrapError(cause, ErrorTypeDatabase, "wrapped message")

	assert.Equal(t, ErrorTypeDatabase, err.Type)
	assert.Equal(t, "wrapped message", err.Message)
	assert.Equal(t, "database", err.Code)
	assert.Same(t, cause, err.Cause)
	assert.ErrorIs(t, err, cause)
}

func TestAsAppError_ThroughWrapping(t *testing.T) {
	inner := NewNotFoundError("todo", "x")
	wrapped := fmt.Errorf("update todo: %w", inner)

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Same(t, inner, appErr)
	assert.True(t, IsAppError(wrapped))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsAppError(errors.New("plain")))
	assert.False(t, IsAppError(nil))

	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(NewValidationError("bad", nil)))
	assert.True(t, IsValidation(NewInvalidInputError("f", 1, "bad")))
	assert.False(t, IsValidation(NewNotFoundError("todo", "1")))
	assert.False(t, IsValidation(errors.New("plain")))
}

type friendlyErr struct{}

func (friendlyErr) Error() string                  { return "raw" }
func (friendlyErr) GetUserFriendlyMessage() string { return "- title is required" }

func TestGetUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"validation without cause", NewValidationError("title is required", nil), "title is required"},
		{"validation with cause", NewValidationError("invalid todo", errors.New("title is required")), "invalid todo: title is required"},
		{"nested validation", NewValidationError("todo 3", NewValidationError("Title and ID are required", nil)), "todo 3: Title and ID are required"},
		{"friendly cause", NewValidationError("invalid todo", friendlyErr{}), "invalid todo: - title is required"},
		{"not found", NewNotFoundError("todo", "42"), "todo not found: 42"},
		{"invalid input", NewInvalidInputError("due", "x", "expected YYYY-MM-DD"), "invalid input for due: expected YYYY-MM-DD"},
		{"database", NewDatabaseError("query", errors.New("disk")), "A database error occurred. Please try again."},
		{"timeout", NewTimeoutError("query", "5s"), "The operation timed out after 5s. Please try again."},
		{"timeout without duration", &AppError{Type: ErrorTypeTimeout, Message: "slow"}, "The operation timed out. Please try again."},
		{"remote", NewRemoteUnavailableError("list todos", 0, nil), "The todo server is unreachable."},
		{"cache", NewLocalCacheError("read", nil), "The local cache could not be used."},
		{"plain", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetUserMessage(tt.err))
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", GetErrorCode(NewNotFoundError("todo", "1")))
	assert.Equal(t, "UNKNOWN_ERROR", GetErrorCode(errors.New("plain")))
}

func TestShouldLogError(t *testing.T) {
	assert.False(t, ShouldLogError(NewValidationError("bad", nil)))
	assert.False(t, ShouldLogError(NewNotFoundError("todo", "1")))
	assert.False(t, ShouldLogError(NewInvalidInputError("f", nil, "bad")))
	assert.True(t, ShouldLogError(NewDatabaseError("q", nil)))
	assert.True(t, ShouldLogError(NewRemoteUnavailableError("q", 0, nil)))
	assert.True(t, ShouldLogError(NewLocalCacheError("q", nil)))
	assert.True(t, ShouldLogError(errors.New("plain")))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NewValidationError("bad", nil), http.StatusBadRequest},
		{NewInvalidInputError("f", nil, "bad"), http.StatusBadRequest},
		{NewNotFoundError("todo", "1"), http.StatusNotFound},
		{NewTimeoutError("q", "1s"), http.StatusGatewayTimeout},
		{NewRemoteUnavailableError("q", 0, nil), http.StatusBadGateway},
		{NewDatabaseError("q", nil), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), "%v", tt.err)
	}
}
