package neo4j

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-manager/internal/repository"
)

func strPtr(s string) *string { return &s }

func TestTodoToProps(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("minimal todo gets defaults", func(t *testing.T) {
		props := todoToProps(&repository.Todo{ID: "a", Title: "x"}, now)

		assert.Equal(t, map[string]any{
			"id":         "a",
			"title":      "x",
			"priority":   "medium",
			"group_name": "personal",
			"status":     "pending",
			"created_at": "2024-06-01T09:00:00.000Z",
		}, props)
	})

	t.Run("optional values are stored", func(t *testing.T) {
		done := now.Add(time.Hour)
		props := todoToProps(&repository.Todo{
			ID: "b", Title: "y", Description: "d", DueDate: strPtr("2024-07-01"),
			CreatedAt: now, CompletedAt: &done,
		}, now)

		assert.Equal(t, "d", props["description"])
		assert.Equal(t, "2024-07-01", props["due_date"])
		assert.Equal(t, "2024-06-01T10:00:00.000Z", props["completed_at"])
	})
}

func TestUpdateToProps(t *testing.T) {
	done := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	props := updateToProps(repository.TodoUpdate{
		Title:       strPtr("New"),
		Description: strPtr(""),
		DueDate:     repository.Field[string]{Set: true},
		CompletedAt: repository.Field[time.Time]{Set: true, Value: &done},
	})

	assert.Equal(t, map[string]any{
		"title":        "New",
		"description":  nil,
		"due_date":     nil,
		"completed_at": "2024-06-01T09:00:00.000Z",
	}, props)

	assert.Empty(t, updateToProps(repository.TodoUpdate{}))
}

func TestRecordToTodo(t *testing.T) {
	todo, err := recordToTodo(map[string]any{
		"id":           "a",
		"title":        "x",
		"description":  nil,
		"priority":     "high",
		"group_name":   nil,
		"status":       "completed",
		"due_date":     "2024-07-01",
		"created_at":   "2024-06-01T09:00:00.000Z",
		"completed_at": "2024-06-01T10:00:00.000Z",
	})
	require.NoError(t, err)

	assert.Equal(t, "", todo.Description)
	assert.Equal(t, "high", todo.Priority)
	assert.Equal(t, "personal", todo.GroupName)
	assert.Equal(t, "2024-07-01", *todo.DueDate)
	assert.Equal(t, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), todo.CreatedAt)
	require.NotNil(t, todo.CompletedAt)

	_, err = recordToTodo(map[string]any{"id": "b", "created_at": "yesterday"})
	assert.Error(t, err)
}

func TestPropsRoundTrip(t *testing.T) {
	created := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	todo := &repository.Todo{
		ID: "r", Title: "Round", Description: "trip", Priority: "low",
		GroupName: "academic", Status: "pending", DueDate: strPtr("2024-08-01"), CreatedAt: created,
	}

	back, err := recordToTodo(todoToProps(todo, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, todo, back)
}
