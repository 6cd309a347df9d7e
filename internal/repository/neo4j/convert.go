package neo4j

import (
	"fmt"
	"time"

	"todo-manager/internal/repository"
)

// timestampLayout matches the sqlite backend so created_at orders the same way.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// todoToProps converts a todo into node properties. Absent optional values are
// omitted, so the node carries no property for them.
func todoToProps(todo *repository.Todo, now time.Time) map[string]any {
	createdAt := todo.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	props := map[string]any{
		"id":         todo.ID,
		"title":      todo.Title,
		"priority":   orDefault(todo.Priority, "medium"),
		"group_name": orDefault(todo.GroupName, "personal"),
		"status":     orDefault(todo.Status, "pending"),
		"created_at": formatTime(createdAt),
	}
	if todo.Description != "" {
		props["description"] = todo.Description
	}
	if todo.DueDate != nil && *todo.DueDate != "" {
		props["due_date"] = *todo.DueDate
	}
	if todo.CompletedAt != nil {
		props["completed_at"] = formatTime(*todo.CompletedAt)
	}
	return props
}

// updateToProps converts an update into a SET += map. A nil value removes the
// property.
func updateToProps(u repository.TodoUpdate) map[string]any {
	props := make(map[string]any)
	if u.Title != nil {
		props["title"] = *u.Title
	}
	if u.Description != nil {
		if *u.Description == "" {
			props["description"] = nil
		} else {
			props["description"] = *u.Description
		}
	}
	if u.Priority != nil {
		props["priority"] = *u.Priority
	}
	if u.GroupName != nil {
		props["group_name"] = *u.GroupName
	}
	if u.Status != nil {
		props["status"] = *u.Status
	}
	if u.DueDate.Set {
		if u.DueDate.Value == nil || *u.DueDate.Value == "" {
			props["due_date"] = nil
		} else {
			props["due_date"] = *u.DueDate.Value
		}
	}
	if u.CompletedAt.Set {
		if u.CompletedAt.Value == nil {
			props["completed_at"] = nil
		} else {
			props["completed_at"] = formatTime(*u.CompletedAt.Value)
		}
	}
	return props
}

// recordToTodo reads the columns returned by returnTodo.
func recordToTodo(m map[string]any) (*repository.Todo, error) {
	todo := &repository.Todo{
		ID:          str(m["id"]),
		Title:       str(m["title"]),
		Description: str(m["description"]),
		Priority:    orDefault(str(m["priority"]), "medium"),
		GroupName:   orDefault(str(m["group_name"]), "personal"),
		Status:      orDefault(str(m["status"]), "pending"),
	}
	if due := str(m["due_date"]); due != "" {
		todo.DueDate = &due
	}
	if created := str(m["created_at"]); created != "" {
		t, err := parseTime(created)
		if err != nil {
			return nil, fmt.Errorf("todo %s: created_at: %w", todo.ID, err)
		}
		todo.CreatedAt = t
	}
	if completed := str(m["completed_at"]); completed != "" {
		t, err := parseTime(completed)
		if err != nil {
			return nil, fmt.Errorf("todo %s: completed_at: %w", todo.ID, err)
		}
		todo.CompletedAt = &t
	}
	return todo, nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
