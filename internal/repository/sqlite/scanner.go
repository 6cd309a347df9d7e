package sqlite

import (
	"database/sql"
	"fmt"

	"todo-manager/internal/repository"
)

// todoColumns is the column list every todo query selects, in scan order.
const todoColumns = `id, title, description, priority, group_name, status, due_date, created_at, completed_at`

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanTodo scans a single todo from a database row
func ScanTodo(scanner Scanner) (*repository.Todo, error) {
	todo := &repository.Todo{}
	var (
		description sql.NullString
		priority    sql.NullString
		groupName   sql.NullString
		status      sql.NullString
		dueDate     sql.NullString
		createdAt   sql.NullString
		completedAt sql.NullString
	)

	err := scanner.Scan(
		&todo.ID,
		&todo.Title,
		&description,
		&priority,
		&groupName,
		&status,
		&dueDate,
		&createdAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	todo.Description = description.String
	todo.Priority = StringOrDefault(priority, "medium")
	todo.GroupName = StringOrDefault(groupName, "personal")
	todo.Status = StringOrDefault(status, "pending")
	if dueDate.Valid && dueDate.String != "" {
		d := dueDate.String
		todo.DueDate = &d
	}
	if createdAt.Valid && createdAt.String != "" {
		t, err := ParseTimeFromDB(createdAt.String)
		if err != nil {
			return nil, fmt.Errorf("todo %s: created_at: %w", todo.ID, err)
		}
		todo.CreatedAt = t
	}
	if completedAt.Valid && completedAt.String != "" {
		t, err := ParseTimeFromDB(completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("todo %s: completed_at: %w", todo.ID, err)
		}
		todo.CompletedAt = &t
	}

	return todo, nil
}

// ScanTodos scans multiple todos from database rows
func ScanTodos(rows Rows) ([]*repository.Todo, error) {
	todos := make([]*repository.Todo, 0)
	for rows.Next() {
		todo, err := ScanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return todos, nil
}
