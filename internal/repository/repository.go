// Package repository defines the storage contract shared by the todo backends.
package repository

import (
	"context"
	"time"
)

// Todo is a row of the todos table.
type Todo struct {
	ID          string
	Title       string
	Description string
	Priority    string
	GroupName   string
	Status      string
	DueDate     *string // YYYY-MM-DD
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Field is an update slot that may carry NULL. Set=false leaves the column alone.
type Field[T any] struct {
	Set   bool
	Value *T
}

// TodoUpdate lists the columns to change. Nil pointers are left unchanged.
type TodoUpdate struct {
	Title       *string
	Description *string
	Priority    *string
	GroupName   *string
	Status      *string
	DueDate     Field[string]
	CompletedAt Field[time.Time]
}

// IsEmpty reports whether the update changes nothing.
func (u TodoUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Priority == nil &&
		u.GroupName == nil && u.Status == nil && !u.DueDate.Set && !u.CompletedAt.Set
}

// Repository defines the interface for todo storage operations
type Repository interface {
	// Read operations
	ListTodos(ctx context.Context) ([]*Todo, error)
	GetTodo(ctx context.Context, id string) (*Todo, error)

	// Write operations
	CreateTodo(ctx context.Context, todo *Todo) error
	UpdateTodo(ctx context.Context, id string, update TodoUpdate) error
	DeleteTodo(ctx context.Context, id string) error

	// Bulk operations
	UpsertTodos(ctx context.Context, todos []*Todo) (int, error)
	ReplaceTodos(ctx context.Context, todos []*Todo) (int, error)

	// Utility
	Close() error
}
