package services

import (
	"context"

	"todo-manager/internal/domain"
)

// SearchCriteria narrows a todo listing
type SearchCriteria struct {
	Filters    domain.Filters `json:"filters"`
	TextFilter string         `json:"text_filter,omitempty"` // case-insensitive match on title or description
	Order      SortOrder      `json:"order,omitempty"`
}

// SortOrder defines how todo results should be sorted
type SortOrder string

const (
	SortByNewestFirst SortOrder = "newest"   // Most recently created (default)
	SortByOldestFirst SortOrder = "oldest"   // Least recently created
	SortByTitle       SortOrder = "title"    // Alphabetical by title
	SortByDueDate     SortOrder = "due"      // Soonest due first, undated last
	SortByPriority    SortOrder = "priority" // High, medium, low
)

// ParseSortOrder parses a sort order name; empty selects SortByNewestFirst
func ParseSortOrder(s string) (SortOrder, bool) {
	switch o := SortOrder(s); o {
	case "":
		return SortByNewestFirst, true
	case SortByNewestFirst, SortByOldestFirst, SortByTitle, SortByDueDate, SortByPriority:
		return o, true
	}
	return "", false
}

// TodoService handles todo persistence on the server side
type TodoService interface {
	// Todo CRUD operations
	ListTodos(ctx context.Context) ([]domain.Task, error)
	GetTodo(ctx context.Context, id string) (*domain.Task, error)
	CreateTodo(ctx context.Context, task domain.Task) (*domain.Task, error)
	UpdateTodo(ctx context.Context, id string, patch domain.Patch) (*domain.Task, error)
	DeleteTodo(ctx context.Context, id string) error

	// Bulk operations
	BulkUpsert(ctx context.Context, tasks []domain.Task) (int, error)
	ReplaceAll(ctx context.Context, tasks []domain.Task) (int, error)
}

// SearchService handles filtered and sorted listings
type SearchService interface {
	SearchTodos(ctx context.Context, criteria SearchCriteria) ([]domain.Task, error)
	SortTodos(tasks []domain.Task, order SortOrder) []domain.Task
}

// ReportingService handles summary views
type ReportingService interface {
	GetStats(ctx context.Context, today domain.Date) (domain.Stats, error)
	GetGroups(ctx context.Context) ([]string, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TodoService      TodoService
	SearchService    SearchService
	ReportingService ReportingService
}
