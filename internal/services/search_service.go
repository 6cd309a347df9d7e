package services

import (
	"context"
	"sort"
	"strings"

	"todo-manager/internal/domain"
)

// searchServiceImpl implements the SearchService interface
type searchServiceImpl struct {
	todoService TodoService
}

// NewSearchService creates a new SearchService instance
func NewSearchService(todoService TodoService) SearchService {
	return &searchServiceImpl{todoService: todoService}
}

// matchesTextFilter checks if a todo's title or description contains the text filter
func (s *searchServiceImpl) matchesTextFilter(task domain.Task, textFilter string) bool {
	if textFilter == "" {
		return true
	}
	needle := strings.ToLower(textFilter)
	return strings.Contains(strings.ToLower(task.Title), needle) ||
		strings.Contains(strings.ToLower(task.Description), needle)
}

// SearchTodos lists todos matching criteria
func (s *searchServiceImpl) SearchTodos(ctx context.Context, criteria SearchCriteria) ([]domain.Task, error) {
	all, err := s.todoService.ListTodos(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.Task, 0, len(all))
	for _, task := range domain.Filter(all, criteria.Filters) {
		if s.matchesTextFilter(task, strings.TrimSpace(criteria.TextFilter)) {
			matched = append(matched, task)
		}
	}
	return s.SortTodos(matched, criteria.Order), nil
}

// SortTodos orders todos in place and returns them. The sort is stable, so
// ties keep the repository order.
func (s *searchServiceImpl) SortTodos(tasks []domain.Task, order SortOrder) []domain.Task {
	var less func(a, b domain.Task) bool
	switch order {
	case SortByOldestFirst:
		less = func(a, b domain.Task) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortByTitle:
		less = func(a, b domain.Task) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	case SortByDueDate:
		less = func(a, b domain.Task) bool {
			switch {
			case a.DueDate == nil:
				return false
			case b.DueDate == nil:
				return true
			}
			return a.DueDate.Before(*b.DueDate)
		}
	case SortByPriority:
		less = func(a, b domain.Task) bool { return priorityRank(a.Priority) < priorityRank(b.Priority) }
	default:
		less = func(a, b domain.Task) bool { return a.CreatedAt.After(b.CreatedAt) }
	}

	sort.SliceStable(tasks, func(i, j int) bool { return less(tasks[i], tasks[j]) })
	return tasks
}

func priorityRank(p domain.Priority) int {
	for i, candidate := range domain.Priorities {
		if candidate == p {
			return i
		}
	}
	return len(domain.Priorities)
}
