package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"todo-manager/internal/domain"
	"todo-manager/internal/errors"
	"todo-manager/internal/repository"
	"todo-manager/internal/validation"
)

// MsgTitleAndIDRequired is returned when a create request lacks a title or id.
const MsgTitleAndIDRequired = "Title and ID are required"

// todoServiceImpl implements the TodoService interface
type todoServiceImpl struct {
	repo          repository.Repository
	mapper        *domain.Mapper
	taskValidator *validation.TaskValidator
	now           func() time.Time
}

// NewTodoService creates a new TodoService instance. now stamps defaults on
// new todos; nil means time.Now.
func NewTodoService(repo repository.Repository, now func() time.Time) TodoService {
	if now == nil {
		now = time.Now
	}
	return &todoServiceImpl{
		repo:          repo,
		mapper:        domain.NewMapper(),
		taskValidator: validation.NewTaskValidator(),
		now:           now,
	}
}

// NewServiceContainer wires every service around one repository and clock
func NewServiceContainer(repo repository.Repository, now func() time.Time) *ServiceContainer {
	todos := NewTodoService(repo, now)
	return &ServiceContainer{
		TodoService:      todos,
		SearchService:    NewSearchService(todos),
		ReportingService: NewReportingService(todos),
	}
}

// prepare applies defaults and validates a todo for insertion
func (s *todoServiceImpl) prepare(task domain.Task) (domain.Task, error) {
	if strings.TrimSpace(task.Title) == "" || task.ID == "" {
		return task, errors.NewValidationError(MsgTitleAndIDRequired, nil)
	}
	task.ApplyDefaults(s.now())
	task.CreatedAt = domain.NormalizeTime(task.CreatedAt)
	if err := s.taskValidator.ValidateTask(task); err != nil {
		return task, errors.NewValidationError("invalid todo", err)
	}
	return task, nil
}

// ListTodos returns every todo, newest first
func (s *todoServiceImpl) ListTodos(ctx context.Context) ([]domain.Task, error) {
	rows, err := s.repo.ListTodos(ctx)
	if err != nil {
		return nil, err
	}
	return s.mapper.Task.FromRepositorySlice(rows), nil
}

// GetTodo retrieves a todo by its ID
func (s *todoServiceImpl) GetTodo(ctx context.Context, id string) (*domain.Task, error) {
	if err := s.taskValidator.ValidateTaskID(id); err != nil {
		return nil, errors.NewValidationError("invalid todo id", err)
	}

	row, err := s.repo.GetTodo(ctx, id)
	if err != nil {
		return nil, err
	}

	task := s.mapper.Task.FromRepository(*row)
	return &task, nil
}

// CreateTodo inserts a client-identified todo
func (s *todoServiceImpl) CreateTodo(ctx context.Context, task domain.Task) (*domain.Task, error) {
	prepared, err := s.prepare(task)
	if err != nil {
		return nil, err
	}

	row := s.mapper.Task.ToRepository(prepared)
	if err := s.repo.CreateTodo(ctx, &row); err != nil {
		return nil, err
	}
	return &prepared, nil
}

// UpdateTodo merges a patch into a stored todo and returns the result
func (s *todoServiceImpl) UpdateTodo(ctx context.Context, id string, patch domain.Patch) (*domain.Task, error) {
	if err := s.taskValidator.ValidateTaskID(id); err != nil {
		return nil, errors.NewValidationError("invalid todo id", err)
	}
	if err := s.taskValidator.ValidatePatch(patch); err != nil {
		return nil, errors.NewValidationError("invalid todo update", err)
	}

	patch = patch.Normalize()
	if err := s.repo.UpdateTodo(ctx, id, s.mapper.Task.PatchToUpdate(patch)); err != nil {
		return nil, err
	}
	return s.GetTodo(ctx, id)
}

// DeleteTodo removes a todo
func (s *todoServiceImpl) DeleteTodo(ctx context.Context, id string) error {
	if err := s.taskValidator.ValidateTaskID(id); err != nil {
		return errors.NewValidationError("invalid todo id", err)
	}
	return s.repo.DeleteTodo(ctx, id)
}

// BulkUpsert inserts or replaces todos by id
func (s *todoServiceImpl) BulkUpsert(ctx context.Context, tasks []domain.Task) (int, error) {
	rows, err := s.prepareAll(tasks, false)
	if err != nil {
		return 0, err
	}
	return s.repo.UpsertTodos(ctx, rows)
}

// ReplaceAll swaps the stored todos for tasks
func (s *todoServiceImpl) ReplaceAll(ctx context.Context, tasks []domain.Task) (int, error) {
	rows, err := s.prepareAll(tasks, true)
	if err != nil {
		return 0, err
	}
	return s.repo.ReplaceTodos(ctx, rows)
}

func (s *todoServiceImpl) prepareAll(tasks []domain.Task, unique bool) ([]*repository.Todo, error) {
	rows := make([]*repository.Todo, 0, len(tasks))
	seen := make(map[string]bool, len(tasks))
	for i, task := range tasks {
		prepared, err := s.prepare(task)
		if err != nil {
			return nil, errors.NewValidationError(fmt.Sprintf("todo %d", i), err)
		}
		if unique && seen[prepared.ID] {
			return nil, errors.NewValidationError(fmt.Sprintf("todo %d: duplicate id %s", i, prepared.ID), nil)
		}
		seen[prepared.ID] = true
		row := s.mapper.Task.ToRepository(prepared)
		rows = append(rows, &row)
	}
	return rows, nil
}
