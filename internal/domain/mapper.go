package domain

import (
	"todo-manager/internal/repository"
)

// TaskMapper handles conversion between domain Tasks and repository rows.
type TaskMapper struct{}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

// ToRepository converts a domain Task to a todos row.
func (m *TaskMapper) ToRepository(t Task) repository.Todo {
	row := repository.Todo{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		GroupName:   t.Group,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
	}
	if t.DueDate != nil && !t.DueDate.IsZero() {
		s := t.DueDate.String()
		row.DueDate = &s
	}
	if t.CompletedAt != nil {
		ts := *t.CompletedAt
		row.CompletedAt = &ts
	}
	return row
}

// FromRepository converts a todos row to a domain Task. A malformed stored
// due date is dropped rather than failing the whole read.
func (m *TaskMapper) FromRepository(row repository.Todo) Task {
	t := Task{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Priority:    Priority(row.Priority),
		Group:       row.GroupName,
		Status:      Status(row.Status),
		CreatedAt:   NormalizeTime(row.CreatedAt),
	}
	if row.DueDate != nil {
		if d, err := ParseDate(*row.DueDate); err == nil {
			t.DueDate = &d
		}
	}
	if row.CompletedAt != nil {
		ts := NormalizeTime(*row.CompletedAt)
		t.CompletedAt = &ts
	}
	return t
}

// ToRepositorySlice converts domain Tasks to row pointers.
func (m *TaskMapper) ToRepositorySlice(tasks []Task) []*repository.Todo {
	rows := make([]*repository.Todo, len(tasks))
	for i, t := range tasks {
		row := m.ToRepository(t)
		rows[i] = &row
	}
	return rows
}

// FromRepositorySlice converts rows to domain Tasks.
func (m *TaskMapper) FromRepositorySlice(rows []*repository.Todo) []Task {
	tasks := make([]Task, len(rows))
	for i, row := range rows {
		tasks[i] = m.FromRepository(*row)
	}
	return tasks
}

// PatchToUpdate converts a domain Patch into a column update.
func (m *TaskMapper) PatchToUpdate(p Patch) repository.TodoUpdate {
	u := repository.TodoUpdate{
		Title:       p.Title,
		Description: p.Description,
		GroupName:   p.Group,
	}
	if p.Priority != nil {
		s := string(*p.Priority)
		u.Priority = &s
	}
	if p.Status != nil {
		s := string(*p.Status)
		u.Status = &s
	}
	if p.DueDate.Set {
		u.DueDate.Set = true
		if p.DueDate.Value != nil && !p.DueDate.Value.IsZero() {
			s := p.DueDate.Value.String()
			u.DueDate.Value = &s
		}
	}
	if p.CompletedAt.Set {
		u.CompletedAt.Set = true
		if p.CompletedAt.Value != nil {
			ts := *p.CompletedAt.Value
			u.CompletedAt.Value = &ts
		}
	}
	return u
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Task *TaskMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Task: NewTaskMapper(),
	}
}
