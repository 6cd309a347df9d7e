package domain

import (
	"fmt"
	"strings"
	"time"
)

// Priority is the urgency bucket a task is rendered in.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists the priorities in display order.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ParsePriority parses a case-insensitive priority name.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q (want high, medium or low)", s)
	}
	return p, nil
}

// Status is the completion state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Toggle returns the opposite status.
func (s Status) Toggle() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// ParseStatus parses a case-insensitive status name.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q (want pending or completed)", s)
	}
	return st, nil
}

// DefaultGroup is the group assigned when none is given.
const DefaultGroup = "personal"

// Task represents a todo item in the domain model.
// This is a pure domain model without storage-specific concerns.
type Task struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Priority    Priority   `json:"priority" yaml:"priority"`
	Group       string     `json:"group" yaml:"group"`
	Status      Status     `json:"status" yaml:"status"`
	DueDate     *Date      `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
}

// NewTask creates a pending Task with the given title and default priority and group.
func NewTask(title string) Task {
	return Task{
		Title:    title,
		Priority: PriorityMedium,
		Group:    DefaultGroup,
		Status:   StatusPending,
	}
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	c := t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.CompletedAt != nil {
		ts := *t.CompletedAt
		c.CompletedAt = &ts
	}
	return c
}

// ApplyDefaults fills the fields a client may leave blank.
func (t *Task) ApplyDefaults(now time.Time) {
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if strings.TrimSpace(t.Group) == "" {
		t.Group = DefaultGroup
	}
	if t.Status == "" {
		t.Status = StatusPending
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = NormalizeTime(now)
	}
	if t.DueDate != nil && t.DueDate.IsZero() {
		t.DueDate = nil
	}
}

// IsCompleted reports whether the task is done.
func (t Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// IsOverdue reports whether a pending task's due date lies before today.
func (t Task) IsOverdue(today Date) bool {
	return t.DueDate != nil && !t.IsCompleted() && t.DueDate.Before(today)
}

// String returns the task title for display purposes.
func (t Task) String() string {
	return t.Title
}

// NormalizeTime drops the monotonic reading and sub-millisecond precision so
// timestamps survive an ISO-8601 round trip unchanged.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// CloneTasks deep-copies a task slice.
func CloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
