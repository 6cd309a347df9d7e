package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"todo-manager/internal/domain"
)

func TestRelativeDay(t *testing.T) {
	today := domain.NewDate(2024, 6, 1)

	tests := []struct {
		name string
		day  domain.Date
		want string
	}{
		{name: "today", day: today, want: "today"},
		{name: "tomorrow", day: today.AddDays(1), want: "tomorrow"},
		{name: "yesterday", day: today.AddDays(-1), want: "yesterday"},
		{name: "next week", day: today.AddDays(9), want: "1 week from now"},
		{name: "last week", day: today.AddDays(-10), want: "1 week ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relativeDay(tt.day, today))
		})
	}
}

func TestFormatTaskLine(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	today := domain.DateOf(now)
	app := &App{styles: newStyles(&bytes.Buffer{})}

	due := domain.NewDate(2024, 5, 20)
	overdue := testTask("0190a3b4-0000-7000-8000-00000000aaaa", "Pay invoice")
	overdue.DueDate = &due
	overdue.Group = "admin"

	line := app.formatTaskLine(overdue, today, now)
	assert.Contains(t, line, "[ ]")
	assert.Contains(t, line, "0000aaaa")
	assert.Contains(t, line, "Pay invoice")
	assert.Contains(t, line, "#admin")
	assert.Contains(t, line, "due May 20, 2024 (1 week ago) OVERDUE")

	completedAt := now.Add(-3 * time.Hour)
	done := overdue
	done.Status = domain.StatusCompleted
	done.CompletedAt = &completedAt

	line = app.formatTaskLine(done, today, now)
	assert.Contains(t, line, "[x]")
	assert.NotContains(t, line, "OVERDUE")
	assert.Contains(t, line, "done 3 hours ago")
}

func TestPrintTaskColumns(t *testing.T) {
	var out bytes.Buffer
	app := &App{out: &out, styles: newStyles(&out)}
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	high := testTask("a", "Urgent thing")
	high.Priority = domain.PriorityHigh
	app.printTaskColumns([]domain.Task{high, testTask("b", "Normal thing")}, now)

	assert.Equal(t, `High priority (1)
  [ ]  a  Urgent thing  #personal

Medium priority (1)
  [ ]  b  Normal thing  #personal

Low priority (0)
  No low priority todos
`, out.String())

	out.Reset()
	app.printTaskColumns(nil, now)
	assert.Equal(t, "No todos found\n", out.String())
}
