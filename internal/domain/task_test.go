package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	task := NewTask("Buy milk")

	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, PriorityMedium, task.Priority)
	assert.Equal(t, DefaultGroup, task.Group)
	assert.Equal(t, StatusPending, task.Status)
	assert.Empty(t, task.ID)
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Priority
		wantErr  bool
	}{
		{name: "high", input: "high", expected: PriorityHigh},
		{name: "mixed case with spaces", input: "  Medium ", expected: PriorityMedium},
		{name: "low", input: "LOW", expected: PriorityLow},
		{name: "unknown", input: "urgent", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePriority(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus("Completed")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got)

	_, err = ParseStatus("done")
	assert.Error(t, err)
}

func TestStatus_Toggle(t *testing.T) {
	assert.Equal(t, StatusCompleted, StatusPending.Toggle())
	assert.Equal(t, StatusPending, StatusCompleted.Toggle())
}

func TestTask_ApplyDefaults(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 30, 0, 123456789, time.UTC)

	t.Run("fills blanks", func(t *testing.T) {
		task := Task{Title: "  Write report  ", Description: " draft ", Group: "   "}
		task.ApplyDefaults(now)

		assert.Equal(t, "Write report", task.Title)
		assert.Equal(t, "draft", task.Description)
		assert.Equal(t, PriorityMedium, task.Priority)
		assert.Equal(t, DefaultGroup, task.Group)
		assert.Equal(t, StatusPending, task.Status)
		assert.Equal(t, now.Truncate(time.Millisecond), task.CreatedAt)
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		created := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
		task := Task{Title: "x", Priority: PriorityHigh, Group: "research", Status: StatusCompleted, CreatedAt: created}
		task.ApplyDefaults(now)

		assert.Equal(t, PriorityHigh, task.Priority)
		assert.Equal(t, "research", task.Group)
		assert.Equal(t, StatusCompleted, task.Status)
		assert.Equal(t, created, task.CreatedAt)
	})

	t.Run("drops zero due date", func(t *testing.T) {
		task := Task{Title: "x", DueDate: &Date{}}
		task.ApplyDefaults(now)
		assert.Nil(t, task.DueDate)
	})
}

func TestTask_IsOverdue(t *testing.T) {
	today := NewDate(2024, 5, 10)
	yesterday := today.AddDays(-1)
	tomorrow := today.AddDays(1)

	tests := []struct {
		name     string
		task     Task
		expected bool
	}{
		{name: "no due date", task: Task{Status: StatusPending}, expected: false},
		{name: "due yesterday", task: Task{Status: StatusPending, DueDate: &yesterday}, expected: true},
		{name: "due today", task: Task{Status: StatusPending, DueDate: &today}, expected: false},
		{name: "due tomorrow", task: Task{Status: StatusPending, DueDate: &tomorrow}, expected: false},
		{name: "completed late", task: Task{Status: StatusCompleted, DueDate: &yesterday}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.task.IsOverdue(today))
		})
	}
}

func TestTask_Clone(t *testing.T) {
	due := NewDate(2024, 1, 2)
	done := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	orig := Task{ID: "a", Title: "t", DueDate: &due, CompletedAt: &done}

	c := orig.Clone()
	*c.DueDate = NewDate(2030, 1, 1)
	*c.CompletedAt = time.Time{}

	assert.Equal(t, NewDate(2024, 1, 2), *orig.DueDate)
	assert.Equal(t, done, *orig.CompletedAt)
}

func TestTask_JSONRoundTrip(t *testing.T) {
	due := NewDate(2024, 6, 30)
	done := NormalizeTime(time.Date(2024, 6, 1, 8, 0, 0, 987654321, time.UTC))
	task := Task{
		ID:          "0190a1b2-0000-7000-8000-000000000001",
		Title:       "Submit grant application",
		Description: "Complete and submit grant proposal",
		Priority:    PriorityHigh,
		Group:       "administration",
		Status:      StatusCompleted,
		DueDate:     &due,
		CreatedAt:   NormalizeTime(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)),
		CompletedAt: &done,
	}

	data, err := json.Marshal(task)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"dueDate":"2024-06-30"`)
	assert.Contains(t, string(data), `"group":"administration"`)

	var back Task
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, task, back)
}

func TestTask_JSONOmitsOptionalFields(t *testing.T) {
	data, err := json.Marshal(Task{ID: "a", Title: "t", Priority: PriorityLow, Group: "g", Status: StatusPending})
	require.NoError(t, err)

	assert.NotContains(t, string(data), "dueDate")
	assert.NotContains(t, string(data), "completedAt")
	assert.NotContains(t, string(data), "description")
}

func TestNormalizeTime(t *testing.T) {
	loc := time.FixedZone("X", 3600)
	in := time.Date(2024, 1, 1, 12, 0, 0, 1_500_000, loc)

	got := NormalizeTime(in)

	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 1_000_000, got.Nanosecond())
	assert.Equal(t, 11, got.Hour())
}
