package validation

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-manager/internal/domain"
)

var importNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestParseSnapshot_Valid(t *testing.T) {
	data := []byte(`[
		{"id":"a","title":"Buy milk","priority":"high","group":"personal","status":"pending",
		 "dueDate":"2024-06-10","createdAt":"2024-05-01T09:00:00.000Z"},
		{"id":"b","title":"Write report","status":"completed",
		 "createdAt":"2024-05-02T09:00:00+02:00","completedAt":"2024-05-03T10:00:00.5Z","dueDate":null},
		{"id":"c","title":"  Minimal  ","dueDate":""}
	]`)

	tasks, err := ParseSnapshot(data, importNow)
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	assert.Equal(t, "2024-06-10", tasks[0].DueDate.String())
	assert.Equal(t, domain.PriorityHigh, tasks[0].Priority)

	assert.Equal(t, domain.PriorityMedium, tasks[1].Priority)
	assert.Equal(t, time.Date(2024, 5, 2, 7, 0, 0, 0, time.UTC), tasks[1].CreatedAt)
	require.NotNil(t, tasks[1].CompletedAt)
	assert.Nil(t, tasks[1].DueDate)

	assert.Equal(t, "Minimal", tasks[2].Title)
	assert.Equal(t, domain.DefaultGroup, tasks[2].Group)
	assert.Equal(t, domain.StatusPending, tasks[2].Status)
	assert.Equal(t, importNow, tasks[2].CreatedAt)
	assert.Nil(t, tasks[2].DueDate)
}

func TestParseSnapshot_EmptyArray(t *testing.T) {
	tasks, err := ParseSnapshot([]byte(`[]`), importNow)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestParseSnapshot_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		errorType ValidationErrorType
		contains  string
	}{
		{name: "not json", input: `{nope`, errorType: ErrorTypeSchema, contains: "not valid JSON"},
		{name: "object instead of array", input: `{"todos":[]}`, errorType: ErrorTypeSchema},
		{name: "missing title", input: `[{"id":"a"}]`, errorType: ErrorTypeSchema, contains: "[0]"},
		{name: "blank title", input: `[{"id":"a","title":"   "}]`, errorType: ErrorTypeSchema},
		{name: "bad priority", input: `[{"id":"a","title":"x","priority":"urgent"}]`, errorType: ErrorTypeSchema, contains: "priority"},
		{name: "bad due date", input: `[{"id":"a","title":"x","dueDate":"June 1st"}]`, errorType: ErrorTypeSchema, contains: "dueDate"},
		{name: "bad timestamp", input: `[{"id":"a","title":"x","createdAt":"yesterday"}]`, errorType: ErrorTypeSchema, contains: "createdAt"},
		{name: "duplicate ids", input: `[{"id":"a","title":"x"},{"id":"a","title":"y"}]`, errorType: ErrorTypeDuplicate, contains: "a appears more than once"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := ParseSnapshot([]byte(tt.input), importNow)
			require.Error(t, err)
			assert.Nil(t, tasks)

			ve, ok := err.(*ValidationError)
			require.True(t, ok, "expected *ValidationError, got %T", err)
			require.NotEmpty(t, ve.Errors)
			assert.Equal(t, tt.errorType, ve.Errors[0].Type)
			if tt.contains != "" {
				assert.Contains(t, ve.Error(), tt.contains)
			}
		})
	}
}

func TestParseSnapshot_ExportRoundTrip(t *testing.T) {
	due := domain.NewDate(2024, 7, 1)
	done := domain.NormalizeTime(time.Date(2024, 6, 2, 8, 30, 0, 250_000_000, time.UTC))
	original := []domain.Task{
		{ID: "x1", Title: "One", Priority: domain.PriorityHigh, Group: "research", Status: domain.StatusPending,
			DueDate: &due, CreatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "x2", Title: "Two", Description: "second", Priority: domain.PriorityLow, Group: "academic",
			Status: domain.StatusCompleted, CreatedAt: time.Date(2024, 6, 1, 1, 0, 0, 0, time.UTC), CompletedAt: &done},
	}

	data, err := json.MarshalIndent(original, "", "  ")
	require.NoError(t, err)

	back, err := ParseSnapshot(data, importNow)
	require.NoError(t, err)
	assert.Equal(t, original, back)
}

func TestJSONPointerToPath(t *testing.T) {
	assert.Equal(t, "", jsonPointerToPath(""))
	assert.Equal(t, "[3].priority", jsonPointerToPath("/3/priority"))
	assert.Equal(t, "[0]", jsonPointerToPath("#/0"))
}
