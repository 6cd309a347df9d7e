package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleTasks(t *testing.T) {
	now := time.Date(2024, 12, 20, 15, 4, 5, 0, time.UTC)
	n := 0
	newID := func() string {
		n++
		return fmt.Sprintf("id-%02d", n)
	}

	tasks := SampleTasks(now, newID)

	require.Len(t, tasks, 25)
	seen := make(map[string]bool)
	withDue := 0
	for _, task := range tasks {
		assert.False(t, seen[task.ID], "duplicate id %s", task.ID)
		seen[task.ID] = true
		assert.Equal(t, StatusPending, task.Status)
		assert.Equal(t, now, task.CreatedAt)
		assert.True(t, task.Priority.Valid())
		assert.NotEmpty(t, task.Title)
		if task.DueDate != nil {
			withDue++
			assert.Equal(t, "Submit grant application", task.Title)
			assert.Equal(t, "2025-01-19", task.DueDate.String())
		}
	}
	assert.Equal(t, 1, withDue)
	assert.Equal(t, []string{"academic", "administration", "personal", "renovation", "research"}, Groups(tasks))
}
