package domain

import "math"

// Stats summarizes a task list.
type Stats struct {
	Total          int `json:"total"`
	Pending        int `json:"pending"`
	Completed      int `json:"completed"`
	Overdue        int `json:"overdue"`
	CompletionRate int `json:"completionRate"` // percent, rounded
}

// ComputeStats counts tasks by status. today decides which tasks are overdue.
func ComputeStats(tasks []Task, today Date) Stats {
	var s Stats
	s.Total = len(tasks)
	for _, t := range tasks {
		if t.IsCompleted() {
			s.Completed++
		}
		if t.IsOverdue(today) {
			s.Overdue++
		}
	}
	s.Pending = s.Total - s.Completed
	if s.Total > 0 {
		s.CompletionRate = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}
	return s
}
