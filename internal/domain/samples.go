package domain

import "time"

// Sample is one entry of the seed catalog.
type Sample struct {
	Title       string
	Group       string
	Priority    Priority
	Description string
	DueInDays   int // 0 means no due date
}

// SampleCatalog is the fixed bundle a fresh todo list is seeded with.
var SampleCatalog = []Sample{
	{Title: "Complete project documentation", Group: "research", Priority: PriorityHigh, Description: "Write comprehensive documentation for the project"},
	{Title: "Review code changes", Group: "administration", Priority: PriorityHigh, Description: "Review and approve pending code changes"},
	{Title: "Prepare presentation slides", Group: "academic", Priority: PriorityHigh, Description: "Create slides for upcoming presentation"},
	{Title: "Schedule team meeting", Group: "personal", Priority: PriorityMedium, Description: "Coordinate meeting time with team members"},
	{Title: "Update project timeline", Group: "personal", Priority: PriorityMedium, Description: "Review and update project milestones"},
	{Title: "Follow up on email", Group: "personal", Priority: PriorityMedium, Description: "Respond to pending email inquiries"},
	{Title: "Test new features", Group: "research", Priority: PriorityLow, Description: "Perform thorough testing of new functionality"},
	{Title: "Code review for pull request", Group: "research", Priority: PriorityMedium, Description: "Review submitted pull request"},
	{Title: "Update dependencies", Group: "research", Priority: PriorityMedium, Description: "Check and update project dependencies"},
	{Title: "Write unit tests", Group: "research", Priority: PriorityHigh, Description: "Add unit tests for new features"},
	{Title: "Refactor legacy code", Group: "research", Priority: PriorityHigh, Description: "Improve code structure and maintainability"},
	{Title: "Research best practices", Group: "research", Priority: PriorityHigh, Description: "Investigate industry best practices"},
	{Title: "Mentor junior developer", Group: "academic", Priority: PriorityMedium, Description: "Provide guidance and support"},
	{Title: "Prepare training materials", Group: "academic", Priority: PriorityMedium, Description: "Create educational content"},
	{Title: "Review student submissions", Group: "academic", Priority: PriorityMedium, Description: "Evaluate and provide feedback"},
	{Title: "Attend committee meeting", Group: "administration", Priority: PriorityLow, Description: "Participate in scheduled meeting"},
	{Title: "Submit required reports", Group: "administration", Priority: PriorityLow, Description: "Complete and submit documentation"},
	{Title: "Annual review preparation", Group: "administration", Priority: PriorityHigh, Description: "Prepare materials for annual review"},
	{Title: "Submit grant application", Group: "administration", Priority: PriorityHigh, Description: "Complete and submit grant proposal", DueInDays: 30},
	{Title: "Organize workspace", Group: "renovation", Priority: PriorityLow, Description: "Clean and organize work area"},
	{Title: "Update office setup", Group: "renovation", Priority: PriorityLow, Description: "Improve office environment"},
	{Title: "Install new equipment", Group: "renovation", Priority: PriorityLow, Description: "Set up new office equipment"},
	{Title: "Plan room improvements", Group: "renovation", Priority: PriorityMedium, Description: "Design and plan room updates"},
	{Title: "Reorganize storage", Group: "renovation", Priority: PriorityLow, Description: "Optimize storage space organization"},
	{Title: "Install storage solutions", Group: "renovation", Priority: PriorityLow, Description: "Set up new storage system"},
}

// SampleTasks materializes the catalog as pending tasks created at now.
func SampleTasks(now time.Time, newID func() string) []Task {
	now = NormalizeTime(now)
	tasks := make([]Task, 0, len(SampleCatalog))
	for _, s := range SampleCatalog {
		t := Task{
			ID:          newID(),
			Title:       s.Title,
			Description: s.Description,
			Priority:    s.Priority,
			Group:       s.Group,
			Status:      StatusPending,
			CreatedAt:   now,
		}
		if s.DueInDays > 0 {
			due := DateOf(now).AddDays(s.DueInDays)
			t.DueDate = &due
		}
		tasks = append(tasks, t)
	}
	return tasks
}
