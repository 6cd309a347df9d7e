package domain

import "sort"

// All is the filter wildcard.
const All = "all"

// Filters selects tasks by priority, status and group. Each dimension is
// either All or an exact value, and the dimensions are combined with AND.
type Filters struct {
	Priority string
	Status   string
	Group    string
}

// AllFilters matches every task.
func AllFilters() Filters {
	return Filters{Priority: All, Status: All, Group: All}
}

// Normalize turns empty dimensions into All.
func (f Filters) Normalize() Filters {
	if f.Priority == "" {
		f.Priority = All
	}
	if f.Status == "" {
		f.Status = All
	}
	if f.Group == "" {
		f.Group = All
	}
	return f
}

// Matches reports whether t passes all three predicates.
func (f Filters) Matches(t Task) bool {
	f = f.Normalize()
	priorityMatch := f.Priority == All || string(t.Priority) == f.Priority
	statusMatch := f.Status == All || string(t.Status) == f.Status
	groupMatch := f.Group == All || t.Group == f.Group
	return priorityMatch && statusMatch && groupMatch
}

// Filter returns copies of the tasks matching f, in their original order.
func Filter(tasks []Task, f Filters) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Groups returns the distinct groups of tasks, sorted.
func Groups(tasks []Task) []string {
	seen := make(map[string]struct{})
	var groups []string
	for _, t := range tasks {
		if _, ok := seen[t.Group]; ok {
			continue
		}
		seen[t.Group] = struct{}{}
		groups = append(groups, t.Group)
	}
	sort.Strings(groups)
	return groups
}

// ByPriority buckets tasks into the high, medium and low columns.
func ByPriority(tasks []Task) map[Priority][]Task {
	out := make(map[Priority][]Task, len(Priorities))
	for _, t := range tasks {
		out[t.Priority] = append(out[t.Priority], t)
	}
	return out
}
