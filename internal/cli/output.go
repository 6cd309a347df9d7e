package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"todo-manager/internal/domain"
)

// Output formats accepted by list, stats, groups and export.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// displayDateFormat matches the short US style used for due dates.
const displayDateFormat = "Jan 2, 2006"

// styles are bound to the output writer so that plain writers (pipes, files,
// test buffers) receive no escape sequences.
type styles struct {
	heading   lipgloss.Style
	id        lipgloss.Style
	completed lipgloss.Style
	group     lipgloss.Style
	overdue   lipgloss.Style
	faint     lipgloss.Style
	warning   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		heading:   r.NewStyle().Bold(true),
		id:        r.NewStyle().Foreground(lipgloss.Color("243")),
		completed: r.NewStyle().Strikethrough(true).Faint(true),
		group:     r.NewStyle().Foreground(lipgloss.Color("39")),
		overdue:   r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		faint:     r.NewStyle().Faint(true),
		warning:   r.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

// writeJSONTo writes v as indented JSON followed by a newline.
func writeJSONTo(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// printTaskColumns prints tasks in high, medium and low sections, the way the
// board shows them.
func (a *App) printTaskColumns(tasks []domain.Task, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No todos found")
		return
	}

	today := domain.DateOf(now)
	columns := domain.ByPriority(tasks)
	for i, p := range domain.Priorities {
		if i > 0 {
			fmt.Fprintln(a.out)
		}
		column := columns[p]
		title := fmt.Sprintf("%s priority (%d)", strings.ToUpper(string(p[:1]))+string(p[1:]), len(column))
		fmt.Fprintln(a.out, a.styles.heading.Render(title))
		if len(column) == 0 {
			fmt.Fprintln(a.out, a.styles.faint.Render(fmt.Sprintf("  No %s priority todos", p)))
			continue
		}
		for _, t := range column {
			fmt.Fprintln(a.out, a.formatTaskLine(t, today, now))
		}
	}
}

func (a *App) formatTaskLine(t domain.Task, today domain.Date, now time.Time) string {
	box := "[ ]"
	title := t.Title
	if t.IsCompleted() {
		box = "[x]"
		title = a.styles.completed.Render(title)
	}

	parts := []string{
		"  " + box,
		a.styles.id.Render(shortID(t.ID)),
		title,
		a.styles.group.Render("#" + t.Group),
	}
	if t.DueDate != nil {
		due := fmt.Sprintf("due %s (%s)", t.DueDate.Time().Format(displayDateFormat), relativeDay(*t.DueDate, today))
		if t.IsOverdue(today) {
			due = a.styles.overdue.Render(due + " OVERDUE")
		}
		parts = append(parts, due)
	}
	if t.CompletedAt != nil {
		parts = append(parts, a.styles.faint.Render("done "+humanize.RelTime(*t.CompletedAt, now, "ago", "from now")))
	}
	return strings.Join(parts, "  ")
}

// relativeDay describes a calendar date relative to today.
func relativeDay(d, today domain.Date) string {
	switch {
	case d.Equal(today):
		return "today"
	case d.Equal(today.AddDays(1)):
		return "tomorrow"
	case d.Equal(today.AddDays(-1)):
		return "yesterday"
	}
	return humanize.RelTime(d.Time(), today.Time(), "ago", "from now")
}

// printTaskDetail prints every field of one task.
func (a *App) printTaskDetail(t domain.Task, now time.Time) {
	row := func(label, value string) {
		fmt.Fprintf(a.out, "%-12s %s\n", label+":", value)
	}
	row("ID", t.ID)
	row("Title", t.Title)
	if t.Description != "" {
		row("Description", t.Description)
	}
	row("Priority", string(t.Priority))
	row("Group", t.Group)
	row("Status", string(t.Status))
	if t.DueDate != nil {
		row("Due", fmt.Sprintf("%s (%s)", t.DueDate.Time().Format(displayDateFormat), relativeDay(*t.DueDate, domain.DateOf(now))))
	}
	row("Created", fmt.Sprintf("%s (%s)", t.CreatedAt.Local().Format(displayDateFormat), humanize.RelTime(t.CreatedAt, now, "ago", "from now")))
	if t.CompletedAt != nil {
		row("Completed", fmt.Sprintf("%s (%s)", t.CompletedAt.Local().Format(displayDateFormat), humanize.RelTime(*t.CompletedAt, now, "ago", "from now")))
	}
}
