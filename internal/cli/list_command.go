package cli

import (
	"context"

	"todo-manager/internal/domain"
	"todo-manager/internal/errors"
)

// ListOptions holds the list command flags
type ListOptions struct {
	Priority string
	Status   string
	Group    string
	Format   string
}

// ListCommand handles the list command
type ListCommand struct {
	app  *App
	opts ListOptions
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App, opts ListOptions) *ListCommand {
	return &ListCommand{app: app, opts: opts}
}

// Execute runs the list command
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	filters, err := c.filters()
	if err != nil {
		return c.app.errorHandler.Handle("list todos", err)
	}

	tasks := c.app.store.FilteredView(filters)
	switch c.opts.Format {
	case "", FormatTable:
		c.app.printTaskColumns(tasks, timeNow())
		return nil
	case FormatJSON:
		return writeJSONTo(c.app.out, tasks)
	default:
		return c.app.errorHandler.Handle("list todos",
			errors.NewInvalidInputError("format", c.opts.Format, "must be table or json"))
	}
}

// filters checks the filter flags. "all" and empty disable a dimension.
func (c *ListCommand) filters() (domain.Filters, error) {
	f := domain.Filters{Priority: c.opts.Priority, Status: c.opts.Status, Group: c.opts.Group}.Normalize()
	if f.Priority != domain.All {
		p, err := domain.ParsePriority(f.Priority)
		if err != nil {
			return f, errors.NewInvalidInputError("priority", f.Priority, "must be high, medium, low or all")
		}
		f.Priority = string(p)
	}
	if f.Status != domain.All {
		s, err := domain.ParseStatus(f.Status)
		if err != nil {
			return f, errors.NewInvalidInputError("status", f.Status, "must be pending, completed or all")
		}
		f.Status = string(s)
	}
	return f, nil
}
