package cli

import (
	"context"
	"fmt"
	"strings"

	"todo-manager/internal/domain"
	"todo-manager/internal/errors"
)

// AddOptions holds the add command flags
type AddOptions struct {
	Description string
	Priority    string
	Group       string
	Due         string
}

// AddCommand handles the add command
type AddCommand struct {
	app  *App
	opts AddOptions
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App, opts AddOptions) *AddCommand {
	return &AddCommand{app: app, opts: opts}
}

// Execute creates a todo titled by the joined arguments
func (c *AddCommand) Execute(ctx context.Context, args []string) error {
	candidate, err := c.candidate(args)
	if err != nil {
		return c.app.errorHandler.Handle("add todo", err)
	}

	task, err := c.app.store.Create(ctx, candidate)
	if err != nil {
		return c.app.errorHandler.Handle("add todo", err)
	}

	fmt.Fprintf(c.app.out, "Added todo %s: %s\n", shortID(task.ID), task.Title)
	return nil
}

func (c *AddCommand) candidate(args []string) (domain.Task, error) {
	task := domain.Task{
		Title:       strings.Join(args, " "),
		Description: c.opts.Description,
		Group:       c.opts.Group,
	}
	if c.opts.Priority != "" {
		p, err := domain.ParsePriority(c.opts.Priority)
		if err != nil {
			return task, errors.NewInvalidInputError("priority", c.opts.Priority, "must be high, medium or low")
		}
		task.Priority = p
	}
	if c.opts.Due != "" {
		due, err := domain.ParseDate(c.opts.Due)
		if err != nil {
			return task, errors.NewInvalidInputError("due", c.opts.Due, "expected YYYY-MM-DD")
		}
		task.DueDate = &due
	}
	return task, nil
}
