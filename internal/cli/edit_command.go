package cli

import (
	"context"
	"fmt"
	"strings"

	"todo-manager/internal/domain"
	"todo-manager/internal/errors"
)

// EditOptions holds the edit command flags. Only flags the user set are
// applied.
type EditOptions struct {
	Title       string
	Description string
	Priority    string
	Group       string
	Due         string

	changed func(name string) bool
}

// EditCommand handles the edit command
type EditCommand struct {
	app  *App
	opts EditOptions
}

// NewEditCommand creates a new edit command handler
func NewEditCommand(app *App, opts EditOptions) *EditCommand {
	return &EditCommand{app: app, opts: opts}
}

// Execute applies the set flags to the todo named by args[0]
func (c *EditCommand) Execute(ctx context.Context, args []string) error {
	task, err := c.app.resolveTask(firstArg(args))
	if err != nil {
		return c.app.errorHandler.Handle("edit todo", err)
	}

	patch, err := c.patch()
	if err != nil {
		return c.app.errorHandler.Handle("edit todo", err)
	}

	updated, err := c.app.store.Update(ctx, task.ID, patch)
	if err != nil {
		return c.app.errorHandler.Handle("edit todo", err)
	}
	if updated == nil {
		return c.app.errorHandler.Handle("edit todo", errors.NewNotFoundError("todo", task.ID))
	}

	fmt.Fprintf(c.app.out, "Updated todo %s\n", shortID(updated.ID))
	c.app.printTaskDetail(*updated, timeNow())
	return nil
}

func (c *EditCommand) isSet(name string) bool {
	if c.opts.changed != nil {
		return c.opts.changed(name)
	}
	switch name {
	case "title":
		return c.opts.Title != ""
	case "description":
		return c.opts.Description != ""
	case "priority":
		return c.opts.Priority != ""
	case "group":
		return c.opts.Group != ""
	case "due":
		return c.opts.Due != ""
	}
	return false
}

func (c *EditCommand) patch() (domain.Patch, error) {
	var patch domain.Patch
	if c.isSet("title") {
		title := c.opts.Title
		patch.Title = &title
	}
	if c.isSet("description") {
		description := c.opts.Description
		patch.Description = &description
	}
	if c.isSet("priority") {
		p, err := domain.ParsePriority(c.opts.Priority)
		if err != nil {
			return patch, errors.NewInvalidInputError("priority", c.opts.Priority, "must be high, medium or low")
		}
		patch.Priority = &p
	}
	if c.isSet("group") {
		group := c.opts.Group
		patch.Group = &group
	}
	if c.isSet("due") {
		switch strings.ToLower(strings.TrimSpace(c.opts.Due)) {
		case "", "none":
			patch.DueDate = domain.Null[domain.Date]()
		default:
			due, err := domain.ParseDate(c.opts.Due)
			if err != nil {
				return patch, errors.NewInvalidInputError("due", c.opts.Due, "expected YYYY-MM-DD or none")
			}
			patch.DueDate = domain.Some(due)
		}
	}
	if patch.IsEmpty() {
		return patch, errors.NewInvalidInputError("flags", "", "nothing to change, set at least one of --title, --description, --priority, --group or --due")
	}
	return patch, nil
}
