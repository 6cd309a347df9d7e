package cli

import (
	"context"
	"fmt"

	"todo-manager/internal/errors"
)

// DoneCommand handles the done command
type DoneCommand struct {
	app *App
}

// NewDoneCommand creates a new done command handler
func NewDoneCommand(app *App) *DoneCommand {
	return &DoneCommand{app: app}
}

// Execute toggles the todo named by args[0] between pending and completed
func (c *DoneCommand) Execute(ctx context.Context, args []string) error {
	task, err := c.app.resolveTask(firstArg(args))
	if err != nil {
		return c.app.errorHandler.Handle("toggle todo", err)
	}

	updated, err := c.app.store.ToggleStatus(ctx, task.ID)
	if err != nil {
		return c.app.errorHandler.Handle("toggle todo", err)
	}
	if updated == nil {
		return c.app.errorHandler.Handle("toggle todo", errors.NewNotFoundError("todo", task.ID))
	}

	if updated.IsCompleted() {
		fmt.Fprintf(c.app.out, "Completed: %s\n", updated.Title)
	} else {
		fmt.Fprintf(c.app.out, "Marked as pending: %s\n", updated.Title)
	}
	return nil
}
