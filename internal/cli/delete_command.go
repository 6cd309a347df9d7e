package cli

import (
	"context"
	"fmt"

	"todo-manager/internal/errors"
)

// DeleteOptions holds the rm command flags
type DeleteOptions struct {
	Yes bool
}

// DeleteCommand handles the rm command
type DeleteCommand struct {
	app  *App
	opts DeleteOptions
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App, opts DeleteOptions) *DeleteCommand {
	return &DeleteCommand{app: app, opts: opts}
}

// Execute deletes the todo named by args[0] after confirmation
func (c *DeleteCommand) Execute(ctx context.Context, args []string) error {
	task, err := c.app.resolveTask(firstArg(args))
	if err != nil {
		return c.app.errorHandler.Handle("delete todo", err)
	}

	if !c.opts.Yes {
		ok, err := c.app.confirm(fmt.Sprintf("Are you sure you want to delete %q?", task.Title))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(c.app.out, "Delete cancelled.")
			return nil
		}
	}

	if !c.app.store.Delete(ctx, task.ID) {
		return c.app.errorHandler.Handle("delete todo", errors.NewNotFoundError("todo", task.ID))
	}
	fmt.Fprintf(c.app.out, "Deleted todo: %s\n", task.Title)
	return nil
}
