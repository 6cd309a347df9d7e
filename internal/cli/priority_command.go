package cli

import (
	"context"
	"fmt"

	"todo-manager/internal/domain"
	"todo-manager/internal/errors"
)

// PriorityCommand handles the priority command
type PriorityCommand struct {
	app *App
}

// NewPriorityCommand creates a new priority command handler
func NewPriorityCommand(app *App) *PriorityCommand {
	return &PriorityCommand{app: app}
}

// Execute moves the todo named by args[0] to the priority in args[1]
func (c *PriorityCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return c.app.errorHandler.Handle("change priority",
			errors.NewInvalidInputError("arguments", args, "expected ID and LEVEL"))
	}
	task, err := c.app.resolveTask(args[0])
	if err != nil {
		return c.app.errorHandler.Handle("change priority", err)
	}
	priority, err := domain.ParsePriority(args[1])
	if err != nil {
		return c.app.errorHandler.Handle("change priority",
			errors.NewInvalidInputError("priority", args[1], "must be high, medium or low"))
	}

	updated, err := c.app.store.SetPriority(ctx, task.ID, priority)
	if err != nil {
		return c.app.errorHandler.Handle("change priority", err)
	}
	if updated == nil {
		return c.app.errorHandler.Handle("change priority", errors.NewNotFoundError("todo", task.ID))
	}

	if task.Priority == priority {
		fmt.Fprintf(c.app.out, "%s is already %s priority\n", updated.Title, priority)
		return nil
	}
	fmt.Fprintf(c.app.out, "Moved %s to %s priority\n", updated.Title, priority)
	return nil
}
