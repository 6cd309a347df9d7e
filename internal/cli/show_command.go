package cli

import "context"

// ShowCommand handles the show command
type ShowCommand struct {
	app *App
}

// NewShowCommand creates a new show command handler
func NewShowCommand(app *App) *ShowCommand {
	return &ShowCommand{app: app}
}

// Execute prints every field of the todo named by args[0]
func (c *ShowCommand) Execute(ctx context.Context, args []string) error {
	task, err := c.app.resolveTask(firstArg(args))
	if err != nil {
		return c.app.errorHandler.Handle("show todo", err)
	}
	c.app.printTaskDetail(task, timeNow())
	return nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
