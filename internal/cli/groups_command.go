package cli

import (
	"context"
	"fmt"

	"todo-manager/internal/domain"
	"todo-manager/internal/errors"
)

// GroupsCommand handles the groups command
type GroupsCommand struct {
	app    *App
	format string
}

// NewGroupsCommand creates a new groups command handler
func NewGroupsCommand(app *App, format string) *GroupsCommand {
	return &GroupsCommand{app: app, format: format}
}

// Execute prints the groups in use with their todo counts
func (c *GroupsCommand) Execute(ctx context.Context, args []string) error {
	groups := c.app.store.Groups()
	switch c.format {
	case "", FormatTable:
		if len(groups) == 0 {
			fmt.Fprintln(c.app.out, "No groups found")
			return nil
		}
		for _, g := range groups {
			n := len(c.app.store.FilteredView(domain.Filters{Group: g}))
			fmt.Fprintf(c.app.out, "%-20s %d\n", g, n)
		}
		return nil
	case FormatJSON:
		return writeJSONTo(c.app.out, groups)
	default:
		return c.app.errorHandler.Handle("list groups",
			errors.NewInvalidInputError("format", c.format, "must be table or json"))
	}
}
