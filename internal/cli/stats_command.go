package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"todo-manager/internal/errors"
)

// StatsCommand handles the stats command
type StatsCommand struct {
	app    *App
	format string
}

// NewStatsCommand creates a new stats command handler
func NewStatsCommand(app *App, format string) *StatsCommand {
	return &StatsCommand{app: app, format: format}
}

// Execute prints the totals shown above the board
func (c *StatsCommand) Execute(ctx context.Context, args []string) error {
	stats := c.app.store.Stats()
	switch c.format {
	case "", FormatTable:
		row := func(label, value string) {
			fmt.Fprintf(c.app.out, "%-16s %s\n", label+":", value)
		}
		row("Total todos", humanize.Comma(int64(stats.Total)))
		row("Pending", humanize.Comma(int64(stats.Pending)))
		row("Completed", humanize.Comma(int64(stats.Completed)))
		row("Overdue", humanize.Comma(int64(stats.Overdue)))
		row("Completion rate", fmt.Sprintf("%d%%", stats.CompletionRate))
		return nil
	case FormatJSON:
		return writeJSONTo(c.app.out, stats)
	default:
		return c.app.errorHandler.Handle("show stats",
			errors.NewInvalidInputError("format", c.format, "must be table or json"))
	}
}
