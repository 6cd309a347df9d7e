package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"todo-manager/internal/errors"
)

// ExportOptions holds the export command flags
type ExportOptions struct {
	Format string
	Output string
}

// ExportCommand handles the export command
type ExportCommand struct {
	app  *App
	opts ExportOptions
}

// NewExportCommand creates a new export command handler
func NewExportCommand(app *App, opts ExportOptions) *ExportCommand {
	return &ExportCommand{app: app, opts: opts}
}

// Execute writes every todo to stdout or the output file
func (c *ExportCommand) Execute(ctx context.Context, args []string) error {
	data, err := c.render()
	if err != nil {
		return c.app.errorHandler.Handle("export todos", err)
	}

	if c.opts.Output == "" || c.opts.Output == "-" {
		_, err := c.app.out.Write(data)
		return err
	}

	if err := os.WriteFile(c.opts.Output, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.opts.Output, err)
	}
	fmt.Fprintf(c.app.out, "Exported %d todos (%s) to %s\n",
		len(c.app.store.Tasks()), humanize.Bytes(uint64(len(data))), c.opts.Output)
	return nil
}

func (c *ExportCommand) render() ([]byte, error) {
	switch c.opts.Format {
	case "", FormatJSON:
		data, err := c.app.store.ExportSnapshot()
		if err != nil {
			return nil, fmt.Errorf("failed to encode todos: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(c.app.store.Tasks())
		if err != nil {
			return nil, fmt.Errorf("failed to encode todos: %w", err)
		}
		return data, nil
	default:
		return nil, errors.NewInvalidInputError("format", c.opts.Format, "must be json or yaml")
	}
}
