package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"todo-manager/internal/domain"
	"todo-manager/internal/errors"
)

// ImportOptions holds the import command flags
type ImportOptions struct {
	Yes bool
}

// ImportCommand handles the import command
type ImportCommand struct {
	app  *App
	opts ImportOptions
}

// NewImportCommand creates a new import command handler
func NewImportCommand(app *App, opts ImportOptions) *ImportCommand {
	return &ImportCommand{app: app, opts: opts}
}

// Execute replaces the whole list with the todos in args[0]. The file is
// validated before the user is asked; a rejected file changes nothing.
func (c *ImportCommand) Execute(ctx context.Context, args []string) error {
	path := firstArg(args)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if isYAMLFile(path) {
		if data, err = yamlToJSON(data); err != nil {
			return c.app.errorHandler.Handle("import todos",
				errors.NewValidationError("invalid import file", err))
		}
	}

	tasks, err := c.app.store.ParseSnapshot(data)
	if err != nil {
		return c.app.errorHandler.Handle("import todos", err)
	}

	if !c.opts.Yes {
		question := fmt.Sprintf("This will replace all %d existing todos with %d from %s. Are you sure?",
			len(c.app.store.Tasks()), len(tasks), filepath.Base(path))
		ok, err := c.app.confirm(question)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(c.app.out, "Import cancelled.")
			return nil
		}
	}

	n := c.app.store.ReplaceAll(ctx, tasks)
	fmt.Fprintf(c.app.out, "Imported %d todos\n", n)
	return nil
}

func isYAMLFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// yamlToJSON re-encodes a YAML document as JSON so that it goes through the
// same snapshot validation as a JSON file. Unquoted YAML timestamps become
// strings again: dates for dueDate, RFC 3339 elsewhere.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(normalizeYAML(doc, ""))
}

func normalizeYAML(v interface{}, key string) interface{} {
	switch v := v.(type) {
	case map[string]interface{}:
		for k, inner := range v {
			v[k] = normalizeYAML(inner, k)
		}
		return v
	case []interface{}:
		for i, inner := range v {
			v[i] = normalizeYAML(inner, "")
		}
		return v
	case time.Time:
		if key == "dueDate" {
			return v.Format(domain.DateLayout)
		}
		return v.UTC().Format(time.RFC3339Nano)
	default:
		return v
	}
}
