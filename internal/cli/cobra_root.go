package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"todo-manager/internal/config"
	"todo-manager/internal/errors"
	"todo-manager/internal/logging"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	loader  *config.Loader
	config  *config.Config
	streams IOStreams
	logger  *log.Logger
	factory *Factory

	// configure lets tests adjust the factory once configuration is loaded.
	configure func(*Factory)
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(loader *config.Loader, streams IOStreams) *RootCommand {
	root := &RootCommand{
		loader:  loader,
		streams: streams,
	}

	root.cmd = &cobra.Command{
		Use:   "todo",
		Short: "A command-line todo manager",
		Long: `todo manages a prioritized todo list kept on a todo server, with a local
cache that takes over whenever the server cannot be reached.

FEATURES:
  • Add, edit, complete and delete todos in high, medium and low columns
  • Filter by priority, status and group
  • Export to JSON or YAML and import a JSON snapshot
  • Keeps working offline against a local cache
  • Serves the REST API the client talks to

EXAMPLES:
  todo serve                               # Start the REST API on port 3000
  todo list --priority high                # List high priority todos
  todo add "Buy milk" --group errands      # Add a todo
  todo done 4f1c9a2e                       # Toggle a todo between pending and completed
  todo priority 4f1c9a2e low               # Move a todo to the low column
  todo export --format yaml > todos.yaml   # Export all todos
  todo import todos.json                   # Replace all todos from a file

CONFIGURATION:
  Configuration follows this priority order:
  command-line flags > environment variables > config file > defaults

  The config file is TOML, read from TODO_CONFIG or ~/.todo/config.toml.

  Server Configuration:
    PORT                                   Port the API listens on (default: 3000)
    TODO_STATIC_DIR                        Directory served at / (default: public)
    TODO_SHUTDOWN_TIMEOUT                  Graceful shutdown timeout (default: 10s)

  Database Configuration:
    TODO_DB_DRIVER                         sqlite or neo4j (default: sqlite)
    TODO_DB_PATH                           SQLite database path (default: ~/.todo/todos.db)
    TODO_NEO4J_URI                         Neo4j URI (default: neo4j://localhost:7687)
    TODO_NEO4J_USER                        Neo4j user (default: neo4j)
    TODO_NEO4J_PASSWORD                    Neo4j password
    TODO_NEO4J_DATABASE                    Neo4j database (default: neo4j)

  Client Configuration:
    TODO_API_URL                           Todo server URL (default: http://localhost:3000)
    TODO_CLIENT_TIMEOUT                    HTTP timeout, 0 for none (default: 0)
    TODO_CACHE_PATH                        Local cache path (default: ~/.todo/cache.db)
    TODO_CACHE_MAX_BYTES                   Local cache quota (default: 5242880)

  Logging Configuration:
    TODO_LOG_LEVEL                         debug, info, warn or error (default: info)
    TODO_LOG_FORMAT                        text, json or logfmt (default: text)
    TODO_LOG_TIMESTAMPS                    Print timestamps (default: false)
    TODO_DEBUG                             Force debug logging

  Application Configuration:
    TODO_APP_TIMEOUT                       Per-command timeout (default: 60s)

GETTING HELP:
  todo [command] --help                    # Get help for any specific command
  todo completion bash                     # Generate bash completion script`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load configuration with flag overrides before any command runs
			return root.getConfigFromFlags()
		},
	}
	root.cmd.SetIn(streams.In)
	root.cmd.SetOut(streams.Out)
	root.cmd.SetErr(streams.ErrOut)

	// Add global flags for configuration overrides
	root.addGlobalFlags()

	// Add all subcommands
	root.addSubcommands()

	return root
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.cmd.Execute()
}

// ExecuteContext runs the root command under ctx
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	return r.cmd.ExecuteContext(ctx)
}

// SetArgs overrides the process arguments (for testing)
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "Config file (overrides TODO_CONFIG)")

	// Server configuration
	flags.Int("port", 0, "API port (overrides PORT)")
	flags.String("static-dir", "", "Static file directory (overrides TODO_STATIC_DIR)")

	// Database configuration
	flags.String("db-driver", "", "Database driver, sqlite or neo4j (overrides TODO_DB_DRIVER)")
	flags.String("db-path", "", "SQLite database path (overrides TODO_DB_PATH)")

	// Client configuration
	flags.String("api-url", "", "Todo server URL (overrides TODO_API_URL)")
	flags.Duration("client-timeout", 0, "HTTP client timeout (overrides TODO_CLIENT_TIMEOUT)")
	flags.String("cache-path", "", "Local cache path (overrides TODO_CACHE_PATH)")

	// Logging configuration
	flags.String("log-level", "", "Log level (overrides TODO_LOG_LEVEL)")
	flags.String("log-format", "", "Log format (overrides TODO_LOG_FORMAT)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Application timeout (overrides TODO_APP_TIMEOUT)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	// Serve command
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API",
		Long: `Start the todo REST API and serve the static client directory.

The server stops gracefully on SIGINT or SIGTERM, draining requests for up to
the configured shutdown timeout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The server runs until interrupted, so no application timeout applies
			return NewServeCommand(r.config, r.factory, r.logger).Execute(cmd.Context(), args)
		},
	}

	// List command
	listOpts := &ListOptions{}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List todos",
		Long: `List todos in high, medium and low priority sections.

Filters combine with AND; "all" (the default) disables a filter.

Examples:
  todo list                              # All todos
  todo list --status pending             # Only pending todos
  todo list --priority high --group work # High priority work todos
  todo list --format json                # Machine-readable output`,
		Args: cobra.NoArgs,
		RunE: r.runClient(func(ctx context.Context, app *App, args []string) error {
			return NewListCommand(app, *listOpts).Execute(ctx, args)
		}),
	}
	listCmd.Flags().StringVar(&listOpts.Priority, "priority", "all", "Filter by priority: high, medium, low or all")
	listCmd.Flags().StringVar(&listOpts.Status, "status", "all", "Filter by status: pending, completed or all")
	listCmd.Flags().StringVar(&listOpts.Group, "group", "all", "Filter by group, or all")
	listCmd.Flags().StringVar(&listOpts.Format, "format", FormatTable, "Output format: table or json")

	// Show command
	showCmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show one todo",
		Args:  cobra.ExactArgs(1),
		RunE: r.runClient(func(ctx context.Context, app *App, args []string) error {
			return NewShowCommand(app).Execute(ctx, args)
		}),
	}

	// Add command
	addOpts := &AddOptions{}
	addCmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a todo",
		Long: `Add a pending todo. Priority defaults to medium and group to personal.

Examples:
  todo add "Buy milk"
  todo add "Submit grant" --priority high --group administration --due 2024-07-01`,
		Args: cobra.MinimumNArgs(1),
		RunE: r.runClient(func(ctx context.Context, app *App, args []string) error {
			return NewAddCommand(app, *addOpts).Execute(ctx, args)
		}),
	}
	addCmd.Flags().StringVarP(&addOpts.Description, "description", "d", "", "Description")
	addCmd.Flags().StringVarP(&addOpts.Priority, "priority", "p", "", "Priority: high, medium or low")
	addCmd.Flags().StringVarP(&addOpts.Group, "group", "g", "", "Group")
	addCmd.Flags().StringVar(&addOpts.Due, "due", "", "Due date (YYYY-MM-DD)")

	// Edit command
	editOpts := &EditOptions{}
	var editCmd *cobra.Command
	editCmd = &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a todo",
		Long: `Change the given fields of a todo; fields without a flag are left alone.

Examples:
  todo edit 4f1c9a2e --title "Buy oat milk"
  todo edit 4f1c9a2e --due none          # Clear the due date`,
		Args: cobra.ExactArgs(1),
		RunE: r.runClient(func(ctx context.Context, app *App, args []string) error {
			opts := *editOpts
			opts.changed = editCmd.Flags().Changed
			return NewEditCommand(app, opts).Execute(ctx, args)
		}),
	}
	editCmd.Flags().StringVar(&editOpts.Title, "title", "", "New title")
	editCmd.Flags().StringVarP(&editOpts.Description, "description", "d", "", "New description")
	editCmd.Flags().StringVarP(&editOpts.Priority, "priority", "p", "", "New priority: high, medium or low")
	editCmd.Flags().StringVarP(&editOpts.Group, "group", "g", "", "New group")
	editCmd.Flags().StringVar(&editOpts.Due, "due", "", "New due date (YYYY-MM-DD), or none to clear it")

	// Done command
	doneCmd := &cobra.Command{
		Use:   "done ID",
		Short: "Toggle a todo between pending and completed",
		Args:  cobra.ExactArgs(1),
		RunE: r.runClient(func(ctx context.Context, app *App, args []string) error {
			return NewDoneCommand(app).Execute(ctx, args)
		}),
	}

	// Priority command
	priorityCmd := &cobra.Command{
		Use:   "priority ID LEVEL",
		Short: "Move a todo to another priority column",
		Args:  cobra.ExactArgs(2),
		RunE: r.runClient(func(ctx context.Context, app *App, args []string) error {
			return NewPriorityCommand(app).Execute(ctx, args)
		}),
	}

	// Delete command
	deleteOpts := &DeleteOptions{}
	deleteCmd := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a todo",
		Long: `Delete a todo. This operation cannot be undone; you are asked to
confirm unless --yes is given.`,
		Args: cobra.ExactArgs(1),
		RunE: r.runClient(func(ctx context.Context, app *App, args []string) error {
			return NewDeleteCommand(app, *deleteOpts).Execute(ctx, args)
		}),
	}
	deleteCmd.Flags().BoolVarP(&deleteOpts.Yes, "yes", "y", false, "Do not ask for confirmation")

	// Export command
	exportOpts := &ExportOptions{}
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export all todos",
		Long: `Write every todo as JSON (importable) or YAML.

Examples:
  todo export > todos.json
  todo export --format yaml --output todos.yaml`,
		Args: cobra.NoArgs,
		RunE: r.runClient(func(ctx context.Context, app *App, args []string) error {
			return NewExportCommand(app, *exportOpts).Execute(ctx, args)
		}),
	}
	exportCmd.Flags().StringVarP(&exportOpts.Format, "format", "f", FormatJSON, "Output format: json or yaml")
	exportCmd.Flags().StringVarP(&exportOpts.Output, "output", "o", "", "Write to a file instead of stdout")

	// Import command
	importOpts := &ImportOptions{}
	importCmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace all todos from a file",
		Long: `Replace the whole todo list with the todos in FILE, a JSON array as
written by export (a .yaml or .yml file is read as YAML). The file is checked
before anything changes; you are asked to confirm unless --yes is given.`,
		Args: cobra.ExactArgs(1),
		RunE: r.runClient(func(ctx context.Context, app *App, args []string) error {
			return NewImportCommand(app, *importOpts).Execute(ctx, args)
		}),
	}
	importCmd.Flags().BoolVarP(&importOpts.Yes, "yes", "y", false, "Do not ask for confirmation")

	// Stats command
	statsFormat := FormatTable
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show todo statistics",
		Args:  cobra.NoArgs,
		RunE: r.runClient(func(ctx context.Context, app *App, args []string) error {
			return NewStatsCommand(app, statsFormat).Execute(ctx, args)
		}),
	}
	statsCmd.Flags().StringVar(&statsFormat, "format", FormatTable, "Output format: table or json")

	// Groups command
	groupsFormat := FormatTable
	groupsCmd := &cobra.Command{
		Use:   "groups",
		Short: "List the groups in use",
		Args:  cobra.NoArgs,
		RunE: r.runClient(func(ctx context.Context, app *App, args []string) error {
			return NewGroupsCommand(app, groupsFormat).Execute(ctx, args)
		}),
	}
	groupsCmd.Flags().StringVar(&groupsFormat, "format", FormatTable, "Output format: table or json")

	// Add all subcommands to root
	r.cmd.AddCommand(
		serveCmd,
		listCmd,
		showCmd,
		addCmd,
		editCmd,
		doneCmd,
		priorityCmd,
		deleteCmd,
		exportCmd,
		importCmd,
		statsCmd,
		groupsCmd,
	)
}

// runClient wraps a client command: it loads a store under the application
// timeout, tells the user when the session is offline and closes the cache.
func (r *RootCommand) runClient(run func(ctx context.Context, app *App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		timeout := r.getAppTimeout()
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		st, closeStore, err := r.factory.CreateStore(ctx)
		if err != nil {
			return r.checkTimeout(ctx, cmd.Name(), timeout, err)
		}
		defer closeStore()

		app := NewApp(st, r.streams)
		app.notifyOffline()
		err = run(ctx, app, args)
		app.notifyOffline()
		if err != nil && errors.ShouldLogError(err) {
			r.logger.Debug("command failed", "command", cmd.Name(), "err", err)
		}
		return r.checkTimeout(ctx, cmd.Name(), timeout, err)
	}
}

// checkTimeout replaces err with a timeout error when the application
// deadline expired while the command ran.
func (r *RootCommand) checkTimeout(ctx context.Context, name string, timeout time.Duration, err error) error {
	if err == nil || ctx.Err() != context.DeadlineExceeded {
		return err
	}
	return NewErrorHandler().HandleSimple(errors.NewTimeoutError(name, timeout))
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second // Default timeout
}

// getConfigFromFlags loads the configuration with the command-line flags
// applied on top and builds the logger and factory from it
func (r *RootCommand) getConfigFromFlags() error {
	if r.loader == nil {
		return fmt.Errorf("configuration loader not initialized")
	}

	flags := r.cmd.PersistentFlags()
	overrides := &config.ConfigOverrides{}

	if flags.Changed("config") {
		v, _ := flags.GetString("config")
		overrides.ConfigFile = &v
	}

	// Server configuration
	if flags.Changed("port") {
		v, _ := flags.GetInt("port")
		overrides.Port = &v
	}
	if flags.Changed("static-dir") {
		v, _ := flags.GetString("static-dir")
		overrides.StaticDir = &v
	}

	// Database configuration
	if flags.Changed("db-driver") {
		v, _ := flags.GetString("db-driver")
		overrides.DBDriver = &v
	}
	if flags.Changed("db-path") {
		v, _ := flags.GetString("db-path")
		overrides.DBPath = &v
	}

	// Client configuration
	if flags.Changed("api-url") {
		v, _ := flags.GetString("api-url")
		overrides.APIURL = &v
	}
	if flags.Changed("client-timeout") {
		v, _ := flags.GetDuration("client-timeout")
		overrides.ClientTimeout = &v
	}
	if flags.Changed("cache-path") {
		v, _ := flags.GetString("cache-path")
		overrides.CachePath = &v
	}

	// Logging configuration
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		overrides.LogLevel = &v
	}
	if flags.Changed("log-format") {
		v, _ := flags.GetString("log-format")
		overrides.LogFormat = &v
	}

	// Application configuration
	if flags.Changed("app-timeout") {
		v, _ := flags.GetDuration("app-timeout")
		overrides.Timeout = &v
	}

	cfg, err := r.loader.LoadWithOverrides(overrides)
	if err != nil {
		return err
	}
	r.config = cfg
	r.logger = logging.New(r.streams.ErrOut, cfg.LoggingOptions())
	r.factory = NewFactory(cfg, r.logger)
	if r.configure != nil {
		r.configure(r.factory)
	}
	return nil
}
