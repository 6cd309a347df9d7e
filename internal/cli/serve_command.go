package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"todo-manager/internal/api"
	"todo-manager/internal/config"
)

// ServeCommand handles the serve command
type ServeCommand struct {
	config  *config.Config
	factory *Factory
	logger  *log.Logger
}

// NewServeCommand creates a new serve command handler
func NewServeCommand(cfg *config.Config, factory *Factory, logger *log.Logger) *ServeCommand {
	return &ServeCommand{config: cfg, factory: factory, logger: logger}
}

// Execute runs the REST API until ctx is cancelled or the process receives
// SIGINT or SIGTERM
func (c *ServeCommand) Execute(ctx context.Context, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := c.factory.CreateRepository(ctx)
	if err != nil {
		return err
	}

	server := api.NewServer(repo, c.logger, api.Options{
		StaticDir:       c.config.Server.StaticDir,
		ShutdownTimeout: c.config.Server.ShutdownTimeout,
	})
	c.logger.Info("starting todo server", "addr", c.config.Addr(), "driver", c.config.Database.Driver)
	if err := server.Run(ctx, c.config.Addr()); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	c.logger.Info("todo server stopped")
	return nil
}
