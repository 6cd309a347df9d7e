// Package api serves the todo REST API over a services.ServiceContainer.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"todo-manager/internal/repository"
	"todo-manager/internal/services"
)

// Options configures a Server.
type Options struct {
	StaticDir       string
	ShutdownTimeout time.Duration
}

// Server owns the router and the repository behind it.
type Server struct {
	services *services.ServiceContainer
	repo     repository.Repository
	logger   *log.Logger
	opts     Options
	now      func() time.Time
	router   *mux.Router
}

// NewServer builds a server around repo. The repository is closed when Run returns.
func NewServer(repo repository.Repository, logger *log.Logger, opts Options) *Server {
	s := &Server{
		repo:   repo,
		logger: logger,
		opts:   opts,
		now:    time.Now,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.recoverPanics, s.logRequests)

	s.services = services.NewServiceContainer(s.repo, s.now)

	controller := NewTodoController(s.services, s.logger, s.now)
	RegisterRoutes(router.PathPrefix("/api").Subrouter(), controller)

	if s.opts.StaticDir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.opts.StaticDir))).Methods(http.MethodGet, http.MethodHead)
	}
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	return router
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests
// for the shutdown timeout and closes the repository.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.repo.Close()
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer func() {
		if err := s.repo.Close(); err != nil {
			s.logger.Error("closing repository", "err", err)
		} else {
			s.logger.Info("database connection closed")
		}
	}()

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("todo server running", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx := context.Background()
	if s.opts.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, s.opts.ShutdownTimeout)
		defer cancel()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
