package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"todo-manager/internal/cache"
	"todo-manager/internal/config"
	"todo-manager/internal/errors"
	"todo-manager/internal/remote"
	"todo-manager/internal/repository"
	"todo-manager/internal/repository/neo4j"
	"todo-manager/internal/repository/sqlite"
	"todo-manager/internal/store"
)

// Factory builds the collaborators commands need from the loaded configuration
type Factory struct {
	config     *config.Config
	logger     *log.Logger
	httpClient *http.Client
}

// NewFactory creates a factory for cfg
func NewFactory(cfg *config.Config, logger *log.Logger) *Factory {
	return &Factory{config: cfg, logger: logger}
}

// WithHTTPClient makes the remote client use hc (for testing)
func (f *Factory) WithHTTPClient(hc *http.Client) *Factory {
	f.httpClient = hc
	return f
}

// CreateRepository opens the server-side repository selected by
// database.driver.
func (f *Factory) CreateRepository(ctx context.Context) (repository.Repository, error) {
	db := f.config.Database
	switch db.Driver {
	case config.DriverNeo4j:
		repo, err := neo4j.New(ctx, neo4j.Config{
			URI:      db.Neo4jURI,
			Username: db.Neo4jUser,
			Password: db.Neo4jPassword,
			Database: db.Neo4jDatabase,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize neo4j repository: %w", err)
		}
		return repo, nil
	default:
		if err := ensureParentDir(db.Path); err != nil {
			return nil, err
		}
		repo, err := sqlite.New(db.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return repo, nil
	}
}

// CreateStore opens the local cache, points a remote client at the API and
// loads a store over both. The returned func releases the cache.
func (f *Factory) CreateStore(ctx context.Context) (*store.SyncingTaskStore, func(), error) {
	if err := ensureParentDir(f.config.Cache.Path); err != nil {
		return nil, nil, err
	}
	localCache, err := cache.Open(f.config.Cache.Path, f.config.Cache.MaxBytes, f.logger)
	if err != nil {
		return nil, nil, errors.WrapError(err, errors.ErrorTypeLocalCache, "failed to open local cache")
	}
	closeCache := func() {
		if err := localCache.Close(); err != nil {
			f.logger.Error("failed to close local cache", "err", err)
		}
	}

	var client *remote.Client
	if f.httpClient != nil {
		client = remote.NewWithHTTPClient(f.config.Client.APIURL, f.httpClient)
	} else {
		client = remote.New(f.config.Client.APIURL, f.config.Client.Timeout)
	}

	st := store.New(client, localCache, store.WithLogger(f.logger))
	if err := st.Load(ctx); err != nil {
		closeCache()
		return nil, nil, fmt.Errorf("failed to load todos: %w", err)
	}
	if st.UsingFallback() {
		if saved, ok := localCache.UpdatedAt(ctx); ok {
			f.logger.Info("using local cache", "saved", humanize.Time(saved))
		}
	}
	return st, closeCache, nil
}

// ensureParentDir creates the directory a database file lives in.
func ensureParentDir(path string) error {
	if path == "" || path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
