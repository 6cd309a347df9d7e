// Package cache keeps a device-local snapshot of the todo list in a sqlite
// key/value table. It stands in for the remote store while that is down.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"todo-manager/internal/domain"
	"todo-manager/internal/errors"
	"todo-manager/internal/validation"

	_ "modernc.org/sqlite"
)

// SnapshotKey is the key the todo snapshot is stored under.
const SnapshotKey = "todoManager_todos"

// DefaultMaxBytes bounds a snapshot the way browser storage quotas do.
const DefaultMaxBytes = 5 << 20

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLiteCache implements store.LocalCache. Failures are logged and never
// returned; an unreadable snapshot reads as empty.
type SQLiteCache struct {
	db       *sql.DB
	maxBytes int
	logger   *log.Logger
	now      func() time.Time
}

// Open opens (creating if needed) the cache database at path. maxBytes <= 0
// selects DefaultMaxBytes.
func Open(path string, maxBytes int, logger *log.Logger) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.NewLocalCacheError("open cache", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, errors.NewLocalCacheError("configure cache", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.NewLocalCacheError("create cache table", err)
	}

	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &SQLiteCache{db: db, maxBytes: maxBytes, logger: logger, now: time.Now}, nil
}

// Close closes the cache database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// ReadSnapshot returns the cached todos, or an empty list when there is no
// snapshot or it cannot be decoded.
func (c *SQLiteCache) ReadSnapshot(ctx context.Context) []domain.Task {
	var value string
	err := c.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, SnapshotKey).Scan(&value)
	if err == sql.ErrNoRows {
		return []domain.Task{}
	}
	if err != nil {
		c.logger.Error("reading local cache", "err", errors.NewLocalCacheError("read snapshot", err))
		return []domain.Task{}
	}

	tasks, err := validation.ParseSnapshot([]byte(value), c.now())
	if err != nil {
		c.logger.Error("discarding corrupt local cache", "err", errors.NewLocalCacheError("decode snapshot", err))
		return []domain.Task{}
	}
	return tasks
}

// WriteSnapshot overwrites the cached snapshot with tasks. A snapshot larger
// than the quota is not written.
func (c *SQLiteCache) WriteSnapshot(ctx context.Context, tasks []domain.Task) {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		c.logger.Error("writing local cache", "err", errors.NewLocalCacheError("encode snapshot", err))
		return
	}
	if len(data) > c.maxBytes {
		quotaErr := fmt.Errorf("snapshot of %s exceeds quota of %s",
			humanize.IBytes(uint64(len(data))), humanize.IBytes(uint64(c.maxBytes)))
		c.logger.Error("writing local cache", "err", errors.NewLocalCacheError("write snapshot", quotaErr))
		return
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		SnapshotKey, string(data), c.now().UTC().Format(time.RFC3339))
	if err != nil {
		c.logger.Error("writing local cache", "err", errors.NewLocalCacheError("write snapshot", err))
		return
	}
	c.logger.Debug("local cache written", "todos", len(tasks), "size", humanize.Bytes(uint64(len(data))))
}

// UpdatedAt reports when the snapshot was last written.
func (c *SQLiteCache) UpdatedAt(ctx context.Context) (time.Time, bool) {
	var raw string
	if err := c.db.QueryRowContext(ctx, `SELECT updated_at FROM kv WHERE key = ?`, SnapshotKey).Scan(&raw); err != nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
