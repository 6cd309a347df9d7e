// Package sqlite stores todos in a sqlite database.
package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"todo-manager/internal/errors"
	"todo-manager/internal/repository"
	"todo-manager/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// SQLiteRepository implements repository.Repository
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ repository.Repository = (*SQLiteRepository)(nil)

// New creates a new SQLite repository instance. dbPath may be ":memory:".
func New(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}
	// One connection serializes writers and keeps an in-memory database alive.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("configure database", err)
	}

	// Run migrations
	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{db: db, now: time.Now}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// ListTodos returns every todo, newest first
func (r *SQLiteRepository) ListTodos(ctx context.Context) ([]*repository.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos ORDER BY created_at DESC, rowid ASC`
	return QueryMultiple(ctx, r.db, query, ScanTodos, "todos")
}

// GetTodo retrieves a todo by ID
func (r *SQLiteRepository) GetTodo(ctx context.Context, id string) (*repository.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = ?`
	return QuerySingle(ctx, r.db, query, ScanTodo, "todo", id, id)
}

const insertColumns = `(id, title, description, priority, group_name, status, due_date, created_at, completed_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (r *SQLiteRepository) insertArgs(todo *repository.Todo) []interface{} {
	createdAt := todo.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now()
	}
	return []interface{}{
		todo.ID,
		todo.Title,
		NullableString(todo.Description),
		orDefault(todo.Priority, "medium"),
		orDefault(todo.GroupName, "personal"),
		orDefault(todo.Status, "pending"),
		NullableStringPtr(todo.DueDate),
		FormatTimeForDB(createdAt),
		FormatTimePtrForDB(todo.CompletedAt),
	}
}

// CreateTodo inserts a new todo. A clashing id is a validation error.
func (r *SQLiteRepository) CreateTodo(ctx context.Context, todo *repository.Todo) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO todos `+insertColumns, r.insertArgs(todo)...)
	if err != nil {
		return HandleInsertError(err, todo.ID)
	}
	return nil
}

// UpdateTodo changes only the columns set in update
func (r *SQLiteRepository) UpdateTodo(ctx context.Context, id string, update repository.TodoUpdate) error {
	var sets []string
	var args []interface{}

	add := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if update.Title != nil {
		add("title", *update.Title)
	}
	if update.Description != nil {
		add("description", NullableString(*update.Description))
	}
	if update.Priority != nil {
		add("priority", *update.Priority)
	}
	if update.GroupName != nil {
		add("group_name", *update.GroupName)
	}
	if update.Status != nil {
		add("status", *update.Status)
	}
	if update.DueDate.Set {
		add("due_date", NullableStringPtr(update.DueDate.Value))
	}
	if update.CompletedAt.Set {
		add("completed_at", FormatTimePtrForDB(update.CompletedAt.Value))
	}

	if len(sets) == 0 {
		// Nothing to change, but an unknown id is still reported.
		_, err := r.GetTodo(ctx, id)
		return err
	}

	query := `UPDATE todos SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	args = append(args, id)
	return ExecuteWithRowsAffected(ctx, r.db, query, "todo", id, args...)
}

// DeleteTodo deletes a todo by ID
func (r *SQLiteRepository) DeleteTodo(ctx context.Context, id string) error {
	query := `DELETE FROM todos WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, r.db, query, "todo", id, id)
}

// UpsertTodos inserts or replaces todos in one transaction
func (r *SQLiteRepository) UpsertTodos(ctx context.Context, todos []*repository.Todo) (int, error) {
	return r.inTx(ctx, "upsert todos", func(tx *sql.Tx) (int, error) {
		return r.insertAll(ctx, tx, `INSERT OR REPLACE INTO todos `+insertColumns, todos)
	})
}

// ReplaceTodos swaps the whole table for todos in one transaction
func (r *SQLiteRepository) ReplaceTodos(ctx context.Context, todos []*repository.Todo) (int, error) {
	return r.inTx(ctx, "replace todos", func(tx *sql.Tx) (int, error) {
		if _, err := tx.ExecContext(ctx, `DELETE FROM todos`); err != nil {
			return 0, err
		}
		return r.insertAll(ctx, tx, `INSERT INTO todos `+insertColumns, todos)
	})
}

func (r *SQLiteRepository) insertAll(ctx context.Context, tx *sql.Tx, query string, todos []*repository.Todo) (int, error) {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, todo := range todos {
		if _, err := stmt.ExecContext(ctx, r.insertArgs(todo)...); err != nil {
			return 0, HandleInsertError(err, todo.ID)
		}
	}
	return len(todos), nil
}

func (r *SQLiteRepository) inTx(ctx context.Context, operation string, fn func(tx *sql.Tx) (int, error)) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, HandleDatabaseError(operation, err)
	}

	n, err := fn(tx)
	if err != nil {
		tx.Rollback()
		if errors.IsAppError(err) {
			return 0, err
		}
		return 0, HandleDatabaseError(operation, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, HandleDatabaseError(operation, err)
	}
	return n, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
