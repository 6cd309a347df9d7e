// Package neo4j stores todos as (:Todo) nodes in a Neo4j graph.
package neo4j

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"todo-manager/internal/errors"
	"todo-manager/internal/repository"
)

// Config holds connection settings.
type Config struct {
	URI      string
	Username string
	Password string
	Database string // empty selects the server default
}

// Neo4jRepository implements repository.Repository on a Neo4j driver.
type Neo4jRepository struct {
	driver   neo4j.DriverWithContext
	database string
	now      func() time.Time
}

var _ repository.Repository = (*Neo4jRepository)(nil)

// New connects to Neo4j, verifies connectivity and ensures the id constraint.
func New(ctx context.Context, cfg Config) (*Neo4jRepository, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, errors.NewDatabaseError("open neo4j driver", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, errors.NewDatabaseError("connect to neo4j", err)
	}

	r := &Neo4jRepository{driver: driver, database: cfg.Database, now: time.Now}
	if err := r.ensureSchema(ctx); err != nil {
		driver.Close(ctx)
		return nil, err
	}
	return r, nil
}

func (r *Neo4jRepository) ensureSchema(ctx context.Context) error {
	_, err := r.write(ctx, "ensure schema", func(tx neo4j.ManagedTransaction) (any, error) {
		return consume(ctx, tx, "CREATE CONSTRAINT todo_id IF NOT EXISTS FOR (t:Todo) REQUIRE t.id IS UNIQUE", nil)
	})
	return err
}

// Close closes the driver.
func (r *Neo4jRepository) Close() error {
	return r.driver.Close(context.Background())
}

func (r *Neo4jRepository) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode, DatabaseName: r.database})
}

func (r *Neo4jRepository) read(ctx context.Context, operation string, work neo4j.ManagedTransactionWork) (any, error) {
	session := r.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, work)
	if err != nil {
		return nil, mapError(operation, err)
	}
	return result, nil
}

func (r *Neo4jRepository) write(ctx context.Context, operation string, work neo4j.ManagedTransactionWork) (any, error) {
	session := r.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, work)
	if err != nil {
		return nil, mapError(operation, err)
	}
	return result, nil
}

const returnTodo = `RETURN t.id AS id, t.title AS title, t.description AS description,
	t.priority AS priority, t.group_name AS group_name, t.status AS status,
	t.due_date AS due_date, t.created_at AS created_at, t.completed_at AS completed_at`

// ListTodos returns every todo, newest first.
func (r *Neo4jRepository) ListTodos(ctx context.Context) ([]*repository.Todo, error) {
	result, err := r.read(ctx, "list todos", func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, "MATCH (t:Todo) "+returnTodo+" ORDER BY t.created_at DESC, t.seq ASC", nil)
		if err != nil {
			return nil, err
		}

		todos := make([]*repository.Todo, 0)
		for res.Next(ctx) {
			todo, err := recordToTodo(res.Record().AsMap())
			if err != nil {
				return nil, err
			}
			todos = append(todos, todo)
		}
		return todos, res.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.([]*repository.Todo), nil
}

// GetTodo retrieves a todo by ID.
func (r *Neo4jRepository) GetTodo(ctx context.Context, id string) (*repository.Todo, error) {
	result, err := r.read(ctx, "get todo", func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, "MATCH (t:Todo {id: $id}) "+returnTodo, map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		if res.Next(ctx) {
			return recordToTodo(res.Record().AsMap())
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return (*repository.Todo)(nil), nil
	})
	if err != nil {
		return nil, err
	}
	todo := result.(*repository.Todo)
	if todo == nil {
		return nil, errors.NewNotFoundError("todo", id)
	}
	return todo, nil
}

// CreateTodo creates a node. A clashing id is a validation error.
func (r *Neo4jRepository) CreateTodo(ctx context.Context, todo *repository.Todo) error {
	props := todoToProps(todo, r.now())
	_, err := r.write(ctx, "create todo", func(tx neo4j.ManagedTransaction) (any, error) {
		return consume(ctx, tx, `CREATE (t:Todo) SET t = $props, t.seq = timestamp()`, map[string]any{"props": props})
	})
	if isConstraintViolation(err) {
		return errors.NewValidationError("a todo with this id already exists", err).WithContext("id", todo.ID)
	}
	return err
}

// UpdateTodo changes only the properties set in update.
func (r *Neo4jRepository) UpdateTodo(ctx context.Context, id string, update repository.TodoUpdate) error {
	props := updateToProps(update)
	result, err := r.write(ctx, "update todo", func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `MATCH (t:Todo {id: $id}) SET t += $props RETURN count(t) AS n`,
			map[string]any{"id": id, "props": props})
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		n, _ := record.Get("n")
		return n, nil
	})
	if err != nil {
		return err
	}
	if n, _ := result.(int64); n == 0 {
		return errors.NewNotFoundError("todo", id)
	}
	return nil
}

// DeleteTodo deletes a todo by ID.
func (r *Neo4jRepository) DeleteTodo(ctx context.Context, id string) error {
	result, err := r.write(ctx, "delete todo", func(tx neo4j.ManagedTransaction) (any, error) {
		summary, err := consume(ctx, tx, `MATCH (t:Todo {id: $id}) DETACH DELETE t`, map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		return summary.Counters().NodesDeleted(), nil
	})
	if err != nil {
		return err
	}
	if result.(int) == 0 {
		return errors.NewNotFoundError("todo", id)
	}
	return nil
}

// UpsertTodos merges todos by id in one transaction.
func (r *Neo4jRepository) UpsertTodos(ctx context.Context, todos []*repository.Todo) (int, error) {
	rows := r.propsList(todos)
	_, err := r.write(ctx, "upsert todos", func(tx neo4j.ManagedTransaction) (any, error) {
		return consume(ctx, tx, `UNWIND $rows AS row
			MERGE (t:Todo {id: row.props.id})
			SET t = row.props, t.seq = row.seq`, map[string]any{"rows": rows})
	})
	if err != nil {
		return 0, err
	}
	return len(todos), nil
}

// ReplaceTodos swaps every todo node for todos in one transaction.
func (r *Neo4jRepository) ReplaceTodos(ctx context.Context, todos []*repository.Todo) (int, error) {
	rows := r.propsList(todos)
	_, err := r.write(ctx, "replace todos", func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := consume(ctx, tx, `MATCH (t:Todo) DETACH DELETE t`, nil); err != nil {
			return nil, err
		}
		return consume(ctx, tx, `UNWIND $rows AS row
			CREATE (t:Todo) SET t = row.props, t.seq = row.seq`, map[string]any{"rows": rows})
	})
	if isConstraintViolation(err) {
		return 0, errors.NewValidationError("duplicate todo id in batch", err)
	}
	if err != nil {
		return 0, err
	}
	return len(todos), nil
}

// propsList builds UNWIND rows; seq keeps batch order stable for equal created_at.
func (r *Neo4jRepository) propsList(todos []*repository.Todo) []any {
	now := r.now()
	base := now.UnixMilli()
	rows := make([]any, len(todos))
	for i, todo := range todos {
		rows[i] = map[string]any{"props": todoToProps(todo, now), "seq": base + int64(i)}
	}
	return rows
}

func consume(ctx context.Context, tx neo4j.ManagedTransaction, cypher string, params map[string]any) (neo4j.ResultSummary, error) {
	res, err := tx.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	return res.Consume(ctx)
}

func isConstraintViolation(err error) bool {
	var neoErr *neo4j.Neo4jError
	return err != nil && stderrors.As(err, &neoErr) && strings.Contains(neoErr.Code, "ConstraintValidationFailed")
}

func mapError(operation string, err error) error {
	if errors.IsAppError(err) {
		return err
	}
	if isConstraintViolation(err) {
		// Callers turn this into a validation error with context.
		return err
	}
	return errors.NewDatabaseError(operation, fmt.Errorf("neo4j: %w", err))
}
