package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"todo-manager/internal/domain"
	"todo-manager/internal/errors"
	"todo-manager/internal/services"
)

// TodoController handles HTTP requests for todos.
type TodoController struct {
	services *services.ServiceContainer
	logger   *log.Logger
	now      func() time.Time
}

// NewTodoController creates a new TodoController.
func NewTodoController(svc *services.ServiceContainer, logger *log.Logger, now func() time.Time) *TodoController {
	return &TodoController{services: svc, logger: logger, now: now}
}

// fail answers with the status err maps to. Server-side failures log the
// cause and answer with fallback so internals never reach the client.
func (c *TodoController) fail(w http.ResponseWriter, err error, fallback string) {
	status := errors.HTTPStatus(err)
	switch {
	case status >= http.StatusInternalServerError:
		c.logger.Error(fallback, "err", err)
		writeError(w, status, fallback)
	case status == http.StatusNotFound:
		writeError(w, status, "Todo not found")
	default:
		writeError(w, status, errors.GetUserMessage(err))
	}
}

// ListTodos handles GET /api/todos. Optional query parameters priority,
// status, group, q and sort narrow and order the listing.
func (c *TodoController) ListTodos(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	todos, err := c.services.SearchService.SearchTodos(r.Context(), criteria)
	if err != nil {
		c.fail(w, err, "Failed to fetch todos")
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

func parseCriteria(r *http.Request) (services.SearchCriteria, error) {
	q := r.URL.Query()
	criteria := services.SearchCriteria{
		Filters: domain.Filters{
			Priority: q.Get("priority"),
			Status:   q.Get("status"),
			Group:    q.Get("group"),
		}.Normalize(),
		TextFilter: q.Get("q"),
	}

	if p := criteria.Filters.Priority; p != domain.All {
		if _, err := domain.ParsePriority(p); err != nil {
			return criteria, err
		}
	}
	if s := criteria.Filters.Status; s != domain.All {
		if _, err := domain.ParseStatus(s); err != nil {
			return criteria, err
		}
	}

	order, ok := services.ParseSortOrder(q.Get("sort"))
	if !ok {
		return criteria, fmt.Errorf("unknown sort order %q", q.Get("sort"))
	}
	criteria.Order = order
	return criteria, nil
}

// GetTodo handles GET /api/todos/{id}.
func (c *TodoController) GetTodo(w http.ResponseWriter, r *http.Request) {
	todo, err := c.services.TodoService.GetTodo(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		c.fail(w, err, "Failed to fetch todo")
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

// CreateTodo handles POST /api/todos.
func (c *TodoController) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var task domain.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	created, err := c.services.TodoService.CreateTodo(r.Context(), task)
	if err != nil {
		c.fail(w, err, "Failed to create todo")
		return
	}
	writeJSON(w, http.StatusCreated, MessageResponse{Message: "Todo created successfully", ID: created.ID})
}

// UpdateTodo handles PUT /api/todos/{id}. Only the keys present in the body
// change; a null dueDate or completedAt clears the field.
func (c *TodoController) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	var patch domain.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if _, err := c.services.TodoService.UpdateTodo(r.Context(), mux.Vars(r)["id"], patch); err != nil {
		c.fail(w, err, "Failed to update todo")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Todo updated successfully"})
}

// DeleteTodo handles DELETE /api/todos/{id}.
func (c *TodoController) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	if err := c.services.TodoService.DeleteTodo(r.Context(), mux.Vars(r)["id"]); err != nil {
		c.fail(w, err, "Failed to delete todo")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Todo deleted successfully"})
}

// BulkTodos handles POST /api/todos/bulk: insert or replace by id.
func (c *TodoController) BulkTodos(w http.ResponseWriter, r *http.Request) {
	todos, ok := c.decodeTodos(w, r)
	if !ok {
		return
	}

	n, err := c.services.TodoService.BulkUpsert(r.Context(), todos)
	if err != nil {
		c.fail(w, err, "Failed to bulk insert todos")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Successfully inserted/updated %d todos", n),
		Count:   &n,
	})
}

// ReplaceTodos handles PUT /api/todos: the body becomes the whole table.
func (c *TodoController) ReplaceTodos(w http.ResponseWriter, r *http.Request) {
	todos, ok := c.decodeTodos(w, r)
	if !ok {
		return
	}

	n, err := c.services.TodoService.ReplaceAll(r.Context(), todos)
	if err != nil {
		c.fail(w, err, "Failed to replace todos")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Successfully replaced todos with %d todos", n),
		Count:   &n,
	})
}

func (c *TodoController) decodeTodos(w http.ResponseWriter, r *http.Request) ([]domain.Task, bool) {
	var req BulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return nil, false
	}
	if raw := bytes.TrimSpace(req.Todos); len(raw) == 0 || raw[0] != '[' {
		writeError(w, http.StatusBadRequest, "Todos must be an array")
		return nil, false
	}

	var todos []domain.Task
	if err := json.Unmarshal(req.Todos, &todos); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid todo in payload")
		return nil, false
	}
	return todos, true
}

// GetStats handles GET /api/stats. The optional today parameter
// (YYYY-MM-DD) decides which todos are overdue.
func (c *TodoController) GetStats(w http.ResponseWriter, r *http.Request) {
	today := domain.DateOf(c.now())
	if raw := r.URL.Query().Get("today"); raw != "" {
		parsed, err := domain.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		today = parsed
	}

	stats, err := c.services.ReportingService.GetStats(r.Context(), today)
	if err != nil {
		c.fail(w, err, "Failed to compute stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetGroups handles GET /api/groups.
func (c *TodoController) GetGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := c.services.ReportingService.GetGroups(r.Context())
	if err != nil {
		c.fail(w, err, "Failed to fetch groups")
		return
	}
	writeJSON(w, http.StatusOK, groups)
}
