// Package remote talks to the todo REST API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"todo-manager/internal/domain"
	"todo-manager/internal/errors"
)

// Client implements store.RemoteStore over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the API at baseURL. A zero timeout leaves the
// transport default in place.
func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type bulkBody struct {
	Todos []domain.Task `json:"todos"`
}

type countBody struct {
	Count int `json:"count"`
}

type errorBody struct {
	Error string `json:"error"`
}

// ListAll fetches every todo, newest first.
func (c *Client) ListAll(ctx context.Context) ([]domain.Task, error) {
	var todos []domain.Task
	if err := c.do(ctx, "list todos", http.MethodGet, "/api/todos", "", nil, &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []domain.Task{}
	}
	return todos, nil
}

// Create stores a new todo.
func (c *Client) Create(ctx context.Context, task domain.Task) error {
	return c.do(ctx, "create todo", http.MethodPost, "/api/todos", task.ID, task, nil)
}

// Update sends the fields patch sets.
func (c *Client) Update(ctx context.Context, id string, patch domain.Patch) error {
	return c.do(ctx, "update todo", http.MethodPut, todoPath(id), id, patch, nil)
}

// Delete removes a todo.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "delete todo", http.MethodDelete, todoPath(id), id, nil, nil)
}

// BulkUpsert inserts or replaces todos by id.
func (c *Client) BulkUpsert(ctx context.Context, tasks []domain.Task) (int, error) {
	var out countBody
	if err := c.do(ctx, "bulk upsert todos", http.MethodPost, "/api/todos/bulk", "", bulkBody{Todos: nonNil(tasks)}, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// ReplaceAll makes tasks the complete remote list.
func (c *Client) ReplaceAll(ctx context.Context, tasks []domain.Task) (int, error) {
	var out countBody
	if err := c.do(ctx, "replace todos", http.MethodPut, "/api/todos", "", bulkBody{Todos: nonNil(tasks)}, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func todoPath(id string) string {
	return "/api/todos/" + url.PathEscape(id)
}

func nonNil(tasks []domain.Task) []domain.Task {
	if tasks == nil {
		return []domain.Task{}
	}
	return tasks
}

// do performs one request. Transport failures and unexpected statuses become
// RemoteUnavailable errors, 404 on a single todo becomes NotFound and 400 a
// validation error carrying the server's message.
func (c *Client) do(ctx context.Context, op, method, path, id string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.NewRemoteUnavailableError(op, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewRemoteUnavailableError(op, 0, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound && id != "":
		return errors.NewNotFoundError("todo", id)
	case resp.StatusCode == http.StatusBadRequest:
		return errors.NewValidationError(readErrorMessage(resp.Body), nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return errors.NewRemoteUnavailableError(op, resp.StatusCode, fmt.Errorf("%s", readErrorMessage(resp.Body)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NewRemoteUnavailableError(op, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func readErrorMessage(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, 64<<10))
	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return body.Error
	}
	if msg := strings.TrimSpace(string(data)); msg != "" {
		return msg
	}
	return "request rejected"
}
