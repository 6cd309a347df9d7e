package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up the todo routes on router.
func RegisterRoutes(router *mux.Router, c *TodoController) {
	router.HandleFunc("/todos", c.ListTodos).Methods(http.MethodGet)
	router.HandleFunc("/todos", c.CreateTodo).Methods(http.MethodPost)
	router.HandleFunc("/todos", c.ReplaceTodos).Methods(http.MethodPut)
	router.HandleFunc("/todos/bulk", c.BulkTodos).Methods(http.MethodPost)
	router.HandleFunc("/todos/{id}", c.GetTodo).Methods(http.MethodGet)
	router.HandleFunc("/todos/{id}", c.UpdateTodo).Methods(http.MethodPut)
	router.HandleFunc("/todos/{id}", c.DeleteTodo).Methods(http.MethodDelete)
	router.HandleFunc("/stats", c.GetStats).Methods(http.MethodGet)
	router.HandleFunc("/groups", c.GetGroups).Methods(http.MethodGet)
}
