package api

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse acknowledges a write.
type MessageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

// BulkRequest carries the todos of a bulk or replace call.
type BulkRequest struct {
	Todos json.RawMessage `json:"todos"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
