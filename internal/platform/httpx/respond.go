// Package httpx provides HTTP request and response utilities.
package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Body is the envelope used for every non-entity response.
type Body struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	ID      *int64 `json:"id,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Message sends {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, Body{Message: msg})
}

// Created sends {"message": msg, "id": id}.
func Created(w http.ResponseWriter, status int, msg string, id int64) {
	JSON(w, status, Body{Message: msg, ID: &id})
}

// Error sends {"error": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, Body{Error: msg})
}

// Fail sends {"message": msg, "error": err}.
func Fail(w http.ResponseWriter, status int, msg string, err error) {
	body := Body{Message: msg}
	if err != nil {
		body.Error = err.Error()
	}
	JSON(w, status, body)
}

// PathID parses the {id} URL parameter.
func PathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
