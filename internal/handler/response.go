package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/efreitasn/qualifier/internal/domain"
)

// Error codes returned by the status API.
const (
	codeRunNotFound      = "run_not_found"
	codeNotFound         = "not_found"
	codeMethodNotAllowed = "method_not_allowed"
	codeInternalError    = "internal_error"
)

// WriteJSON writes data as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// errorResponse is the error body shared by every status endpoint.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes an errorResponse with the given status and code.
func WriteError(w http.ResponseWriter, status int, errorCode, message string) {
	WriteJSON(w, status, errorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// writeRunError maps run store errors to HTTP responses.
func writeRunError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrRunNotFound) {
		WriteError(w, http.StatusNotFound, codeRunNotFound, "Run not found")
		return
	}
	WriteError(w, http.StatusInternalServerError, codeInternalError, "An unexpected error occurred")
}

func notFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusNotFound, codeNotFound, "No route for "+r.URL.Path)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, r.Method+" is not allowed on "+r.URL.Path)
}
