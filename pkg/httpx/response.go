package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code. It sets the
// Content-Type and no-store cache headers; auth responses must never be
// cached.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// ErrorResponse is the boundary error payload: a short machine-readable code.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteError writes a structured error response.
func WriteError(w http.ResponseWriter, code int, errCode string) {
	WriteJSON(w, code, ErrorResponse{Error: errCode})
}

// FieldErrorResponse carries field-level validation detail.
type FieldErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// WriteFieldErrors writes a 400 validation response with per-field messages.
func WriteFieldErrors(w http.ResponseWriter, fields map[string]string) {
	WriteJSON(w, http.StatusBadRequest, FieldErrorResponse{Error: "validation_failed", Fields: fields})
}
