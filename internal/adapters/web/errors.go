package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"erp-core/internal/core"

	"github.com/go-chi/chi/v5/middleware"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: middleware.GetReqID(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeDomainError maps engine errors onto HTTP statuses: missing
// definitions are 404, overflow is a 422 configuration problem, and
// counter conflicts are 409 with a retry hint.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var overflow *core.SequenceOverflowError
	switch {
	case errors.Is(err, core.ErrDefinitionNotFound):
		writeError(w, r, err.Error(), "DEFINITION_NOT_FOUND", http.StatusNotFound)
	case errors.As(err, &overflow):
		writeError(w, r, overflow.Error(), "SEQUENCE_OVERFLOW", http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrSequenceConflict):
		writeError(w, r, err.Error(), "SEQUENCE_CONFLICT", http.StatusConflict)
	default:
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
