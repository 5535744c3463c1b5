package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"smallbiz-ledger/internal/config"
	"smallbiz-ledger/internal/core"
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
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps the core error taxonomy to HTTP statuses. Driver
// details are logged, never returned to the client.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var (
		validationErr *core.ValidationError
		notFoundErr   *core.NotFoundError
		stockErr      *core.InsufficientStockError
		dbErr         *core.DatabaseError
	)
	switch {
	case errors.As(err, &validationErr):
		writeError(w, r, validationErr.Error(), "VALIDATION_ERROR", http.StatusBadRequest)
	case errors.As(err, &notFoundErr):
		writeError(w, r, notFoundErr.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.As(err, &stockErr):
		writeError(w, r, stockErr.Error(), "INSUFFICIENT_STOCK", http.StatusConflict)
	case errors.As(err, &dbErr) && dbErr.Retryable:
		config.LogError(h.logger, "web", op, requestIDFromContext(r.Context()), err)
		w.Header().Set("Retry-After", "1")
		writeError(w, r, "transient database conflict, retry the request", "RETRYABLE_DB_ERROR", http.StatusServiceUnavailable)
	case errors.As(err, &dbErr):
		config.LogError(h.logger, "web", op, requestIDFromContext(r.Context()), err)
		writeError(w, r, "database error", "DATABASE_ERROR", http.StatusInternalServerError)
	default:
		config.LogError(h.logger, "web", op, requestIDFromContext(r.Context()), err)
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
