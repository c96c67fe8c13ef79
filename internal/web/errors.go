package web

// errors.go provides unified JSON error responses.
//
// Handlers call respondError with a status code; the technical error is
// logged server-side with the request ID while the client receives the
// mapped user-facing message from core.MapError.

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/orgstack/migration-api/internal/core"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error  string `json:"error"`
	Action string `json:"action,omitempty"`
	Code   string `json:"code"`

	// Row-level detail, present for batch validation failures.
	Row   *int   `json:"row,omitempty"`
	Field string `json:"field,omitempty"`
}

// respondError logs the technical error and writes the mapped
// user-facing JSON response.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	resp := ErrorResponse{
		Error:  userMsg.Message,
		Action: userMsg.Action,
		Code:   userMsg.Code,
	}

	// Attach row detail when the error identifies a batch row.
	var batchErr *core.BatchError
	if errors.As(err, &batchErr) {
		row := batchErr.Row
		resp.Row = &row
		resp.Field = batchErr.Field
	}

	writeJSONStatus(w, statusCode, resp)
}

// decodeJSON decodes a JSON request body into v.
func decodeJSON(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}

// writeJSON writes v as a 200 JSON response.
func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

// writeJSONStatus writes v as JSON with the given status code.
func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
