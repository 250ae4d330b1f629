// Package httputil provides JSON response helpers shared by handlers and middleware.
package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmynk/shopboard/internal/apperr"
)

// Error codes rendered in the "code" field of error bodies.
const (
	CodeValidation         = "validation_error"
	CodeNotFound           = "not_found"
	CodeConflict           = "conflict"
	CodeInvalidCredentials = "invalid_credentials"
	CodeUnauthenticated    = "unauthenticated"
	CodeUpstream           = "upstream_error"
	CodeInternal           = "internal"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// JSONResponse writes a JSON response with the given status code.
func JSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("Failed to encode response", "status", status, "error", err)
	}
}

// ErrorResponse writes a JSON error response.
func ErrorResponse(w http.ResponseWriter, status int, body ErrorBody) {
	JSONResponse(w, status, body)
}

// WriteError classifies err and writes the matching status and body.
// Unclassified errors are logged and rendered as a generic 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := Classify(err)
	if status == http.StatusInternalServerError {
		slog.Error("Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	ErrorResponse(w, status, body)
}

// Classify maps an error to its HTTP status and response body.
func Classify(err error) (int, ErrorBody) {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, ErrorBody{Error: verr.Error(), Code: CodeValidation, Field: verr.Field}
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest, ErrorBody{Error: err.Error(), Code: CodeValidation}
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, ErrorBody{Error: err.Error(), Code: CodeNotFound}
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict, ErrorBody{Error: err.Error(), Code: CodeConflict}
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrorBody{Error: apperr.ErrInvalidCredentials.Error(), Code: CodeInvalidCredentials}
	case errors.Is(err, apperr.ErrUnauthenticated):
		return http.StatusUnauthorized, ErrorBody{Error: err.Error(), Code: CodeUnauthenticated}
	case errors.Is(err, apperr.ErrUpstream):
		return http.StatusBadGateway, ErrorBody{Error: "payment provider unavailable", Code: CodeUpstream}
	default:
		return http.StatusInternalServerError, ErrorBody{Error: "internal server error", Code: CodeInternal}
	}
}
