// Package handler contains the HTTP layer: request parsing, response
// writing, and the translation from apperror values to status codes.
// Handlers never touch the database and never decide business rules.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/joaovr/travel-map-tracker/internal/apperror"
)

// errorResponse is the wire shape for every error the API returns:
//
//	{"error": "validation_error", "message": "email is required"}
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// The status line is already gone; all we can do is log.
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeError maps an error to a status code and a JSON body.
//
// The mapping follows errors.Is against the apperror sentinels, so wrapped
// errors classify correctly no matter how many layers added context.
// Conflicts map to 400 rather than 409: the client treats "email already
// exists" the same as any other rejected input, and the "conflict" error
// type in the body still tells the two apart.
//
// Anything unclassified is an internal error; the real message goes to the
// log, never to the client.
func writeError(w http.ResponseWriter, err error) {
	var (
		status  int
		errType string
	)
	switch {
	case errors.Is(err, apperror.ErrValidation):
		status, errType = http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperror.ErrConflict):
		status, errType = http.StatusBadRequest, "conflict"
	case errors.Is(err, apperror.ErrUnauthorized):
		status, errType = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, apperror.ErrNotFound):
		status, errType = http.StatusNotFound, "not_found"
	default:
		slog.Error("internal error", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "internal_error",
			Message: "an internal error occurred",
		})
		return
	}

	message := err.Error()
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	writeJSON(w, status, errorResponse{Error: errType, Message: message})
}

// decodeBody parses the request body as JSON into dst. A malformed body is
// a validation failure, reported with the usual error shape.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.ValidationFailed("body", "invalid JSON body")
	}
	return nil
}
