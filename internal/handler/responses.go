package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/polarisfn/Polaris_Go/internal/domain"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Encode to a pooled buffer first; headers are already sent if this fails.
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// Client-facing error messages for service errors
const (
	ErrMsgAccountNotFound     = "Failed to find Account."
	ErrMsgProfileNotFound     = "Failed to find Profile."
	ErrMsgOperationNotFound   = "Operation not found"
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."
	ErrMsgItemNotFound        = "Item not found."
	ErrMsgFileNotFound        = "File not found."
	ErrMsgFileTooLarge        = "File size exceeds the allowed limit."
	ErrMsgInternalServerError = "Internal server error."
)

// mapServiceErrorToResponse converts domain errors to HTTP status codes and
// messages the game client understands.
func mapServiceErrorToResponse(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgInternalServerError
	}

	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, ErrMsgAccountNotFound
	case errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound, ErrMsgProfileNotFound
	case errors.Is(err, domain.ErrUnknownCommand):
		return http.StatusNotFound, ErrMsgOperationNotFound
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, ErrMsgItemNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestError
	case errors.Is(err, domain.ErrSettingsTooLarge):
		return http.StatusForbidden, ErrMsgFileTooLarge
	}

	return http.StatusInternalServerError, ErrMsgInternalServerError
}
