// Package respond writes the JSON envelope shared by every endpoint.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/isdelr/recipes-be/internal/apperr"
	"github.com/rs/zerolog/log"
)

// Envelope is the uniform response body.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Int("status", status).Msg("Failed to encode response")
	}
}

// Data writes a successful envelope carrying data.
func Data(w http.ResponseWriter, status int, data any) {
	JSON(w, status, Envelope{Success: true, Data: data})
}

// Message writes a successful envelope carrying only a message.
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Success: true, Message: message})
}

// Error writes an error envelope. Errors that are not *apperr.Error are
// reported as UNKNOWN.
func Error(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.ErrUnknown.WithCause(err)
	}
	JSON(w, appErr.HTTPStatus(), Envelope{
		Success: false,
		Message: appErr.Message,
		Code:    appErr.Code,
	})
}
