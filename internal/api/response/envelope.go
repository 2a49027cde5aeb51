package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the standard API response wrapper. Domain success or failure
// is carried in Success; the transport status stays 200 for both.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// FieldErrors maps a request field to its validation messages.
type FieldErrors map[string][]string

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Success writes a 200 envelope with success=true.
func Success(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Failure writes a 200 envelope with success=false and null data.
func Failure(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, Envelope{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// Err writes a failure envelope with a non-200 status, for errors raised
// outside the resource handlers (authentication, panics).
func Err(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// ValidationFailed writes the field errors as a bare 422 JSON object.
func ValidationFailed(w http.ResponseWriter, errs FieldErrors) {
	JSON(w, http.StatusUnprocessableEntity, errs)
}
