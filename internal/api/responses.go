package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	app_errors "legalaid/internal/errors"
)

// ErrorResponse defines the standard JSON structure for error messages.
type ErrorResponse struct {
	Error string `json:"error"`
}

// LanguageResponse describes one supported language.
type LanguageResponse struct {
	Code        string `json:"code" example:"es"`
	NativeName  string `json:"native_name" example:"español"`
	EnglishName string `json:"english_name" example:"Spanish"`
	Greeting    string `json:"greeting"`
}

// respondWithError maps business-layer errors to a status code and a JSON
// error body for the /api/v1 endpoints.
func respondWithError(w http.ResponseWriter, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, app_errors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "The requested resource was not found."
	case errors.Is(err, app_errors.ErrValidation):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, app_errors.ErrRateLimited):
		statusCode = http.StatusTooManyRequests
		message = app_errors.ErrRateLimited.Error()
	default:
		statusCode = http.StatusInternalServerError
		message = "An unexpected internal server error occurred."
	}

	slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)

	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// turnErrorResponse maps a turn failure that happened before any answer text
// was written to a status code and a plain-text message.
func turnErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, app_errors.ErrMissingAPIKey):
		return http.StatusInternalServerError, app_errors.MissingAPIKeyMessage
	case errors.Is(err, app_errors.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, app_errors.ErrRateLimited):
		return http.StatusTooManyRequests, app_errors.ErrRateLimited.Error()
	default:
		return http.StatusInternalServerError, "Error processing request: " + err.Error()
	}
}

// respondWithText writes a plain-text body, the format /api/chat clients read.
func respondWithText(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	if _, err := w.Write([]byte(message)); err != nil {
		slog.Warn("Failed to write text response", "error", err)
	}
}

// respondWithJSON is a low-level helper for marshaling a payload to JSON
// and writing it to the http.ResponseWriter with a given status code.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}
