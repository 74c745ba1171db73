package common

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// WriteJSON serializes payload to JSON with status and logs on failure.
func WriteJSON(logger zerolog.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// WriteMessage writes {"message": message}.
func WriteMessage(logger zerolog.Logger, w http.ResponseWriter, status int, message string) {
	WriteJSON(logger, w, status, map[string]string{"message": message})
}

// WriteInternalError logs err with the request id and writes 500 {"message", "error"}.
func WriteInternalError(logger zerolog.Logger, w http.ResponseWriter, r *http.Request, message string, err error) {
	logger.Error().
		Err(err).
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg(message)
	body := map[string]string{"message": message}
	if err != nil {
		body["error"] = err.Error()
	}
	WriteJSON(logger, w, http.StatusInternalServerError, body)
}
