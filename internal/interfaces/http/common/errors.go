package common

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/sngm3741/survey-services/api/internal/apperr"
)

// StatusFor maps the apperr sentinels onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, apperr.ErrInvalidID), errors.Is(err, apperr.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes {"message": message} with the status mapped from err.
// Unmapped errors are logged and reported as 500.
func WriteError(logger zerolog.Logger, w http.ResponseWriter, r *http.Request, message string, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		WriteInternalError(logger, w, r, message, err)
		return
	}
	if status == http.StatusForbidden {
		message = MessageForbidden
	}
	WriteMessage(logger, w, status, message)
}
