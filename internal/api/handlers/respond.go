package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/amaumene/gomeshelf/internal/models"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON encodes v with the given status code
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an {"error": message} body
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// decodeBody reads a JSON request body into v
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return models.Invalid("Invalid request body")
	}
	return nil
}

// writeFailure maps a controller error onto a status code. Internal and
// upstream details are logged and replaced by fallback.
func writeFailure(w http.ResponseWriter, logger *logrus.Logger, err error, fallback string) {
	var validation *models.ValidationError
	var upstream *models.UpstreamError

	switch {
	case errors.As(err, &validation):
		WriteError(w, http.StatusBadRequest, validation.Message)
	case errors.Is(err, models.ErrInvalidMediaType):
		WriteError(w, http.StatusBadRequest, "Invalid media type")
	case errors.Is(err, models.ErrBadCredentials):
		WriteError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, models.ErrSetupComplete):
		WriteError(w, http.StatusForbidden, "Setup has already been completed. Users already exist.")
	case errors.Is(err, models.ErrNotFound):
		WriteError(w, http.StatusNotFound, "Media item not found")
	case errors.Is(err, models.ErrDuplicateEmail):
		WriteError(w, http.StatusConflict, "A user with this email already exists")
	case errors.Is(err, models.ErrNotConfigured):
		WriteError(w, http.StatusInternalServerError, "TMDB API not configured")
	case errors.As(err, &upstream):
		logger.WithError(err).WithField("provider", upstream.Provider).Error(fallback)
		WriteError(w, http.StatusInternalServerError, fallback)
	default:
		logger.WithError(err).Error(fallback)
		WriteError(w, http.StatusInternalServerError, fallback)
	}
}
