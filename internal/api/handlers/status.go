package handlers

import (
	"net/http"

	"github.com/amaumene/gomeshelf/internal/controllers"
	"github.com/sirupsen/logrus"
)

// StatusHandler reports library counts per shelf
type StatusHandler struct {
	media  *controllers.MediaController
	logger *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(media *controllers.MediaController, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		media:  media,
		logger: logger,
	}
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	summary, err := h.media.Summary(r.Context())
	if err != nil {
		writeFailure(w, h.logger, err, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}
