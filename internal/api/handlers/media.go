package handlers

import (
	"net/http"

	"github.com/amaumene/gomeshelf/internal/controllers"
	"github.com/amaumene/gomeshelf/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// MediaHandler serves the media item endpoints
type MediaHandler struct {
	media  *controllers.MediaController
	logger *logrus.Logger
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(media *controllers.MediaController, logger *logrus.Logger) *MediaHandler {
	return &MediaHandler{media: media, logger: logger}
}

type itemResponse struct {
	Item *models.MediaItem `json:"item"`
}

// List returns items, optionally filtered by status and mediaType
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.MediaFilter{
		Status:    models.Status(r.URL.Query().Get("status")),
		MediaType: models.MediaType(r.URL.Query().Get("mediaType")),
	}

	items, err := h.media.List(r.Context(), filter)
	if err != nil {
		writeFailure(w, h.logger, err, "Failed to fetch media items")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// Create adds an item to the backlog
func (h *MediaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.NewMediaItem
	if err := decodeBody(w, r, &req); err != nil {
		writeFailure(w, h.logger, err, "Failed to create media item")
		return
	}

	item, err := h.media.Create(r.Context(), req)
	if err != nil {
		writeFailure(w, h.logger, err, "Failed to create media item")
		return
	}
	WriteJSON(w, http.StatusCreated, itemResponse{Item: item})
}

// Get returns one item
func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.media.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, h.logger, err, "Failed to fetch media item")
		return
	}
	WriteJSON(w, http.StatusOK, itemResponse{Item: item})
}

// Update applies a partial update
func (h *MediaHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.MediaPatch
	if err := decodeBody(w, r, &patch); err != nil {
		writeFailure(w, h.logger, err, "Failed to update media item")
		return
	}

	item, err := h.media.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeFailure(w, h.logger, err, "Failed to update media item")
		return
	}
	WriteJSON(w, http.StatusOK, itemResponse{Item: item})
}

// Delete removes an item
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.media.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeFailure(w, h.logger, err, "Failed to delete media item")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Rate applies a star click
func (h *MediaHandler) Rate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rating *int `json:"rating"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeFailure(w, h.logger, err, "Failed to update media item")
		return
	}
	if req.Rating == nil {
		WriteError(w, http.StatusBadRequest, "rating is required")
		return
	}

	item, err := h.media.Rate(r.Context(), chi.URLParam(r, "id"), *req.Rating)
	if err != nil {
		writeFailure(w, h.logger, err, "Failed to update media item")
		return
	}
	WriteJSON(w, http.StatusOK, itemResponse{Item: item})
}

// NextEpisode advances a TV show by one episode
func (h *MediaHandler) NextEpisode(w http.ResponseWriter, r *http.Request) {
	item, err := h.media.AdvanceEpisode(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, h.logger, err, "Failed to update media item")
		return
	}
	WriteJSON(w, http.StatusOK, itemResponse{Item: item})
}
