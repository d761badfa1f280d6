package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/amaumene/gomeshelf/internal/controllers"
	"github.com/amaumene/gomeshelf/internal/models"
	"github.com/sirupsen/logrus"
)

// SearchHandler serves catalog search and TV lookups
type SearchHandler struct {
	search *controllers.SearchController
	tv     *controllers.TVShowController
	logger *logrus.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(search *controllers.SearchController, tv *controllers.TVShowController, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{search: search, tv: tv, logger: logger}
}

// Search handles GET /search?q=&type=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	results, err := h.search.Search(r.Context(), query.Get("q"), models.MediaType(query.Get("type")))
	if err != nil {
		writeFailure(w, h.logger, err, "Failed to search")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// ShowDetails handles GET /tv-show-details?tmdbId=
func (h *SearchHandler) ShowDetails(w http.ResponseWriter, r *http.Request) {
	showID, ok := intParam(r, "tmdbId")
	if !ok {
		WriteError(w, http.StatusBadRequest, "Missing TMDB ID")
		return
	}

	details, err := h.tv.ShowDetails(r.Context(), showID)
	if err != nil {
		writeFailure(w, h.logger, err, "Failed to fetch TV show details")
		return
	}
	WriteJSON(w, http.StatusOK, details)
}

// SeasonEpisodes handles GET /tv-season-episodes?tmdbId=&seasonNumber=
func (h *SearchHandler) SeasonEpisodes(w http.ResponseWriter, r *http.Request) {
	showID, okShow := intParam(r, "tmdbId")
	season, okSeason := intParam(r, "seasonNumber")
	if !okShow || !okSeason {
		WriteError(w, http.StatusBadRequest, "Missing TMDB ID or season number")
		return
	}

	episodes, err := h.tv.SeasonEpisodes(r.Context(), showID, season)
	if err != nil {
		writeFailure(w, h.logger, err, "Failed to fetch season episodes")
		return
	}
	WriteJSON(w, http.StatusOK, episodes)
}

func intParam(r *http.Request, name string) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
