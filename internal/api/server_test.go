package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amaumene/gomeshelf/internal/config"
	"github.com/amaumene/gomeshelf/internal/controllers"
	"github.com/amaumene/gomeshelf/internal/metrics"
	"github.com/amaumene/gomeshelf/internal/models"
	"github.com/amaumene/gomeshelf/internal/services/session"
	"github.com/amaumene/gomeshelf/internal/services/tmdb"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type stubProvider struct {
	name    string
	results []models.SearchResult
	err     error
	calls   int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Search(context.Context, string) ([]models.SearchResult, error) {
	p.calls++
	return p.results, p.err
}

type stubCatalog struct{}

func (stubCatalog) ShowDetails(context.Context, int) (*tmdb.ShowDetails, error) {
	return nil, models.ErrNotConfigured
}

func (stubCatalog) SeasonEpisodes(context.Context, int, int) (*tmdb.SeasonEpisodes, error) {
	return nil, models.ErrNotConfigured
}

type testServer struct {
	handler   http.Handler
	providers map[models.MediaType]*stubProvider
	cookie    *http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "api.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(context.Background()))

	stubs := map[models.MediaType]*stubProvider{
		models.MediaTypeBook:      {name: "googlebooks", results: []models.SearchResult{{APIID: "b1", Title: "Dune", Creator: "Frank Herbert"}}},
		models.MediaTypeMovie:     {name: "tmdb_movie", results: []models.SearchResult{}},
		models.MediaTypeTVShow:    {name: "tmdb_tv", err: &models.UpstreamError{Provider: "tmdb_tv", StatusCode: 500, Body: "secret upstream detail"}},
		models.MediaTypeVideoGame: {name: "rawg", results: []models.SearchResult{}},
	}
	providers := controllers.Providers{}
	for mt, p := range stubs {
		providers[mt] = p
	}

	tp := noop.NewTracerProvider()
	m := metrics.New()
	sessions := session.NewManager("api-test-secret-0123456789", time.Hour, false)

	srv := NewServer(
		&config.Config{ServerPort: "0"},
		controllers.NewMediaController(db, logger),
		controllers.NewSearchController(providers, m, tp, logger),
		controllers.NewTVShowController(stubCatalog{}, m, tp, logger),
		controllers.NewAuthController(db, sessions, logger),
		m,
		logger,
	)

	return &testServer{handler: srv.Routes(), providers: stubs}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// login runs setup and login and keeps the session cookie
func (s *testServer) login(t *testing.T) {
	t.Helper()
	creds := map[string]string{"email": "admin@example.com", "password": "hunter22"}

	rec := s.do(t, http.MethodPost, "/auth/setup", creds)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/auth/login", creds)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			s.cookie = c
		}
	}
	require.NotNil(t, s.cookie)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func createItem(t *testing.T, s *testServer, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/media", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(t, rec)["item"].(map[string]interface{})
}

func TestSetupGate(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/media", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Setup required", decode(t, rec)["error"])

	rec = s.do(t, http.MethodGet, "/auth/setup/check", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["hasUsers"])

	rec = s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/auth/setup", map[string]string{"email": "bad", "password": "hunter22"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid email format", decode(t, rec)["error"])

	rec = s.do(t, http.MethodPost, "/auth/setup", map[string]string{"email": "admin@example.com", "password": "hunter22"})
	require.Equal(t, http.StatusCreated, rec.Code)
	user := decode(t, rec)["user"].(map[string]interface{})
	assert.Equal(t, "admin@example.com", user["email"])
	assert.NotContains(t, rec.Body.String(), "password")

	// any second attempt is refused, even with a malformed body
	for _, body := range []interface{}{
		map[string]string{"email": "other@example.com", "password": "hunter22"},
		"{not json",
	} {
		rec = s.do(t, http.MethodPost, "/auth/setup", body)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	}

	rec = s.do(t, http.MethodGet, "/auth/setup/check", nil)
	assert.Equal(t, true, decode(t, rec)["hasUsers"])

	rec = s.do(t, http.MethodGet, "/media", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginAndSession(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/auth/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["authenticated"])

	s.login(t)
	assert.True(t, s.cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, s.cookie.SameSite)
	assert.Equal(t, "/", s.cookie.Path)

	rec = s.do(t, http.MethodGet, "/auth/session", nil)
	assert.Equal(t, true, decode(t, rec)["authenticated"])

	rec = s.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "admin@example.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", decode(t, rec)["error"])

	rec = s.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "admin@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.True(t, cleared[0].MaxAge < 0)
}

func TestTamperedCookieIsRejected(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	s.cookie = &http.Cookie{Name: session.CookieName, Value: s.cookie.Value + "x"}
	rec := s.do(t, http.MethodGet, "/media", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", decode(t, rec)["error"])
}

func TestMediaLifecycle(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	item := createItem(t, s, map[string]interface{}{
		"title":      "Dune",
		"mediaType":  "BOOK",
		"creator":    "Frank Herbert",
		"coverImage": "https://books.google.com/c.jpg",
		"apiId":      "b1",
	})
	id := item["id"].(string)
	assert.Equal(t, "BACKLOG", item["status"])
	assert.Nil(t, item["completedAt"])
	assert.Nil(t, item["rating"])

	rec := s.do(t, http.MethodPatch, "/media/"+id, map[string]interface{}{"status": "COMPLETED", "rating": 4})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode(t, rec)["item"].(map[string]interface{})
	assert.Equal(t, "COMPLETED", updated["status"])
	assert.NotNil(t, updated["completedAt"])
	completedAt := updated["completedAt"]

	rec = s.do(t, http.MethodGet, "/media/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode(t, rec)["item"].(map[string]interface{})
	assert.Equal(t, float64(4), got["rating"])
	assert.Equal(t, completedAt, got["completedAt"])

	// re-affirming completion keeps the date
	rec = s.do(t, http.MethodPatch, "/media/"+id, map[string]interface{}{"status": "COMPLETED"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, completedAt, decode(t, rec)["item"].(map[string]interface{})["completedAt"])

	rec = s.do(t, http.MethodPatch, "/media/"+id, map[string]interface{}{"rating": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode(t, rec)["item"].(map[string]interface{})["rating"])

	rec = s.do(t, http.MethodPost, "/media/"+id+"/rating", map[string]interface{}{"rating": 5})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(5), decode(t, rec)["item"].(map[string]interface{})["rating"])

	rec = s.do(t, http.MethodPost, "/media/"+id+"/rating", map[string]interface{}{"rating": 5})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode(t, rec)["item"].(map[string]interface{})["rating"])

	rec = s.do(t, http.MethodPatch, "/media/"+id, map[string]interface{}{"status": "BACKLOG"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode(t, rec)["item"].(map[string]interface{})["completedAt"])

	rec = s.do(t, http.MethodDelete, "/media/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["success"])

	rec = s.do(t, http.MethodGet, "/media/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Media item not found", decode(t, rec)["error"])

	rec = s.do(t, http.MethodDelete, "/media/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMediaValidationErrors(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	rec := s.do(t, http.MethodPost, "/media", map[string]interface{}{"title": "Dune"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Title and media type are required", decode(t, rec)["error"])

	rec = s.do(t, http.MethodPost, "/media", "{")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/media?status=DONE", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	item := createItem(t, s, map[string]interface{}{"title": "Heat", "mediaType": "MOVIE"})
	id := item["id"].(string)

	rec = s.do(t, http.MethodPatch, "/media/"+id, map[string]interface{}{"rating": 9})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPatch, "/media/"+id, map[string]interface{}{"currentEpisode": 2})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/media/"+id+"/next-episode", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPatch, "/media/missing", map[string]interface{}{"notes": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListFilters(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	createItem(t, s, map[string]interface{}{"title": "Dune", "mediaType": "BOOK"})
	createItem(t, s, map[string]interface{}{"title": "Hades", "mediaType": "VIDEO_GAME"})

	rec := s.do(t, http.MethodGet, "/media", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["items"], 2)

	rec = s.do(t, http.MethodGet, "/media?mediaType=VIDEO_GAME", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode(t, rec)["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "Hades", items[0].(map[string]interface{})["title"])

	rec = s.do(t, http.MethodGet, "/media?status=COMPLETED", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{}, decode(t, rec)["items"])
}

func TestNextEpisodeEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	show := createItem(t, s, map[string]interface{}{"title": "Severance", "mediaType": "TV_SHOW", "apiId": "95396"})
	id := show["id"].(string)

	rec := s.do(t, http.MethodPatch, "/media/"+id, map[string]interface{}{
		"status": "IN_PROGRESS", "currentSeason": 1, "currentEpisode": 3, "rating": 4,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/media/"+id+"/next-episode", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	item := decode(t, rec)["item"].(map[string]interface{})
	assert.Equal(t, float64(1), item["currentSeason"])
	assert.Equal(t, float64(4), item["currentEpisode"])
	assert.Equal(t, "IN_PROGRESS", item["status"])
	assert.Equal(t, float64(4), item["rating"])
}

func TestSearchEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	rec := s.do(t, http.MethodGet, "/search?q=dune&type=BOOK", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	results := decode(t, rec)["results"].([]interface{})
	require.Len(t, results, 1)
	assert.Equal(t, "Frank Herbert", results[0].(map[string]interface{})["creator"])

	assert.Equal(t, 1, s.providers[models.MediaTypeBook].calls)
	assert.Equal(t, 0, s.providers[models.MediaTypeMovie].calls)
	assert.Equal(t, 0, s.providers[models.MediaTypeTVShow].calls)
	assert.Equal(t, 0, s.providers[models.MediaTypeVideoGame].calls)

	rec = s.do(t, http.MethodGet, "/search?q=hades&type=VIDEO_GAME", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{}, decode(t, rec)["results"])

	rec = s.do(t, http.MethodGet, "/search?type=BOOK", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing query or media type", decode(t, rec)["error"])

	rec = s.do(t, http.MethodGet, "/search?q=x&type=PODCAST", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid media type", decode(t, rec)["error"])

	rec = s.do(t, http.MethodGet, "/search?q=severance&type=TV_SHOW", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to search", decode(t, rec)["error"])
	assert.NotContains(t, rec.Body.String(), "secret upstream detail")
}

func TestTVLookupEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	rec := s.do(t, http.MethodGet, "/tv-show-details", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing TMDB ID", decode(t, rec)["error"])

	rec = s.do(t, http.MethodGet, "/tv-season-episodes?tmdbId=1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing TMDB ID or season number", decode(t, rec)["error"])

	rec = s.do(t, http.MethodGet, "/tv-show-details?tmdbId=1396", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "TMDB API not configured", decode(t, rec)["error"])
}

func TestStatusAndMetrics(t *testing.T) {
	s := newTestServer(t)
	s.login(t)
	createItem(t, s, map[string]interface{}{"title": "Dune", "mediaType": "BOOK"})

	rec := s.do(t, http.MethodGet, "/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode(t, rec)
	assert.Equal(t, float64(1), summary["total"])

	rec = s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="POST",route="/media`)
}
