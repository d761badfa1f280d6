package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/amaumene/gomeshelf/internal/api/handlers"
	"github.com/amaumene/gomeshelf/internal/api/middleware"
	"github.com/amaumene/gomeshelf/internal/config"
	"github.com/amaumene/gomeshelf/internal/controllers"
	"github.com/amaumene/gomeshelf/internal/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Server represents the HTTP server
type Server struct {
	server  *http.Server
	media   *controllers.MediaController
	search  *controllers.SearchController
	tv      *controllers.TVShowController
	auth    *controllers.AuthController
	metrics *metrics.Metrics
	logger  *logrus.Logger
}

// NewServer creates a new HTTP server. m may be nil when metrics are disabled.
func NewServer(
	cfg *config.Config,
	media *controllers.MediaController,
	search *controllers.SearchController,
	tv *controllers.TVShowController,
	auth *controllers.AuthController,
	m *metrics.Metrics,
	logger *logrus.Logger,
) *Server {
	s := &Server{
		media:   media,
		search:  search,
		tv:      tv,
		auth:    auth,
		metrics: m,
		logger:  logger,
	}

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      s.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Routes builds the router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logging(s.logger, s.metrics))
	r.Use(chimiddleware.Recoverer)

	authHandler := handlers.NewAuthHandler(s.auth, s.logger)
	mediaHandler := handlers.NewMediaHandler(s.media, s.logger)
	searchHandler := handlers.NewSearchHandler(s.search, s.tv, s.logger)
	statusHandler := handlers.NewStatusHandler(s.media, s.logger)
	healthHandler := handlers.NewHealthHandler(s.logger)

	// Reachable before setup
	r.Get("/health", healthHandler.ServeHTTP)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	r.Post("/auth/setup", authHandler.Setup)
	r.Get("/auth/setup/check", authHandler.SetupCheck)
	r.Get("/auth/session", authHandler.Session)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SetupGate(s.auth, s.logger))

		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(s.auth.Sessions()))

			r.Get("/status", statusHandler.ServeHTTP)

			r.Route("/media", func(r chi.Router) {
				r.Get("/", mediaHandler.List)
				r.Post("/", mediaHandler.Create)
				r.Get("/{id}", mediaHandler.Get)
				r.Patch("/{id}", mediaHandler.Update)
				r.Delete("/{id}", mediaHandler.Delete)
				r.Post("/{id}/rating", mediaHandler.Rate)
				r.Post("/{id}/next-episode", mediaHandler.NextEpisode)
			})

			r.Get("/search", searchHandler.Search)
			r.Get("/tv-show-details", searchHandler.ShowDetails)
			r.Get("/tv-season-episodes", searchHandler.SeasonEpisodes)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
