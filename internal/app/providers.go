package app

import (
	"context"
	"fmt"
	"time"

	"github.com/amaumene/gomeshelf/internal/api"
	"github.com/amaumene/gomeshelf/internal/config"
	"github.com/amaumene/gomeshelf/internal/controllers"
	"github.com/amaumene/gomeshelf/internal/metrics"
	"github.com/amaumene/gomeshelf/internal/models"
	"github.com/amaumene/gomeshelf/internal/services/googlebooks"
	"github.com/amaumene/gomeshelf/internal/services/rawg"
	"github.com/amaumene/gomeshelf/internal/services/session"
	"github.com/amaumene/gomeshelf/internal/services/tmdb"
	"github.com/amaumene/gomeshelf/internal/utils"
	"github.com/google/wire"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

const tracerShutdownTimeout = 5 * time.Second

// App is the fully wired application
type App struct {
	Config *config.Config
	Logger *logrus.Logger
	DB     *models.Database
	Media  *controllers.MediaController
	Auth   *controllers.AuthController
	Server *api.Server
}

// ProviderSet builds an App from a loaded Config
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideDatabase,
	ProvideMetrics,
	ProvideTracerProvider,
	ProvideSessions,
	ProvideTMDB,
	ProvideSearchProviders,
	wire.Bind(new(controllers.ShowCatalog), new(*tmdb.Client)),
	controllers.NewMediaController,
	controllers.NewSearchController,
	controllers.NewTVShowController,
	controllers.NewAuthController,
	api.NewServer,
	wire.Struct(new(App), "*"),
)

// ProvideLogger builds the logger from the logging settings
func ProvideLogger(cfg *config.Config) (*logrus.Logger, error) {
	return utils.NewLogger(utils.LogOptions{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
}

// ProvideDatabase opens the SQLite store. The cleanup closes it.
func ProvideDatabase(cfg *config.Config, logger *logrus.Logger) (*models.Database, func(), error) {
	db, err := models.NewDatabase(cfg.DatabaseFile, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.WithError(err).Error("Failed to close database")
		}
	}
	return db, cleanup, nil
}

// ProvideMetrics returns nil when metrics are disabled
func ProvideMetrics(cfg *config.Config) *metrics.Metrics {
	if !cfg.MetricsEnabled {
		return nil
	}
	return metrics.New()
}

// ProvideTracerProvider returns the tracer provider and a cleanup that flushes it
func ProvideTracerProvider(cfg *config.Config, logger *logrus.Logger) (trace.TracerProvider, func()) {
	tp, shutdown := utils.NewTracerProvider(cfg.TracingEnabled, logger)
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), tracerShutdownTimeout)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.WithError(err).Warn("Failed to shut down tracer provider")
		}
	}
	return tp, cleanup
}

func ProvideSessions(cfg *config.Config) *session.Manager {
	return session.NewManager(cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure)
}

func ProvideTMDB(cfg *config.Config, logger *logrus.Logger) *tmdb.Client {
	return tmdb.NewClient(cfg.TMDBAPIKey, cfg.TMDBAccessToken, cfg.UpstreamTimeout, logger)
}

// ProvideSearchProviders maps each media type to its catalog
func ProvideSearchProviders(cfg *config.Config, tmdbClient *tmdb.Client, logger *logrus.Logger) controllers.Providers {
	if cfg.GoogleBooksAPIKey == "" {
		logger.Info("GOOGLE_BOOKS_API_KEY not set, book search uses the anonymous quota")
	}
	if !tmdbClient.HasAPIKey() {
		logger.Warn("TMDB_API_KEY not set, movie and TV search will return no results")
	}
	if cfg.RAWGAPIKey == "" {
		logger.Warn("RAWG_API_KEY not set, video game search will return no results")
	}

	return controllers.Providers{
		models.MediaTypeBook:      googlebooks.NewClient(cfg.GoogleBooksAPIKey, cfg.UpstreamTimeout, logger),
		models.MediaTypeMovie:     tmdbClient.Movies(),
		models.MediaTypeTVShow:    tmdbClient.Shows(),
		models.MediaTypeVideoGame: rawg.NewClient(cfg.RAWGAPIKey, cfg.UpstreamTimeout, logger),
	}
}
