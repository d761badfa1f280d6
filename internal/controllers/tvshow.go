package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/amaumene/gomeshelf/internal/metrics"
	"github.com/amaumene/gomeshelf/internal/models"
	"github.com/amaumene/gomeshelf/internal/services/tmdb"
	"github.com/amaumene/gomeshelf/internal/utils"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tvProvider = "tmdb_details"

// ShowCatalog looks up season and episode listings for a show
type ShowCatalog interface {
	ShowDetails(ctx context.Context, showID int) (*tmdb.ShowDetails, error)
	SeasonEpisodes(ctx context.Context, showID, seasonNumber int) (*tmdb.SeasonEpisodes, error)
}

// TVShowController serves season and episode lookups for TV progress
type TVShowController struct {
	catalog ShowCatalog
	metrics *metrics.Metrics
	tracer  trace.Tracer
	logger  *logrus.Logger
}

// NewTVShowController creates a new TV show controller
func NewTVShowController(catalog ShowCatalog, m *metrics.Metrics, tp trace.TracerProvider, logger *logrus.Logger) *TVShowController {
	return &TVShowController{
		catalog: catalog,
		metrics: m,
		tracer:  tp.Tracer(utils.TracerName),
		logger:  logger,
	}
}

// ShowDetails returns the season layout of a show
func (c *TVShowController) ShowDetails(ctx context.Context, showID int) (*tmdb.ShowDetails, error) {
	if showID <= 0 {
		return nil, models.Invalid("Missing TMDB ID")
	}

	ctx, span := c.tracer.Start(ctx, "tmdb.show_details", trace.WithAttributes(
		attribute.Int("tmdb.show_id", showID),
	))
	defer span.End()

	start := time.Now()
	details, err := c.catalog.ShowDetails(ctx, showID)
	c.finish(span, err, time.Since(start), logrus.Fields{"show_id": showID})
	return details, err
}

// SeasonEpisodes returns the episode listing of one season
func (c *TVShowController) SeasonEpisodes(ctx context.Context, showID, seasonNumber int) (*tmdb.SeasonEpisodes, error) {
	if showID <= 0 || seasonNumber < 0 {
		return nil, models.Invalid("Missing TMDB ID or season number")
	}

	ctx, span := c.tracer.Start(ctx, "tmdb.season_episodes", trace.WithAttributes(
		attribute.Int("tmdb.show_id", showID),
		attribute.Int("tmdb.season_number", seasonNumber),
	))
	defer span.End()

	start := time.Now()
	season, err := c.catalog.SeasonEpisodes(ctx, showID, seasonNumber)
	c.finish(span, err, time.Since(start), logrus.Fields{"show_id": showID, "season": seasonNumber})
	return season, err
}

func (c *TVShowController) finish(span trace.Span, err error, elapsed time.Duration, fields logrus.Fields) {
	switch {
	case err == nil:
		c.metrics.ObserveUpstream(tvProvider, metrics.OutcomeSuccess, elapsed)
	case errors.Is(err, models.ErrNotConfigured):
		span.SetStatus(codes.Error, "not configured")
		c.metrics.ObserveUpstream(tvProvider, metrics.OutcomeNotConfigured, elapsed)
		c.logger.WithFields(fields).Warn("TMDB_ACCESS_TOKEN not set, TV details unavailable")
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		c.metrics.ObserveUpstream(tvProvider, metrics.OutcomeError, elapsed)
		c.logger.WithError(err).WithFields(fields).Error("TMDB lookup failed")
	}
}
