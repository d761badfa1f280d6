package controllers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amaumene/gomeshelf/internal/metrics"
	"github.com/amaumene/gomeshelf/internal/models"
	"github.com/amaumene/gomeshelf/internal/utils"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Provider is an external catalog that can be searched by free text
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
}

// Providers maps each media type to the catalog that serves it
type Providers map[models.MediaType]Provider

// SearchController dispatches catalog searches by media type
type SearchController struct {
	providers Providers
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	logger    *logrus.Logger
}

// NewSearchController creates a new search controller
func NewSearchController(providers Providers, m *metrics.Metrics, tp trace.TracerProvider, logger *logrus.Logger) *SearchController {
	return &SearchController{
		providers: providers,
		metrics:   m,
		tracer:    tp.Tracer(utils.TracerName),
		logger:    logger,
	}
}

// Search queries the single provider registered for mediaType
func (c *SearchController) Search(ctx context.Context, query string, mediaType models.MediaType) ([]models.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" || mediaType == "" {
		return nil, models.Invalid("Missing query or media type")
	}

	provider, ok := c.providers[mediaType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidMediaType, mediaType)
	}

	ctx, span := c.tracer.Start(ctx, "search."+provider.Name(), trace.WithAttributes(
		attribute.String("search.query", query),
		attribute.String("search.media_type", string(mediaType)),
	))
	defer span.End()

	start := time.Now()
	results, err := provider.Search(ctx, query)
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		c.metrics.ObserveUpstream(provider.Name(), metrics.OutcomeError, elapsed)

		c.logger.WithError(err).WithFields(logrus.Fields{
			"provider":   provider.Name(),
			"media_type": mediaType,
			"query":      query,
		}).Error("Catalog search failed")

		var upstream *models.UpstreamError
		if !errors.As(err, &upstream) {
			err = &models.UpstreamError{Provider: provider.Name(), Err: err}
		}
		return nil, err
	}

	span.SetAttributes(attribute.Int("search.results", len(results)))
	c.metrics.ObserveUpstream(provider.Name(), metrics.OutcomeSuccess, elapsed)

	c.logger.WithFields(logrus.Fields{
		"provider": provider.Name(),
		"query":    query,
		"results":  len(results),
		"elapsed":  elapsed,
	}).Debug("Catalog search completed")

	if results == nil {
		results = []models.SearchResult{}
	}
	return results, nil
}
