package controllers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amaumene/gomeshelf/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MediaController owns the media item lifecycle
type MediaController struct {
	db     *models.Database
	logger *logrus.Logger
	now    func() time.Time
}

// NewMediaController creates a new media controller
func NewMediaController(db *models.Database, logger *logrus.Logger) *MediaController {
	return &MediaController{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// List returns the items matching filter, newest first
func (c *MediaController) List(ctx context.Context, filter models.MediaFilter) ([]models.MediaItem, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, models.Invalid("invalid status %q", filter.Status)
	}
	if filter.MediaType != "" && !filter.MediaType.Valid() {
		return nil, models.Invalid("invalid media type %q", filter.MediaType)
	}
	return c.db.ListMedia(ctx, filter)
}

// Get returns a single item
func (c *MediaController) Get(ctx context.Context, id string) (*models.MediaItem, error) {
	return c.db.GetMediaByID(ctx, id)
}

// Create adds an item to the backlog
func (c *MediaController) Create(ctx context.Context, in models.NewMediaItem) (*models.MediaItem, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || in.MediaType == "" {
		return nil, models.Invalid("Title and media type are required")
	}
	if !in.MediaType.Valid() {
		return nil, models.Invalid("invalid media type %q", in.MediaType)
	}

	now := c.now()
	item := &models.MediaItem{
		ID:         uuid.NewString(),
		Title:      title,
		MediaType:  in.MediaType,
		Status:     models.StatusBacklog,
		CoverImage: in.CoverImage,
		Creator:    in.Creator,
		Synopsis:   in.Synopsis,
		APIID:      in.APIID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := c.db.CreateMedia(ctx, item); err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"media_id":   item.ID,
		"title":      item.Title,
		"media_type": item.MediaType,
	}).Info("Added media item")
	return item, nil
}

// Update applies a partial update and persists the result
func (c *MediaController) Update(ctx context.Context, id string, patch models.MediaPatch) (*models.MediaItem, error) {
	if err := ValidatePatch(patch); err != nil {
		return nil, err
	}
	return c.mutate(ctx, id, func(item models.MediaItem, now time.Time) (models.MediaItem, error) {
		return ApplyUpdate(item, patch, now)
	})
}

// Rate applies a star click to the item's rating
func (c *MediaController) Rate(ctx context.Context, id string, value int) (*models.MediaItem, error) {
	if value < 0 || value > maxRating {
		return nil, models.Invalid("rating must be between 0 and %d", maxRating)
	}
	return c.mutate(ctx, id, func(item models.MediaItem, now time.Time) (models.MediaItem, error) {
		return ToggleRating(item, value, now)
	})
}

// AdvanceEpisode moves a TV show to its next episode
func (c *MediaController) AdvanceEpisode(ctx context.Context, id string) (*models.MediaItem, error) {
	return c.mutate(ctx, id, NextEpisode)
}

// Delete removes an item permanently
func (c *MediaController) Delete(ctx context.Context, id string) error {
	if err := c.db.DeleteMedia(ctx, id); err != nil {
		return err
	}
	c.logger.WithField("media_id", id).Info("Deleted media item")
	return nil
}

// mutate reads the item, derives its next state and writes it back in one statement
func (c *MediaController) mutate(ctx context.Context, id string, apply func(models.MediaItem, time.Time) (models.MediaItem, error)) (*models.MediaItem, error) {
	current, err := c.db.GetMediaByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := apply(*current, c.now())
	if err != nil {
		return nil, err
	}

	if err := c.db.SaveMediaState(ctx, &next); err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"media_id": next.ID,
		"status":   next.Status,
	}).Debug("Updated media item")
	return &next, nil
}

// ShelfCount is the number of items on one shelf of a media type
type ShelfCount struct {
	Status models.Status `json:"status"`
	Label  string        `json:"label"`
	Shelf  string        `json:"shelf"`
	Count  int           `json:"count"`
}

// TypeSummary groups shelf counts for one media type
type TypeSummary struct {
	MediaType models.MediaType `json:"mediaType"`
	Total     int              `json:"total"`
	Shelves   []ShelfCount     `json:"shelves"`
}

// LibrarySummary describes the whole library
type LibrarySummary struct {
	Total int           `json:"total"`
	Types []TypeSummary `json:"types"`
}

// Summary counts items per media type and status, including empty shelves
func (c *MediaController) Summary(ctx context.Context) (*LibrarySummary, error) {
	counts, err := c.db.CountMediaByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build library summary: %w", err)
	}

	summary := &LibrarySummary{Types: make([]TypeSummary, 0, len(models.MediaTypes))}
	for _, mediaType := range models.MediaTypes {
		ts := TypeSummary{MediaType: mediaType, Shelves: make([]ShelfCount, 0, len(models.Statuses))}
		for _, status := range models.Statuses {
			n := counts[mediaType][status]
			ts.Shelves = append(ts.Shelves, ShelfCount{
				Status: status,
				Label:  models.StatusLabel(mediaType, status),
				Shelf:  models.ShelfLabel(mediaType, status),
				Count:  n,
			})
			ts.Total += n
		}
		summary.Total += ts.Total
		summary.Types = append(summary.Types, ts)
	}
	return summary, nil
}
