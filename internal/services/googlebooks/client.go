package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/amaumene/gomeshelf/internal/models"
	"github.com/amaumene/gomeshelf/internal/utils"
	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL = "https://www.googleapis.com/books/v1"
	providerName   = "googlebooks"

	// fetchSize is the over-fetch window that gets ranked
	fetchSize = 40
	// topN is how many ranked volumes are returned
	topN = 10
)

// VolumesResponse represents the volumes search response
type VolumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

// Volume is a single Google Books volume
type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

// VolumeInfo holds the descriptive part of a volume
type VolumeInfo struct {
	Title         string      `json:"title"`
	Authors       []string    `json:"authors"`
	Description   string      `json:"description"`
	PublishedDate string      `json:"publishedDate"`
	RatingsCount  int         `json:"ratingsCount"`
	ImageLinks    *ImageLinks `json:"imageLinks"`
}

// ImageLinks holds cover thumbnails
type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}

// Client performs book searches against the Google Books API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a Google Books client. The API key is optional.
func NewClient(apiKey string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Name identifies the provider in logs and metrics
func (c *Client) Name() string {
	return providerName
}

// Search returns the most popular volumes matching query
func (c *Client) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(fetchSize))
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	c.logger.WithFields(logrus.Fields{
		"query":       query,
		"max_results": fetchSize,
	}).Debug("Searching Google Books")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/volumes?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.UpstreamError{Provider: providerName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"body":        string(body),
		}).Error("Google Books API returned non-OK status")
		return nil, &models.UpstreamError{Provider: providerName, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var volumes VolumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&volumes); err != nil {
		return nil, &models.UpstreamError{Provider: providerName, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	ranked := rankVolumes(volumes.Items, query)
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	c.logger.WithFields(logrus.Fields{
		"fetched":  len(volumes.Items),
		"returned": len(ranked),
	}).Debug("Google Books search completed")

	return convertVolumes(ranked), nil
}

func rankVolumes(volumes []Volume, query string) []Volume {
	candidates := make([]utils.Candidate[Volume], len(volumes))
	for i, v := range volumes {
		candidates[i] = utils.Candidate[Volume]{
			Item:       v,
			Title:      v.VolumeInfo.Title,
			Popularity: float64(v.VolumeInfo.RatingsCount),
		}
	}
	return utils.RankByPopularity(candidates, query)
}

func convertVolumes(volumes []Volume) []models.SearchResult {
	results := make([]models.SearchResult, 0, len(volumes))
	for _, v := range volumes {
		info := v.VolumeInfo

		creator := "Unknown Author"
		if len(info.Authors) > 0 {
			creator = strings.Join(info.Authors, ", ")
		}

		var cover *string
		if info.ImageLinks != nil && info.ImageLinks.Thumbnail != "" {
			cover = utils.StringPtr(utils.ForceHTTPS(info.ImageLinks.Thumbnail))
		}

		results = append(results, models.SearchResult{
			APIID:      v.ID,
			Title:      info.Title,
			Creator:    creator,
			CoverImage: cover,
			Synopsis:   utils.NonEmpty(info.Description),
		})
	}
	return results
}
