package rawg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/amaumene/gomeshelf/internal/models"
	"github.com/amaumene/gomeshelf/internal/utils"
	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL = "https://api.rawg.io/api"
	providerName   = "rawg"
	pageSize       = 10
)

// GamesResponse is the paged /games search response
type GamesResponse struct {
	Count   int    `json:"count"`
	Results []Game `json:"results"`
}

// Game is a single RAWG game record
type Game struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Released        string  `json:"released"`
	BackgroundImage *string `json:"background_image"`
	DescriptionRaw  string  `json:"description_raw"`
	Added           int     `json:"added"`
}

// Client searches the RAWG video game database
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new RAWG client
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

// Search looks up games by name. Results keep RAWG's relevance order.
func (c *Client) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	if c.apiKey == "" {
		c.logger.Warn("RAWG_API_KEY not set, returning empty game results")
		return []models.SearchResult{}, nil
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("search", query)
	params.Set("page_size", strconv.Itoa(pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/games?"+params.Encode(), nil)
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
		}).Error("RAWG API returned non-OK status")
		return nil, &models.UpstreamError{Provider: providerName, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var games GamesResponse
	if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
		return nil, &models.UpstreamError{Provider: providerName, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	results := make([]models.SearchResult, 0, len(games.Results))
	for _, g := range games.Results {
		var cover *string
		if g.BackgroundImage != nil {
			cover = utils.NonEmpty(*g.BackgroundImage)
		}
		results = append(results, models.SearchResult{
			APIID:      strconv.Itoa(g.ID),
			Title:      g.Name,
			Creator:    utils.YearOrUnknown(g.Released),
			CoverImage: cover,
			Synopsis:   utils.NonEmpty(g.DescriptionRaw),
		})
	}

	c.logger.WithField("count", len(results)).Debug("RAWG search completed")
	return results, nil
}
