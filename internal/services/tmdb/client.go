package tmdb

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
	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"

	posterPrefix = "https://image.tmdb.org/t/p/w500"
	stillPrefix  = "https://image.tmdb.org/t/p/w300"
)

// Client talks to The Movie Database API.
//
// Searches authenticate with the v3 API key, show and season lookups with
// the v4 read access token; either may be missing.
type Client struct {
	baseURL     string
	apiKey      string
	accessToken string
	httpClient  *http.Client
	logger      *logrus.Logger
}

// NewClient creates a new TMDB client
func NewClient(apiKey, accessToken string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:     defaultBaseURL,
		apiKey:      apiKey,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// HasAPIKey reports whether searches can be performed
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// HasAccessToken reports whether show and season lookups can be performed
func (c *Client) HasAccessToken() bool {
	return c.accessToken != ""
}

// doRequest performs a GET against path and decodes the JSON body into result
func (c *Client) doRequest(ctx context.Context, provider, path string, params url.Values, bearer bool, result interface{}) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	c.logger.WithFields(logrus.Fields{
		"provider": provider,
		"path":     path,
	}).Debug("Making TMDB API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if bearer {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &models.UpstreamError{Provider: provider, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.WithFields(logrus.Fields{
			"provider":    provider,
			"status_code": resp.StatusCode,
			"body":        string(body),
		}).Error("TMDB API returned non-OK status")
		return &models.UpstreamError{Provider: provider, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &models.UpstreamError{Provider: provider, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// searchParams builds the query string shared by movie and TV search
func (c *Client) searchParams(query string) url.Values {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", query)
	params.Set("page", strconv.Itoa(1))
	return params
}
