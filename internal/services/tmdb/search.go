package tmdb

import (
	"context"
	"strconv"

	"github.com/amaumene/gomeshelf/internal/models"
	"github.com/amaumene/gomeshelf/internal/utils"
)

// MovieResult is a single hit from /search/movie
type MovieResult struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  *string `json:"poster_path"`
	Popularity  float64 `json:"popularity"`
}

// ShowResult is a single hit from /search/tv
type ShowResult struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	FirstAirDate string  `json:"first_air_date"`
	PosterPath   *string `json:"poster_path"`
	Popularity   float64 `json:"popularity"`
}

type movieSearchResponse struct {
	Page    int           `json:"page"`
	Results []MovieResult `json:"results"`
}

type showSearchResponse struct {
	Page    int          `json:"page"`
	Results []ShowResult `json:"results"`
}

// MovieSearcher adapts the client to the movie search provider contract
type MovieSearcher struct {
	client *Client
}

// ShowSearcher adapts the client to the TV search provider contract
type ShowSearcher struct {
	client *Client
}

// Movies returns the movie search provider backed by c
func (c *Client) Movies() *MovieSearcher {
	return &MovieSearcher{client: c}
}

// Shows returns the TV search provider backed by c
func (c *Client) Shows() *ShowSearcher {
	return &ShowSearcher{client: c}
}

// Name identifies the provider in logs and metrics
func (s *MovieSearcher) Name() string {
	return "tmdb_movie"
}

// Search returns movies matching query ranked by popularity.
// Without an API key the result is empty rather than an error.
func (s *MovieSearcher) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	c := s.client
	if !c.HasAPIKey() {
		c.logger.Warn("TMDB_API_KEY not set, returning empty movie results")
		return []models.SearchResult{}, nil
	}

	var resp movieSearchResponse
	if err := c.doRequest(ctx, s.Name(), "/search/movie", c.searchParams(query), false, &resp); err != nil {
		return nil, err
	}

	candidates := make([]utils.Candidate[MovieResult], len(resp.Results))
	for i, m := range resp.Results {
		candidates[i] = utils.Candidate[MovieResult]{Item: m, Title: m.Title, Popularity: m.Popularity}
	}

	ranked := utils.RankByPopularity(candidates, query)
	results := make([]models.SearchResult, 0, len(ranked))
	for _, m := range ranked {
		results = append(results, models.SearchResult{
			APIID:      strconv.Itoa(m.ID),
			Title:      m.Title,
			Creator:    utils.YearOrUnknown(m.ReleaseDate),
			CoverImage: utils.ImageURL(posterPrefix, m.PosterPath),
			Synopsis:   utils.NonEmpty(m.Overview),
		})
	}
	return results, nil
}

// Name identifies the provider in logs and metrics
func (s *ShowSearcher) Name() string {
	return "tmdb_tv"
}

// Search returns TV shows matching query ranked by popularity.
// Without an API key the result is empty rather than an error.
func (s *ShowSearcher) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	c := s.client
	if !c.HasAPIKey() {
		c.logger.Warn("TMDB_API_KEY not set, returning empty TV results")
		return []models.SearchResult{}, nil
	}

	var resp showSearchResponse
	if err := c.doRequest(ctx, s.Name(), "/search/tv", c.searchParams(query), false, &resp); err != nil {
		return nil, err
	}

	candidates := make([]utils.Candidate[ShowResult], len(resp.Results))
	for i, sh := range resp.Results {
		candidates[i] = utils.Candidate[ShowResult]{Item: sh, Title: sh.Name, Popularity: sh.Popularity}
	}

	ranked := utils.RankByPopularity(candidates, query)
	results := make([]models.SearchResult, 0, len(ranked))
	for _, sh := range ranked {
		results = append(results, models.SearchResult{
			APIID:      strconv.Itoa(sh.ID),
			Title:      sh.Name,
			Creator:    utils.YearOrUnknown(sh.FirstAirDate),
			CoverImage: utils.ImageURL(posterPrefix, sh.PosterPath),
			Synopsis:   utils.NonEmpty(sh.Overview),
		})
	}
	return results, nil
}
