package tmdb

import (
	"context"
	"fmt"
	"strconv"

	"github.com/amaumene/gomeshelf/internal/models"
	"github.com/amaumene/gomeshelf/internal/utils"
)

const detailsProvider = "tmdb_details"

type showResponse struct {
	ID              int             `json:"id"`
	Name            string          `json:"name"`
	NumberOfSeasons *int            `json:"number_of_seasons"`
	Seasons         []seasonSummary `json:"seasons"`
}

type seasonSummary struct {
	SeasonNumber int     `json:"season_number"`
	EpisodeCount int     `json:"episode_count"`
	Name         string  `json:"name"`
	AirDate      *string `json:"air_date"`
}

type seasonResponse struct {
	SeasonNumber int       `json:"season_number"`
	Name         string    `json:"name"`
	Overview     string    `json:"overview"`
	AirDate      *string   `json:"air_date"`
	Episodes     []episode `json:"episodes"`
}

type episode struct {
	EpisodeNumber int     `json:"episode_number"`
	Name          string  `json:"name"`
	Overview      string  `json:"overview"`
	AirDate       *string `json:"air_date"`
	StillPath     *string `json:"still_path"`
	Runtime       *int    `json:"runtime"`
}

// ShowDetails is the season layout of a show
type ShowDetails struct {
	TotalSeasons int          `json:"totalSeasons"`
	Seasons      []SeasonInfo `json:"seasons"`
}

// SeasonInfo summarises one season of a show
type SeasonInfo struct {
	SeasonNumber int     `json:"seasonNumber"`
	EpisodeCount int     `json:"episodeCount"`
	Name         string  `json:"name"`
	AirDate      *string `json:"airDate"`
}

// SeasonEpisodes lists the episodes of one season
type SeasonEpisodes struct {
	SeasonNumber int           `json:"seasonNumber"`
	Name         string        `json:"name"`
	Overview     string        `json:"overview"`
	AirDate      *string       `json:"airDate"`
	Episodes     []EpisodeInfo `json:"episodes"`
}

// EpisodeInfo describes a single episode
type EpisodeInfo struct {
	EpisodeNumber int     `json:"episodeNumber"`
	Name          string  `json:"name"`
	Overview      string  `json:"overview"`
	AirDate       *string `json:"airDate"`
	StillPath     *string `json:"stillPath"`
	Runtime       *int    `json:"runtime"`
}

// ShowDetails fetches the season layout for a TMDB show id
func (c *Client) ShowDetails(ctx context.Context, showID int) (*ShowDetails, error) {
	if !c.HasAccessToken() {
		return nil, fmt.Errorf("TMDB_ACCESS_TOKEN: %w", models.ErrNotConfigured)
	}

	var show showResponse
	if err := c.doRequest(ctx, detailsProvider, "/tv/"+strconv.Itoa(showID), nil, true, &show); err != nil {
		return nil, err
	}

	details := &ShowDetails{Seasons: make([]SeasonInfo, 0, len(show.Seasons))}
	if show.NumberOfSeasons != nil {
		details.TotalSeasons = *show.NumberOfSeasons
	}
	for _, s := range show.Seasons {
		details.Seasons = append(details.Seasons, SeasonInfo{
			SeasonNumber: s.SeasonNumber,
			EpisodeCount: s.EpisodeCount,
			Name:         s.Name,
			AirDate:      s.AirDate,
		})
	}
	return details, nil
}

// SeasonEpisodes fetches the episodes of one season of a TMDB show
func (c *Client) SeasonEpisodes(ctx context.Context, showID, seasonNumber int) (*SeasonEpisodes, error) {
	if !c.HasAccessToken() {
		return nil, fmt.Errorf("TMDB_ACCESS_TOKEN: %w", models.ErrNotConfigured)
	}

	path := fmt.Sprintf("/tv/%d/season/%d", showID, seasonNumber)
	var season seasonResponse
	if err := c.doRequest(ctx, detailsProvider, path, nil, true, &season); err != nil {
		return nil, err
	}

	out := &SeasonEpisodes{
		SeasonNumber: season.SeasonNumber,
		Name:         season.Name,
		Overview:     season.Overview,
		AirDate:      season.AirDate,
		Episodes:     make([]EpisodeInfo, 0, len(season.Episodes)),
	}
	for _, e := range season.Episodes {
		out.Episodes = append(out.Episodes, EpisodeInfo{
			EpisodeNumber: e.EpisodeNumber,
			Name:          e.Name,
			Overview:      e.Overview,
			AirDate:       e.AirDate,
			StillPath:     utils.ImageURL(stillPrefix, e.StillPath),
			Runtime:       e.Runtime,
		})
	}
	return out, nil
}
