package models

import "time"

// MediaItem is one tracked book, movie, TV show or game
type MediaItem struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	Title     string    `gorm:"column:title;not null" json:"title"`
	MediaType MediaType `gorm:"column:mediaType;not null;index:MediaItem_mediaType_idx" json:"mediaType"`
	Status    Status    `gorm:"column:status;not null;default:BACKLOG;index:MediaItem_status_idx" json:"status"`

	// Copied from the search result at creation, never updated
	CoverImage *string `gorm:"column:coverImage" json:"coverImage"`
	Creator    *string `gorm:"column:creator" json:"creator"`
	Synopsis   *string `gorm:"column:synopsis" json:"synopsis"`
	APIID      *string `gorm:"column:apiId" json:"apiId"`

	Notes       *string    `gorm:"column:notes" json:"notes"`
	Rating      *int       `gorm:"column:rating" json:"rating"`
	CompletedAt *time.Time `gorm:"column:completedAt" json:"completedAt"`

	// TV show progress, nil for every other media type
	CurrentSeason    *int `gorm:"column:currentSeason" json:"currentSeason"`
	CurrentEpisode   *int `gorm:"column:currentEpisode" json:"currentEpisode"`
	TotalSeasons     *int `gorm:"column:totalSeasons" json:"totalSeasons"`
	EpisodesInSeason *int `gorm:"column:episodesInSeason" json:"episodesInSeason"`

	CreatedAt time.Time `gorm:"column:createdAt;autoCreateTime:false" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt;autoUpdateTime:false" json:"updatedAt"`
}

// TableName pins the PascalCase table name used by the SQLite schema
func (MediaItem) TableName() string {
	return "MediaItem"
}

// MediaFilter narrows ListMedia. Zero values mean "any".
type MediaFilter struct {
	Status    Status
	MediaType MediaType
}

// NewMediaItem carries the fields accepted when creating an item
type NewMediaItem struct {
	Title      string    `json:"title"`
	MediaType  MediaType `json:"mediaType"`
	CoverImage *string   `json:"coverImage"`
	Creator    *string   `json:"creator"`
	Synopsis   *string   `json:"synopsis"`
	APIID      *string   `json:"apiId"`
}

// MediaPatch is a partial update. Only fields with Set are applied.
type MediaPatch struct {
	Status           Optional[Status]    `json:"status"`
	Notes            Optional[string]    `json:"notes"`
	Rating           Optional[int]       `json:"rating"`
	CompletedAt      Optional[time.Time] `json:"completedAt"`
	CurrentSeason    Optional[int]       `json:"currentSeason"`
	CurrentEpisode   Optional[int]       `json:"currentEpisode"`
	TotalSeasons     Optional[int]       `json:"totalSeasons"`
	EpisodesInSeason Optional[int]       `json:"episodesInSeason"`
}

// TouchesTVProgress reports whether the patch sets any TV-only counter
func (p MediaPatch) TouchesTVProgress() bool {
	return p.CurrentSeason.Set || p.CurrentEpisode.Set || p.TotalSeasons.Set || p.EpisodesInSeason.Set
}

// SearchResult is the normalized shape returned by every catalog provider
type SearchResult struct {
	APIID      string  `json:"apiId"`
	Title      string  `json:"title"`
	Creator    string  `json:"creator"`
	CoverImage *string `json:"coverImage"`
	Synopsis   *string `json:"synopsis"`
}
