package models

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MediaType represents the kind of work being tracked
type MediaType string

const (
	MediaTypeBook      MediaType = "BOOK"
	MediaTypeMovie     MediaType = "MOVIE"
	MediaTypeTVShow    MediaType = "TV_SHOW"
	MediaTypeVideoGame MediaType = "VIDEO_GAME"
)

// MediaTypes lists every supported media type in display order
var MediaTypes = []MediaType{MediaTypeBook, MediaTypeMovie, MediaTypeTVShow, MediaTypeVideoGame}

// Valid reports whether t is one of the known media types
func (t MediaType) Valid() bool {
	switch t {
	case MediaTypeBook, MediaTypeMovie, MediaTypeTVShow, MediaTypeVideoGame:
		return true
	}
	return false
}

// Status represents where an item sits in the backlog lifecycle
type Status string

const (
	StatusBacklog    Status = "BACKLOG"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Statuses lists every status in lifecycle order
var Statuses = []Status{StatusBacklog, StatusInProgress, StatusCompleted}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusBacklog, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// StatusLabel returns the human label for a status in the vocabulary of the
// media type ("Want to Read", "Watching", "Played", ...).
// Unknown combinations fall back to the raw status value.
func StatusLabel(mediaType MediaType, status Status) string {
	var verb, active string
	switch mediaType {
	case MediaTypeBook:
		verb, active = "Read", "Reading"
	case MediaTypeMovie, MediaTypeTVShow:
		verb, active = "Watch", "Watching"
	case MediaTypeVideoGame:
		verb, active = "Play", "Playing"
	default:
		return string(status)
	}

	switch status {
	case StatusBacklog:
		return "Want to " + verb
	case StatusInProgress:
		return active
	case StatusCompleted:
		return completedLabel(mediaType)
	default:
		return string(status)
	}
}

func completedLabel(mediaType MediaType) string {
	switch mediaType {
	case MediaTypeBook:
		return "Read"
	case MediaTypeMovie, MediaTypeTVShow:
		return "Watched"
	case MediaTypeVideoGame:
		return "Played"
	}
	return string(StatusCompleted)
}

var shelfCaser = cases.Upper(language.English)

// ShelfLabel returns the upper-cased tab label ("WANT TO READ", "PLAYING", ...)
func ShelfLabel(mediaType MediaType, status Status) string {
	return shelfCaser.String(StatusLabel(mediaType, status))
}
