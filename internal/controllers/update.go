package controllers

import (
	"time"

	"github.com/amaumene/gomeshelf/internal/models"
)

const maxRating = 5

// ValidatePatch checks the parts of a patch that do not depend on the
// stored item
func ValidatePatch(patch models.MediaPatch) error {
	if patch.Status.Set {
		if patch.Status.Null {
			return models.Invalid("status cannot be null")
		}
		if !patch.Status.Value.Valid() {
			return models.Invalid("invalid status %q", patch.Status.Value)
		}
	}

	if patch.Rating.Set && !patch.Rating.Null {
		if r := patch.Rating.Value; r < 0 || r > maxRating {
			return models.Invalid("rating must be between 0 and %d", maxRating)
		}
	}

	counters := []struct {
		name  string
		value models.Optional[int]
	}{
		{"currentSeason", patch.CurrentSeason},
		{"currentEpisode", patch.CurrentEpisode},
		{"totalSeasons", patch.TotalSeasons},
		{"episodesInSeason", patch.EpisodesInSeason},
	}
	for _, c := range counters {
		if c.value.Set && !c.value.Null && c.value.Value < 0 {
			return models.Invalid("%s cannot be negative", c.name)
		}
	}
	return nil
}

// ApplyUpdate returns the state of current after patch is applied at now.
//
// Status changes derive completedAt: entering COMPLETED stamps it when it is
// still empty, any other status clears it. An explicit completedAt in the
// patch, null included, always overrides the derived value.
func ApplyUpdate(current models.MediaItem, patch models.MediaPatch, now time.Time) (models.MediaItem, error) {
	if err := ValidatePatch(patch); err != nil {
		return current, err
	}
	if patch.TouchesTVProgress() && current.MediaType != models.MediaTypeTVShow {
		return current, models.Invalid("episode progress only applies to TV shows")
	}

	next := current

	if patch.Status.Set {
		next.Status = patch.Status.Value
		if next.Status == models.StatusCompleted {
			if next.CompletedAt == nil {
				stamp := now
				next.CompletedAt = &stamp
			}
		} else {
			next.CompletedAt = nil
		}
	}

	if patch.CompletedAt.Set {
		next.CompletedAt = patch.CompletedAt.Ptr()
	}

	if patch.Notes.Set {
		next.Notes = patch.Notes.Ptr()
	}

	if patch.Rating.Set {
		next.Rating = normalizeRating(patch.Rating.Ptr())
	}

	if patch.CurrentSeason.Set {
		next.CurrentSeason = patch.CurrentSeason.Ptr()
	}
	if patch.CurrentEpisode.Set {
		next.CurrentEpisode = patch.CurrentEpisode.Ptr()
	}
	if patch.TotalSeasons.Set {
		next.TotalSeasons = patch.TotalSeasons.Ptr()
	}
	if patch.EpisodesInSeason.Set {
		next.EpisodesInSeason = patch.EpisodesInSeason.Ptr()
	}

	next.UpdatedAt = now
	return next, nil
}

// ToggleRating applies a star click: choosing the stored value clears the
// rating, any other value replaces it
func ToggleRating(current models.MediaItem, value int, now time.Time) (models.MediaItem, error) {
	if value < 0 || value > maxRating {
		return current, models.Invalid("rating must be between 0 and %d", maxRating)
	}

	next := current
	if current.Rating != nil && *current.Rating == value {
		next.Rating = nil
	} else {
		next.Rating = normalizeRating(&value)
	}
	next.UpdatedAt = now
	return next, nil
}

// NextEpisode advances currentEpisode by one within currentSeason.
// It does not check the result against episodesInSeason.
func NextEpisode(current models.MediaItem, now time.Time) (models.MediaItem, error) {
	if current.MediaType != models.MediaTypeTVShow {
		return current, models.Invalid("only TV shows have episodes")
	}

	next := current

	season := 1
	if current.CurrentSeason != nil {
		season = *current.CurrentSeason
	}
	episode := 1
	if current.CurrentEpisode != nil {
		episode = *current.CurrentEpisode + 1
	}

	next.CurrentSeason = &season
	next.CurrentEpisode = &episode
	next.UpdatedAt = now
	return next, nil
}

// normalizeRating maps 0 to "no rating"
func normalizeRating(rating *int) *int {
	if rating == nil || *rating == 0 {
		return nil
	}
	r := *rating
	return &r
}
