package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankByPopularity(t *testing.T) {
	candidates := []Candidate[string]{
		{Item: "a", Title: "Dune Messiah", Popularity: 10},
		{Item: "b", Title: "Dune", Popularity: 50},
		{Item: "c", Title: "Children of Dune", Popularity: 10},
		{Item: "d", Title: "Dune", Popularity: 10},
	}

	ranked := RankByPopularity(candidates, "dune")

	// b wins on popularity, d ties a/c but matches the query exactly
	assert.Equal(t, []string{"b", "d", "a", "c"}, ranked)
}

func TestRankByPopularityKeepsUpstreamOrderOnFullTie(t *testing.T) {
	candidates := []Candidate[string]{
		{Item: "first", Title: "Same", Popularity: 1},
		{Item: "second", Title: "Same", Popularity: 1},
	}

	assert.Equal(t, []string{"first", "second"}, RankByPopularity(candidates, "same"))
}

func TestRankByPopularityEmpty(t *testing.T) {
	assert.Empty(t, RankByPopularity([]Candidate[int]{}, "x"))
}

func TestExtractYear(t *testing.T) {
	tests := map[string]string{
		"2009-12-18": "2009",
		"1999":       "1999",
		"":           "",
		"unknown":    "",
		" 2021-01":   "2021",
	}
	for input, want := range tests {
		assert.Equal(t, want, ExtractYear(input), "input %q", input)
	}
}

func TestYearOrUnknown(t *testing.T) {
	assert.Equal(t, "2010", YearOrUnknown("2010-07-16"))
	assert.Equal(t, "Unknown Year", YearOrUnknown(""))
}

func TestForceHTTPS(t *testing.T) {
	assert.Equal(t, "https://books.google.com/x.jpg", ForceHTTPS("http://books.google.com/x.jpg"))
	assert.Equal(t, "https://a/b", ForceHTTPS("https://a/b"))
}

func TestImageURL(t *testing.T) {
	assert.Nil(t, ImageURL("https://image.tmdb.org/t/p/w500", nil))
	assert.Nil(t, ImageURL("https://image.tmdb.org/t/p/w500", StringPtr("")))
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/p.jpg", *ImageURL("https://image.tmdb.org/t/p/w500", StringPtr("/p.jpg")))
}
