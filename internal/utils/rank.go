package utils

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Candidate is a search hit waiting to be ranked
type Candidate[T any] struct {
	Item       T
	Title      string
	Popularity float64
}

// RankByPopularity sorts candidates by:
// 1. Popularity signal (higher first)
// 2. Edit distance between title and query (closer first)
// Equal candidates keep their upstream order.
func RankByPopularity[T any](candidates []Candidate[T], query string) []T {
	sorted := make([]Candidate[T], len(candidates))
	copy(sorted, candidates)

	q := strings.ToLower(strings.TrimSpace(query))
	distances := make(map[int]int, len(sorted))
	distance := func(i int) int {
		if d, ok := distances[i]; ok {
			return d
		}
		d := levenshtein.ComputeDistance(q, strings.ToLower(sorted[i].Title))
		distances[i] = d
		return d
	}

	indexes := make([]int, len(sorted))
	for i := range indexes {
		indexes[i] = i
	}

	sort.SliceStable(indexes, func(a, b int) bool {
		i, j := indexes[a], indexes[b]
		if sorted[i].Popularity != sorted[j].Popularity {
			return sorted[i].Popularity > sorted[j].Popularity
		}
		return distance(i) < distance(j)
	})

	items := make([]T, len(indexes))
	for pos, i := range indexes {
		items[pos] = sorted[i].Item
	}
	return items
}

var yearRegex = regexp.MustCompile(`^(\d{4})`)

// ExtractYear returns the leading 4-digit year of a date such as
// "2009-12-18" or "2009". Returns "" when there is none.
func ExtractYear(date string) string {
	matches := yearRegex.FindStringSubmatch(strings.TrimSpace(date))
	if len(matches) < 2 {
		return ""
	}
	if _, err := strconv.Atoi(matches[1]); err != nil {
		return ""
	}
	return matches[1]
}

// YearOrUnknown returns the release year of date or "Unknown Year"
func YearOrUnknown(date string) string {
	if year := ExtractYear(date); year != "" {
		return year
	}
	return "Unknown Year"
}
