// Package extract turns a free-text travel query into a structured need
// record by intersecting normalized tokens with known entity vocabularies.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kaiyu-cloud/tripdex/internal/domain/need"
	"github.com/kaiyu-cloud/tripdex/internal/text"
)

// dayCountRegex matches a number immediately followed by a day word, in
// both day-count idioms the corpus queries use (English and Thai).
var dayCountRegex = regexp.MustCompile(`(\d+)[\s-]*(?:days|day|วัน|คืน)`)

// Extractor intersects query tokens against configured entity vocabularies.
// Pure: no side effects, no external calls.
type Extractor struct {
	cities  map[string]struct{}
	seasons map[string]struct{}
}

// New creates an extractor over the known city and season/month words.
func New(cityWords, seasonWords []string) *Extractor {
	return &Extractor{
		cities:  toSet(cityWords),
		seasons: toSet(seasonWords),
	}
}

// Extract parses the query into a need record. Undetected fields stay
// empty; they are never treated as wildcards downstream.
func (e *Extractor) Extract(query string) need.Need {
	var cities, seasons []string
	seenCity := map[string]struct{}{}
	seenSeason := map[string]struct{}{}

	for _, tok := range text.Normalize(query) {
		if _, ok := e.cities[tok]; ok {
			if _, dup := seenCity[tok]; !dup {
				seenCity[tok] = struct{}{}
				cities = append(cities, tok)
			}
		}
		if _, ok := e.seasons[tok]; ok {
			if _, dup := seenSeason[tok]; !dup {
				seenSeason[tok] = struct{}{}
				seasons = append(seasons, tok)
			}
		}
	}

	days := 0
	// Day counts are matched on the raw lowercased query: normalization
	// would strip the non-ASCII day words.
	if m := dayCountRegex.FindStringSubmatch(strings.ToLower(query)); m != nil {
		days, _ = strconv.Atoi(m[1])
	}

	return need.New(cities, seasons, days)
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}
