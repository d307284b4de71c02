// Package need holds the structured extraction of trip entities from a
// free-text query. A Need lives for the duration of one selection call.
package need

import "sort"

// Need is what the query asks for: cities, season/month words, and an
// optional trip length. Absent fields stay empty; absence never acts as a
// wildcard in scoring, it only removes the coverage bonus.
type Need struct {
	cities  []string
	seasons []string
	days    int // 0 = not detected
}

// New creates a Need with the entity sets sorted for deterministic scoring.
func New(cities, seasons []string, days int) Need {
	c := append([]string(nil), cities...)
	s := append([]string(nil), seasons...)
	sort.Strings(c)
	sort.Strings(s)
	if days < 0 {
		days = 0
	}
	return Need{cities: c, seasons: s, days: days}
}

// Cities returns the lowercase city tokens found in the query.
func (n Need) Cities() []string { return n.cities }

// Seasons returns the season/month tokens found in the query.
func (n Need) Seasons() []string { return n.seasons }

// Days returns the trip length in days, 0 when not detected.
func (n Need) Days() int { return n.days }

// HasDays reports whether a trip length was detected.
func (n Need) HasDays() bool { return n.days > 0 }

// IsEmpty reports whether nothing was extracted.
func (n Need) IsEmpty() bool {
	return len(n.cities) == 0 && len(n.seasons) == 0 && n.days == 0
}

// Merge overlays explicit values on top of the extracted ones: non-empty
// explicit cities/seasons and a positive explicit day count replace the
// parsed fields.
func (n Need) Merge(cities, seasons []string, days int) Need {
	out := n
	if len(cities) > 0 {
		out.cities = append([]string(nil), cities...)
		sort.Strings(out.cities)
	}
	if len(seasons) > 0 {
		out.seasons = append([]string(nil), seasons...)
		sort.Strings(out.seasons)
	}
	if days > 0 {
		out.days = days
	}
	return out
}
