// Package trip validates the explicit trip parameters that accompany a
// free-text request. Malformed input is an input-shape error and rejects the
// request; it is never silently coerced.
package trip

import (
	"fmt"
	"strings"
	"time"

	"github.com/kaiyu-cloud/tripdex/internal/domain"
)

// DateLayout is the wire format for trip dates (DD/MM/YYYY).
const DateLayout = "02/01/2006"

// Params are the optional explicit trip parameters of a request. When
// present they take precedence over whatever the need extractor parses from
// free text.
type Params struct {
	cities    []string
	months    []string
	days      int
	startDate time.Time
	endDate   time.Time
}

// NewParams validates explicit parameters. Either a start/end date pair (the
// day count and month span derive from it) or a bare day count may be given;
// dates win when both are present. Empty strings mean "not supplied".
func NewParams(cities []string, startDate, endDate string, dayCount int) (Params, error) {
	p := Params{days: dayCount}
	for _, c := range cities {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			p.cities = append(p.cities, c)
		}
	}

	if dayCount < 0 {
		return Params{}, fmt.Errorf("%w: day count %d must be positive", domain.ErrInvalidTripParams, dayCount)
	}

	if (startDate == "") != (endDate == "") {
		return Params{}, fmt.Errorf("%w: start and end date must be supplied together", domain.ErrInvalidTripParams)
	}
	if startDate == "" {
		return p, nil
	}

	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return Params{}, fmt.Errorf("%w: start date %q: expected DD/MM/YYYY", domain.ErrInvalidTripParams, startDate)
	}
	end, err := time.Parse(DateLayout, endDate)
	if err != nil {
		return Params{}, fmt.Errorf("%w: end date %q: expected DD/MM/YYYY", domain.ErrInvalidTripParams, endDate)
	}
	if end.Before(start) {
		return Params{}, fmt.Errorf("%w: end date precedes start date", domain.ErrInvalidTripParams)
	}

	p.startDate = start
	p.endDate = end
	p.days = int(end.Sub(start).Hours()/24) + 1 // inclusive range
	p.months = monthSpan(start, end)
	return p, nil
}

// Cities returns the explicit lowercase city list.
func (p Params) Cities() []string { return p.cities }

// Months returns every calendar month name the date range touches, lowercase.
func (p Params) Months() []string { return p.months }

// Days returns the trip length in days, 0 when not supplied.
func (p Params) Days() int { return p.days }

// HasDates reports whether an explicit date range was supplied.
func (p Params) HasDates() bool { return !p.startDate.IsZero() }

// StartDate returns the parsed start date (zero when not supplied).
func (p Params) StartDate() time.Time { return p.startDate }

// EndDate returns the parsed end date (zero when not supplied).
func (p Params) EndDate() time.Time { return p.endDate }

// monthSpan walks the range month by month collecting each month name once.
func monthSpan(start, end time.Time) []string {
	var months []string
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(last) {
		months = append(months, strings.ToLower(cur.Month().String()))
		cur = cur.AddDate(0, 1, 0)
	}
	return months
}
