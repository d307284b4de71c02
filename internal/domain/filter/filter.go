// Package filter describes the structured pre-filter applied before vector
// search. Semantics are conjunctive "contains": a document matches only if
// its metadata satisfies ALL predicates (its city set contains every filter
// city, its month set every filter month, and its duration lies inside the
// day window).
package filter

import "fmt"

// Filter restricts the eligible corpus slice for Search and Count.
// The zero value matches everything.
type Filter struct {
	cities  []string
	months  []string
	minDays int
	maxDays int
}

// New validates and creates a Filter. A day window is supplied as
// minDays..maxDays inclusive; both zero means no window.
func New(cities, months []string, minDays, maxDays int) (Filter, error) {
	if minDays < 0 || maxDays < 0 {
		return Filter{}, fmt.Errorf("day window must not be negative")
	}
	if maxDays > 0 && minDays > maxDays {
		return Filter{}, fmt.Errorf("day window min %d exceeds max %d", minDays, maxDays)
	}
	return Filter{cities: cities, months: months, minDays: minDays, maxDays: maxDays}, nil
}

// Cities returns the required city tokens.
func (f Filter) Cities() []string { return f.cities }

// Months returns the required month names.
func (f Filter) Months() []string { return f.months }

// MinDays returns the inclusive lower day-window bound (0 = unbounded).
func (f Filter) MinDays() int { return f.minDays }

// MaxDays returns the inclusive upper day-window bound (0 = unbounded).
func (f Filter) MaxDays() int { return f.maxDays }

// HasDayWindow reports whether a day window is set.
func (f Filter) HasDayWindow() bool { return f.maxDays > 0 }

// IsEmpty reports whether the filter matches every document.
func (f Filter) IsEmpty() bool {
	return len(f.cities) == 0 && len(f.months) == 0 && !f.HasDayWindow()
}

// WithoutDayWindow returns a copy with the day window dropped.
func (f Filter) WithoutDayWindow() Filter {
	return Filter{cities: f.cities, months: f.months}
}

// WithoutMonths returns a copy with the month predicate dropped.
func (f Filter) WithoutMonths() Filter {
	return Filter{cities: f.cities, minDays: f.minDays, maxDays: f.maxDays}
}

// CitiesOnly returns a copy keeping only the city predicate.
func (f Filter) CitiesOnly() Filter {
	return Filter{cities: f.cities}
}

// Matches reports whether a document with the given metadata passes the
// filter. Every filter city must appear in cities, every filter month in
// months, and durationDays must lie inside the window when one is set.
func (f Filter) Matches(cities, months []string, durationDays int) bool {
	if !containsAll(cities, f.cities) {
		return false
	}
	if !containsAll(months, f.months) {
		return false
	}
	if f.HasDayWindow() && (durationDays < f.minDays || durationDays > f.maxDays) {
		return false
	}
	return true
}

func containsAll(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
