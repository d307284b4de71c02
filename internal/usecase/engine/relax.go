package engine

import "github.com/kaiyu-cloud/tripdex/internal/domain/filter"

// relaxStep is one entry in the retrieval relaxation ladder: a named
// transformation of the base filter. The ladder is tried in order until a
// step yields candidates, which keeps the retry policy declarative instead
// of nested branching.
type relaxStep struct {
	name  string
	apply func(filter.Filter) filter.Filter
}

var relaxLadder = []relaxStep{
	{name: "exact", apply: func(f filter.Filter) filter.Filter { return f }},
	{name: "no_day_window", apply: filter.Filter.WithoutDayWindow},
	{name: "cities_only", apply: filter.Filter.CitiesOnly},
	{name: "unfiltered", apply: func(filter.Filter) filter.Filter { return filter.Filter{} }},
}

// relaxPlan expands the base filter through the ladder, skipping steps that
// reproduce an already-planned filter (e.g. when the base filter has no day
// window to drop).
func relaxPlan(base filter.Filter) []struct {
	Name   string
	Filter filter.Filter
} {
	var plan []struct {
		Name   string
		Filter filter.Filter
	}
	for _, step := range relaxLadder {
		f := step.apply(base)
		dup := false
		for _, p := range plan {
			if filtersEqual(p.Filter, f) {
				dup = true
				break
			}
		}
		if !dup {
			plan = append(plan, struct {
				Name   string
				Filter filter.Filter
			}{step.name, f})
		}
	}
	return plan
}

func filtersEqual(a, b filter.Filter) bool {
	return slicesEqual(a.Cities(), b.Cities()) &&
		slicesEqual(a.Months(), b.Months()) &&
		a.MinDays() == b.MinDays() && a.MaxDays() == b.MaxDays()
}

func slicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// dayWindowWidth returns how far the duration filter widens around the trip
// length: short trips get a tight window, long trips a loose one.
func dayWindowWidth(days int) int {
	switch {
	case days <= 3:
		return 1
	case days <= 7:
		return 2
	default:
		return 3
	}
}
