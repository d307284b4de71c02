package filter

import "testing"

func TestNew_RejectsBadWindow(t *testing.T) {
	if _, err := New(nil, nil, -1, 3); err == nil {
		t.Error("negative min: expected error")
	}
	if _, err := New(nil, nil, 5, 3); err == nil {
		t.Error("min > max: expected error")
	}
	if _, err := New(nil, nil, 0, 0); err != nil {
		t.Errorf("no window: unexpected error %v", err)
	}
}

func TestMatches_Conjunctive(t *testing.T) {
	f, err := New([]string{"tokyo"}, []string{"december"}, 2, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name   string
		cities []string
		months []string
		days   int
		want   bool
	}{
		{"all satisfied", []string{"tokyo", "osaka"}, []string{"december", "january"}, 3, true},
		{"missing city", []string{"osaka"}, []string{"december"}, 3, false},
		{"missing month", []string{"tokyo"}, []string{"july"}, 3, false},
		{"below day window", []string{"tokyo"}, []string{"december"}, 1, false},
		{"above day window", []string{"tokyo"}, []string{"december"}, 5, false},
		{"window boundary low", []string{"tokyo"}, []string{"december"}, 2, true},
		{"window boundary high", []string{"tokyo"}, []string{"december"}, 4, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.Matches(tc.cities, tc.months, tc.days); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMatches_ZeroValueMatchesEverything(t *testing.T) {
	var f Filter
	if !f.IsEmpty() {
		t.Fatal("zero value should be empty")
	}
	if !f.Matches(nil, nil, 0) {
		t.Error("zero value should match a bare document")
	}
	if !f.Matches([]string{"kyoto"}, []string{"april"}, 10) {
		t.Error("zero value should match any document")
	}
}

func TestRelaxationCopies(t *testing.T) {
	f, err := New([]string{"tokyo"}, []string{"december"}, 2, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	noWindow := f.WithoutDayWindow()
	if noWindow.HasDayWindow() {
		t.Error("WithoutDayWindow kept the window")
	}
	if len(noWindow.Cities()) != 1 || len(noWindow.Months()) != 1 {
		t.Error("WithoutDayWindow dropped other predicates")
	}

	citiesOnly := f.CitiesOnly()
	if citiesOnly.HasDayWindow() || len(citiesOnly.Months()) != 0 {
		t.Error("CitiesOnly kept non-city predicates")
	}
	if len(citiesOnly.Cities()) != 1 {
		t.Error("CitiesOnly dropped the city predicate")
	}

	// Original is untouched.
	if !f.HasDayWindow() || len(f.Months()) != 1 {
		t.Error("relaxation mutated the original filter")
	}
}
