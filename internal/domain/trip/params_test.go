package trip

import (
	"errors"
	"reflect"
	"testing"

	"github.com/kaiyu-cloud/tripdex/internal/domain"
)

func TestNewParams_DateRange(t *testing.T) {
	p, err := NewParams([]string{" Tokyo ", "Osaka"}, "28/12/2026", "03/01/2027", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"tokyo", "osaka"}; !reflect.DeepEqual(p.Cities(), want) {
		t.Errorf("cities: got %v, want %v", p.Cities(), want)
	}
	if p.Days() != 7 {
		t.Errorf("days: got %d, want 7 (inclusive)", p.Days())
	}
	if want := []string{"december", "january"}; !reflect.DeepEqual(p.Months(), want) {
		t.Errorf("months: got %v, want %v", p.Months(), want)
	}
	if !p.HasDates() {
		t.Error("HasDates: got false, want true")
	}
}

func TestNewParams_SingleDay(t *testing.T) {
	p, err := NewParams(nil, "15/04/2026", "15/04/2026", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Days() != 1 {
		t.Errorf("days: got %d, want 1", p.Days())
	}
	if want := []string{"april"}; !reflect.DeepEqual(p.Months(), want) {
		t.Errorf("months: got %v, want %v", p.Months(), want)
	}
}

func TestNewParams_DayCountOnly(t *testing.T) {
	p, err := NewParams([]string{"kyoto"}, "", "", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Days() != 5 {
		t.Errorf("days: got %d, want 5", p.Days())
	}
	if p.HasDates() {
		t.Error("HasDates: got true, want false")
	}
	if len(p.Months()) != 0 {
		t.Errorf("months: got %v, want none", p.Months())
	}
}

func TestNewParams_Rejections(t *testing.T) {
	cases := []struct {
		name     string
		start    string
		end      string
		dayCount int
	}{
		{"negative day count", "", "", -1},
		{"start without end", "01/01/2026", "", 0},
		{"end without start", "", "01/01/2026", 0},
		{"bad start format", "2026-01-01", "05/01/2026", 0},
		{"bad end format", "01/01/2026", "January 5", 0},
		{"end before start", "10/01/2026", "01/01/2026", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewParams(nil, tc.start, tc.end, tc.dayCount)
			if !errors.Is(err, domain.ErrInvalidTripParams) {
				t.Fatalf("got %v, want ErrInvalidTripParams", err)
			}
		})
	}
}
