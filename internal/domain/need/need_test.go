package need

import (
	"reflect"
	"testing"
)

func TestNew_SortsAndClamps(t *testing.T) {
	n := New([]string{"osaka", "tokyo", "kyoto"}, []string{"winter", "december"}, -2)
	if want := []string{"kyoto", "osaka", "tokyo"}; !reflect.DeepEqual(n.Cities(), want) {
		t.Errorf("cities: got %v, want %v", n.Cities(), want)
	}
	if want := []string{"december", "winter"}; !reflect.DeepEqual(n.Seasons(), want) {
		t.Errorf("seasons: got %v, want %v", n.Seasons(), want)
	}
	if n.Days() != 0 || n.HasDays() {
		t.Errorf("negative days should clamp to 0, got %d", n.Days())
	}
}

func TestMerge_ExplicitWins(t *testing.T) {
	extracted := New([]string{"tokyo"}, []string{"summer"}, 3)
	merged := extracted.Merge([]string{"sapporo"}, []string{"winter"}, 7)

	if want := []string{"sapporo"}; !reflect.DeepEqual(merged.Cities(), want) {
		t.Errorf("cities: got %v, want %v", merged.Cities(), want)
	}
	if want := []string{"winter"}; !reflect.DeepEqual(merged.Seasons(), want) {
		t.Errorf("seasons: got %v, want %v", merged.Seasons(), want)
	}
	if merged.Days() != 7 {
		t.Errorf("days: got %d, want 7", merged.Days())
	}
	// Extracted need is untouched.
	if extracted.Days() != 3 || extracted.Cities()[0] != "tokyo" {
		t.Error("Merge mutated the receiver")
	}
}

func TestMerge_EmptyExplicitKeepsExtracted(t *testing.T) {
	extracted := New([]string{"tokyo"}, []string{"summer"}, 3)
	merged := extracted.Merge(nil, nil, 0)
	if !reflect.DeepEqual(merged, extracted) {
		t.Errorf("got %+v, want %+v", merged, extracted)
	}
}

func TestIsEmpty(t *testing.T) {
	if !New(nil, nil, 0).IsEmpty() {
		t.Error("empty need should report empty")
	}
	if New(nil, nil, 2).IsEmpty() {
		t.Error("need with days should not report empty")
	}
}
