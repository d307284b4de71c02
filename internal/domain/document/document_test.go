package document

import (
	"strings"
	"testing"
)

func TestNew_Validation(t *testing.T) {
	cases := []struct {
		name    string
		id      string
		text    string
		days    int
		wantErr bool
	}{
		{"valid", "tokyo_spots-1", "Senso-ji temple in Asakusa.", 0, false},
		{"empty id", "", "text", 0, true},
		{"id too long", strings.Repeat("a", 257), "text", 0, true},
		{"id bad chars", "tokyo spots!", "text", 0, true},
		{"empty text", "doc1", "", 0, true},
		{"text too large", "doc1", strings.Repeat("x", MaxTextSize+1), 0, true},
		{"negative duration", "doc1", "text", -1, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.id, tc.text, nil, nil, nil, tc.days)
			if (err != nil) != tc.wantErr {
				t.Errorf("got err=%v, wantErr=%v", err, tc.wantErr)
			}
		})
	}
}

func TestNew_ClonesMetadata(t *testing.T) {
	cities := []string{"tokyo"}
	d, err := New("doc1", "text", nil, cities, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cities[0] = "osaka"
	if d.Cities()[0] != "tokyo" {
		t.Error("caller mutation leaked into the document")
	}
}

func TestHasTagPrefix(t *testing.T) {
	d := Reconstruct("doc1", "text", []string{"type:ticket", "city:tokyo"}, nil, nil, 0, nil)
	if !d.HasTagPrefix("type:ticket") {
		t.Error("expected match for type:ticket")
	}
	if !d.HasTagPrefix("city:") {
		t.Error("expected match for city: prefix")
	}
	if d.HasTagPrefix("type:policy") {
		t.Error("unexpected match for type:policy")
	}
}

func TestWithVector(t *testing.T) {
	d := Reconstruct("doc1", "text", nil, nil, nil, 0, nil)
	v := []float32{0.5, 0.5}
	withVec := d.WithVector(v)
	if len(d.Vector()) != 0 {
		t.Error("WithVector mutated the receiver")
	}
	if len(withVec.Vector()) != 2 {
		t.Errorf("vector: got %v, want %v", withVec.Vector(), v)
	}
}
