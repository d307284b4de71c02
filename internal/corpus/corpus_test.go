package corpus

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kaiyu-cloud/tripdex/internal/embed/lexical"
)

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write corpus: %v", err)
	}
	return path
}

const validCorpus = `
documents:
  - id: tokyo_spots
    text: "Senso-ji temple, Shibuya crossing, Tokyo Skytree."
    tags: ["type:sights"]
    cities: [" Tokyo "]
    months: ["December", "january"]
  - id: jr_pass
    text: "The JR Pass covers shinkansen travel between cities."
    tags: ["type:ticket"]
    duration_days: 7
`

func TestLoad_Valid(t *testing.T) {
	records, err := Load(writeCorpus(t, validCorpus))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	r := records[0]
	if r.Cities[0] != "tokyo" {
		t.Errorf("cities not normalized: got %q", r.Cities[0])
	}
	if r.Months[0] != "december" || r.Months[1] != "january" {
		t.Errorf("months not normalized: got %v", r.Months)
	}
	if records[1].DurationDays != 7 {
		t.Errorf("duration_days: got %d, want 7", records[1].DurationDays)
	}
}

func TestLoad_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		content string
		errPart string
	}{
		{"empty file", "documents: []", "no documents"},
		{
			"duplicate id",
			"documents:\n  - {id: a, text: x}\n  - {id: a, text: y}",
			"duplicate document ID",
		},
		{
			"invalid record",
			"documents:\n  - {id: 'bad id!', text: x}",
			"document \"bad id!\"",
		},
		{"not yaml", "{{{", "parse corpus"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeCorpus(t, tc.content))
			if err == nil || !strings.Contains(err.Error(), tc.errPart) {
				t.Errorf("got %v, want error containing %q", err, tc.errPart)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestBuild_AttachesVectors(t *testing.T) {
	records, err := Load(writeCorpus(t, validCorpus))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	enc := lexical.NewEncoder(lexical.BuildVocabulary(Texts(records)))
	docs, err := Build(context.Background(), records, enc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	for _, d := range docs {
		if len(d.Vector()) == 0 {
			t.Errorf("document %s has no vector", d.ID())
		}
	}
	if docs[0].ID() != "tokyo_spots" || docs[0].Cities()[0] != "tokyo" {
		t.Errorf("metadata lost in build: %+v", docs[0])
	}
}
