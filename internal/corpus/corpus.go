// Package corpus loads reference documents from a YAML file and prepares
// them for the store: validation, vocabulary-driven encoding, and the
// rebuild-and-swap path. Documents are immutable once built; a rebuild runs
// the same path again and installs a fresh snapshot.
package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kaiyu-cloud/tripdex/internal/domain"
	"github.com/kaiyu-cloud/tripdex/internal/domain/document"
)

// Record is one corpus entry on disk.
type Record struct {
	ID           string   `yaml:"id"`
	Text         string   `yaml:"text"`
	Tags         []string `yaml:"tags"`
	Cities       []string `yaml:"cities"`
	Months       []string `yaml:"months"`
	DurationDays int      `yaml:"duration_days"`
}

type file struct {
	Documents []Record `yaml:"documents"`
}

// Load reads and validates corpus records from a YAML file. Metadata values
// are lowercased so filter matching stays case-insensitive.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse corpus: %w", err)
	}
	if len(f.Documents) == 0 {
		return nil, fmt.Errorf("corpus %s has no documents", path)
	}

	seen := make(map[string]struct{}, len(f.Documents))
	for i := range f.Documents {
		r := &f.Documents[i]
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("duplicate document ID %q", r.ID)
		}
		seen[r.ID] = struct{}{}
		r.Cities = lowerAll(r.Cities)
		r.Months = lowerAll(r.Months)
		// Validate eagerly: a bad record should fail the load, not the query path.
		if _, err := document.New(r.ID, r.Text, r.Tags, r.Cities, r.Months, r.DurationDays); err != nil {
			return nil, fmt.Errorf("document %q: %w", r.ID, err)
		}
	}
	return f.Documents, nil
}

// Texts returns the raw text of every record, in corpus order. This is the
// input for vocabulary building.
func Texts(records []Record) []string {
	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Text
	}
	return texts
}

// Build encodes every record with the given embedder and returns the
// finished documents, ready to install into a store.
func Build(ctx context.Context, records []Record, embedder domain.Embedder) ([]document.Document, error) {
	docs := make([]document.Document, 0, len(records))
	for _, r := range records {
		d, err := document.New(r.ID, r.Text, r.Tags, r.Cities, r.Months, r.DurationDays)
		if err != nil {
			return nil, fmt.Errorf("document %q: %w", r.ID, err)
		}
		res, err := embedder.Embed(ctx, r.Text)
		if err != nil {
			return nil, fmt.Errorf("embed document %q: %w", r.ID, err)
		}
		docs = append(docs, d.WithVector(res.Embedding))
	}
	return docs, nil
}

func lowerAll(s []string) []string {
	out := make([]string, 0, len(s))
	for _, v := range s {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
