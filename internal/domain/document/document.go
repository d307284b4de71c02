package document

import (
	"fmt"
	"regexp"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxTextSize is the maximum document text size in bytes.
const MaxTextSize = 163840 // 160KB

// Document is a corpus reference passage (immutable value object).
// Created at corpus load time, never mutated after ingestion; removed only
// by a corpus rebuild.
type Document struct {
	id           string
	text         string
	tags         []string
	cities       []string
	months       []string
	durationDays int
	vector       []float32
}

// New validates and creates a Document.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars. Text: non-empty, max 160KB.
func New(id, text string, tags, cities, months []string, durationDays int) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if len(id) > 256 {
		return Document{}, fmt.Errorf("document ID too long (max 256)")
	}
	if !idRegex.MatchString(id) {
		return Document{}, fmt.Errorf("document ID must be alphanumeric with underscores and hyphens")
	}
	if text == "" {
		return Document{}, fmt.Errorf("text is required")
	}
	if len(text) > MaxTextSize {
		return Document{}, fmt.Errorf("text too large (max %d bytes)", MaxTextSize)
	}
	if durationDays < 0 {
		return Document{}, fmt.Errorf("duration_days must not be negative")
	}

	return Document{
		id:           id,
		text:         text,
		tags:         cloneSlice(tags),
		cities:       cloneSlice(cities),
		months:       cloneSlice(months),
		durationDays: durationDays,
	}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(
	id, text string, tags, cities, months []string, durationDays int, vector []float32,
) Document {
	return Document{
		id: id, text: text, tags: tags, cities: cities, months: months,
		durationDays: durationDays, vector: vector,
	}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Text returns the source passage.
func (d *Document) Text() string { return d.text }

// Tags returns the labeled tag strings (e.g. "type:ticket").
func (d *Document) Tags() []string { return d.tags }

// Cities returns the city metadata column.
func (d *Document) Cities() []string { return d.cities }

// Months returns the month metadata column.
func (d *Document) Months() []string { return d.months }

// DurationDays returns the trip length this passage describes (0 = unspecified).
func (d *Document) DurationDays() int { return d.durationDays }

// Vector returns the embedding vector.
func (d *Document) Vector() []float32 { return d.vector }

// WithVector returns a copy with the given vector set.
func (d *Document) WithVector(v []float32) Document {
	c := *d
	c.vector = v
	return c
}

// HasTagPrefix reports whether any tag starts with the given prefix.
func (d *Document) HasTagPrefix(prefix string) bool {
	for _, t := range d.tags {
		if len(t) >= len(prefix) && t[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

func cloneSlice(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}
