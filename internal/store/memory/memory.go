// Package memory is the in-process store driver: brute-force cosine scan
// over an immutable snapshot. Rebuilds install a fresh snapshot through an
// atomic pointer swap, so concurrent Search/Count calls never observe a
// half-built corpus and the read path takes no locks.
package memory

import (
	"context"
	"sort"
	"sync/atomic"

	"github.com/kaiyu-cloud/tripdex/internal/domain"
	"github.com/kaiyu-cloud/tripdex/internal/domain/document"
	"github.com/kaiyu-cloud/tripdex/internal/domain/filter"
	"github.com/kaiyu-cloud/tripdex/internal/store"
)

// Store implements store.Store over an in-memory document table.
type Store struct {
	snapshot atomic.Pointer[snapshot]
}

type snapshot struct {
	docs []document.Document
}

// New creates an empty store. Search and Count on an empty store return
// zero results, not errors.
func New() *Store {
	s := &Store{}
	s.snapshot.Store(&snapshot{})
	return s
}

// Install atomically replaces the corpus snapshot. In-flight queries keep
// reading the previous snapshot until they finish.
func (s *Store) Install(docs []document.Document) {
	copied := make([]document.Document, len(docs))
	copy(copied, docs)
	s.snapshot.Store(&snapshot{docs: copied})
}

// Len returns the current corpus size.
func (s *Store) Len() int {
	return len(s.snapshot.Load().docs)
}

// Search scans the snapshot, scoring every matching document against the
// query vector.
func (s *Store) Search(
	_ context.Context, vector []float32, topK int, f filter.Filter,
) ([]store.Candidate, error) {
	if topK <= 0 {
		return nil, nil
	}

	snap := s.snapshot.Load()
	var out []store.Candidate
	for i := range snap.docs {
		d := &snap.docs[i]
		if !f.Matches(d.Cities(), d.Months(), d.DurationDays()) {
			continue
		}
		out = append(out, store.Candidate{
			Document:   *d,
			Similarity: domain.Cosine(vector, d.Vector()),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})
	if len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}

// Count returns how many documents match the filter.
func (s *Store) Count(_ context.Context, f filter.Filter) (int, error) {
	snap := s.snapshot.Load()
	n := 0
	for i := range snap.docs {
		d := &snap.docs[i]
		if f.Matches(d.Cities(), d.Months(), d.DurationDays()) {
			n++
		}
	}
	return n, nil
}
