// Package store defines the document store contract: top-K cosine retrieval
// optionally pre-filtered by structured metadata, plus a match count used by
// the density estimator. Stores are read-only once a corpus is installed;
// rebuilds swap the whole snapshot rather than mutating hot read paths.
package store

import (
	"context"

	"github.com/kaiyu-cloud/tripdex/internal/domain/document"
	"github.com/kaiyu-cloud/tripdex/internal/domain/filter"
)

// Candidate is a document retrieved from the store before reranking, with
// its raw similarity to the query vector.
type Candidate struct {
	Document   document.Document
	Similarity float64
}

// Store answers similarity searches over the loaded corpus.
type Store interface {
	// Search returns up to topK candidates matching f, sorted by
	// non-increasing similarity. topK beyond the matching set size simply
	// returns the full matching set.
	Search(ctx context.Context, vector []float32, topK int, f filter.Filter) ([]Candidate, error)

	// Count returns the number of documents matching f regardless of
	// similarity.
	Count(ctx context.Context, f filter.Filter) (int, error)
}
