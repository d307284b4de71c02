// Package rerank refines the over-fetched candidate set with a relevance
// score. The shipped implementation is a heuristic stand-in for a
// cross-encoder model; anything satisfying Reranker can replace it without
// touching the selector.
package rerank

import (
	"context"
	"sort"

	"github.com/kaiyu-cloud/tripdex/internal/domain"
	"github.com/kaiyu-cloud/tripdex/internal/domain/document"
	"github.com/kaiyu-cloud/tripdex/internal/store"
)

// LogisticsBoost is the fixed additive relevance boost for documents tagged
// as ticket, policy, or transport information. Such documents are
// disproportionately useful regardless of raw lexical overlap.
const LogisticsBoost = 0.02

var boostedTagPrefixes = []string{"type:policy", "type:ticket", "type:transport"}

// Scored pairs a document with its refined relevance.
type Scored struct {
	Document  document.Document
	Relevance float64
}

// Reranker assigns refined relevance scores to candidates, descending.
type Reranker interface {
	Rerank(ctx context.Context, query string, candidates []store.Candidate) ([]Scored, error)
}

// Cosine reranks by cosine similarity between the query vector and each
// document vector, plus the logistics tag boost.
type Cosine struct {
	embedder domain.Embedder
}

// NewCosine creates the heuristic reranker.
func NewCosine(embedder domain.Embedder) *Cosine {
	return &Cosine{embedder: embedder}
}

// Rerank implements Reranker.
func (r *Cosine) Rerank(
	ctx context.Context, query string, candidates []store.Candidate,
) ([]Scored, error) {
	qres, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	scored := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		rel := domain.Cosine(qres.Embedding, c.Document.Vector())
		for _, prefix := range boostedTagPrefixes {
			if c.Document.HasTagPrefix(prefix) {
				rel += LogisticsBoost
				break
			}
		}
		scored = append(scored, Scored{Document: c.Document, Relevance: rel})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Relevance > scored[j].Relevance
	})
	return scored, nil
}
