package engine

import (
	"context"

	"github.com/kaiyu-cloud/tripdex/internal/domain/filter"
	"github.com/kaiyu-cloud/tripdex/internal/domain/need"
	"github.com/kaiyu-cloud/tripdex/internal/domain/selection"
	"github.com/kaiyu-cloud/tripdex/internal/store"
	"github.com/kaiyu-cloud/tripdex/internal/usecase/rerank"
)

// Store is the document store contract the engine consumes.
type Store interface {
	Search(ctx context.Context, vector []float32, topK int, f filter.Filter) ([]store.Candidate, error)
	Count(ctx context.Context, f filter.Filter) (int, error)
}

// Reranker re-scores the over-fetched candidate set.
type Reranker interface {
	Rerank(ctx context.Context, query string, candidates []store.Candidate) ([]rerank.Scored, error)
}

// Extractor parses the free-text query into a need record.
type Extractor interface {
	Extract(query string) need.Need
}

// Result is one completed selection run.
type Result struct {
	Selected []selection.ScoredDocument
	Chunks   []selection.Chunk
	Need     need.Need
	KUpper   int
	Strategy string // relaxation strategy that produced the candidates, "" when none did
}
