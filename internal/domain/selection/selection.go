// Package selection holds the selector's tunables and its output types.
package selection

import (
	"fmt"

	"github.com/kaiyu-cloud/tripdex/internal/domain/document"
)

// Default selector tunables.
const (
	DefaultBaseK         = 2
	DefaultMaxK          = 8
	DefaultKMin          = 3
	DefaultOverFetch     = 16
	DefaultGainThreshold = 0.10
	DefaultTokenBudget   = 3000

	DefaultRelevanceWeight  = 0.5
	DefaultDiversityWeight  = 0.3
	DefaultCoverageWeight   = 0.2
	DefaultRedundancyWeight = 0.3
)

// Options are the selection tunables. All fields have documented defaults
// and are safe to leave unset (see DefaultOptions).
type Options struct {
	BaseK         int     // lower bound seed for the density estimator
	MaxK          int     // hard ceiling on selected documents
	KMin          int     // forced-acceptance floor
	OverFetch     int     // K0, candidates pulled from the store before narrowing
	GainThreshold float64 // eps, minimum per-item gain after the floor
	TokenBudget   int     // estimated-token stop condition

	RelevanceWeight  float64
	DiversityWeight  float64
	CoverageWeight   float64
	RedundancyWeight float64
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		BaseK:            DefaultBaseK,
		MaxK:             DefaultMaxK,
		KMin:             DefaultKMin,
		OverFetch:        DefaultOverFetch,
		GainThreshold:    DefaultGainThreshold,
		TokenBudget:      DefaultTokenBudget,
		RelevanceWeight:  DefaultRelevanceWeight,
		DiversityWeight:  DefaultDiversityWeight,
		CoverageWeight:   DefaultCoverageWeight,
		RedundancyWeight: DefaultRedundancyWeight,
	}
}

// Validate checks option consistency.
func (o Options) Validate() error {
	if o.BaseK <= 0 {
		return fmt.Errorf("base_k must be positive, got %d", o.BaseK)
	}
	if o.MaxK < o.BaseK {
		return fmt.Errorf("max_k %d must not be below base_k %d", o.MaxK, o.BaseK)
	}
	if o.KMin < 0 {
		return fmt.Errorf("k_min must not be negative, got %d", o.KMin)
	}
	if o.OverFetch <= 0 {
		return fmt.Errorf("over_fetch must be positive, got %d", o.OverFetch)
	}
	if o.TokenBudget <= 0 {
		return fmt.Errorf("token_budget must be positive, got %d", o.TokenBudget)
	}
	return nil
}

// ScoredDocument is one selected document annotated with the relevance and
// gain it had at the moment of acceptance. Gain is computed against the
// then-selected set, so earlier entries had the higher combined gain at
// their own step, not necessarily the globally highest relevance.
type ScoredDocument struct {
	Document  document.Document
	Relevance float64
	Gain      float64
}

// Chunk is the outbound form handed to the generator: plain text plus its
// source document ID. The engine does not know how the generator's prompt
// is structured.
type Chunk struct {
	SourceID string
	Text     string
}

// Chunks flattens a selection into generator chunks, preserving order.
func Chunks(selected []ScoredDocument) []Chunk {
	chunks := make([]Chunk, len(selected))
	for i, s := range selected {
		chunks[i] = Chunk{SourceID: s.Document.ID(), Text: s.Document.Text()}
	}
	return chunks
}
