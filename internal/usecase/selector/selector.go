// Package selector implements the greedy dynamic-K selection loop: walk
// the reranked candidates scoring each by relevance, diversity, topical
// coverage, and redundancy against the evolving selected set, and stop at
// the density bound, the token budget, or list exhaustion.
package selector

import (
	"strings"

	"github.com/kaiyu-cloud/tripdex/internal/domain"
	"github.com/kaiyu-cloud/tripdex/internal/domain/need"
	"github.com/kaiyu-cloud/tripdex/internal/domain/selection"
	"github.com/kaiyu-cloud/tripdex/internal/text"
	"github.com/kaiyu-cloud/tripdex/internal/usecase/rerank"
)

// Select walks reranked in order and returns the accepted documents in
// acceptance order, each annotated with the relevance and gain it had at
// the moment of acceptance.
//
// Acceptance: unconditional while fewer than KMin documents are selected
// (guarantees a non-trivial context even on a sparse corpus); afterwards a
// candidate needs gain >= GainThreshold and room below kUpper. Gain is
// recomputed fresh for every candidate because diversity and redundancy
// depend on what is already selected.
//
// The token-budget check runs after each acceptance, so the budget can be
// exceeded by at most one document's size. Downstream prompt assembly
// compensates for that slack; do not tighten it.
//
// There is no failure mode: an empty candidate list yields an empty
// selection, which is a valid result.
func Select(
	reranked []rerank.Scored, n need.Need, kUpper int, opts selection.Options,
) []selection.ScoredDocument {
	var selected []selection.ScoredDocument
	var selectedVectors [][]float32
	var selectedTexts []string

	for _, cand := range reranked {
		redundancy := maxCosine(cand.Document.Vector(), selectedVectors)
		diversity := 1.0 - redundancy
		coverage := coverageGain(cand.Document.Text(), n)

		gain := opts.RelevanceWeight*cand.Relevance +
			opts.DiversityWeight*diversity +
			opts.CoverageWeight*coverage -
			opts.RedundancyWeight*redundancy

		forceTake := len(selected) < opts.KMin

		if forceTake || (gain >= opts.GainThreshold && len(selected) < kUpper) {
			selected = append(selected, selection.ScoredDocument{
				Document:  cand.Document,
				Relevance: cand.Relevance,
				Gain:      gain,
			})
			selectedVectors = append(selectedVectors, cand.Document.Vector())
			selectedTexts = append(selectedTexts, cand.Document.Text())
		}

		if len(selected) >= kUpper {
			break
		}
		if text.EstimateTokens(selectedTexts) > opts.TokenBudget {
			break
		}
	}

	return selected
}

// maxCosine returns the candidate's maximum similarity to anything already
// selected, 0 when nothing is selected yet.
func maxCosine(v []float32, selected [][]float32) float64 {
	best := 0.0
	for _, s := range selected {
		if c := domain.Cosine(v, s); c > best {
			best = c
		}
	}
	return best
}

// coverageGain scores how much of the query-implied need the candidate text
// covers: 1.0 per named city present, 0.5 per season word, a flat 0.5 when
// a day count is needed. The sum is normalized by the entity count (so
// entity-rich queries are not unfairly easy to cover) and capped at 1.0.
func coverageGain(docText string, n need.Need) float64 {
	lower := strings.ToLower(docText)

	gain := 0.0
	for _, c := range n.Cities() {
		if strings.Contains(lower, c) {
			gain += 1.0
		}
	}
	for _, s := range n.Seasons() {
		if strings.Contains(lower, s) {
			gain += 0.5
		}
	}
	if n.HasDays() {
		gain += 0.5 // weakly favor docs that can help scheduling
	}

	denom := 1.0
	if len(n.Cities()) > 0 {
		denom = float64(len(n.Cities())) + 1.0
	}

	cov := gain / denom
	if cov > 1.0 {
		cov = 1.0
	}
	return cov
}
