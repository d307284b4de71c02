// Package lexical implements the in-process embedding backend: frequency
// vectors over a vocabulary built once from the corpus, L2-normalized so
// cosine similarity is a plain dot product. It satisfies the same
// domain.Embedder contract as the dense provider, which makes it the
// default for tests and small corpora.
package lexical

import (
	"context"
	"math"

	"github.com/kaiyu-cloud/tripdex/internal/domain"
	"github.com/kaiyu-cloud/tripdex/internal/text"
)

// epsilon keeps all-zero vectors at zero during normalization instead of NaN.
const epsilon = 1e-8

// Vocabulary maps token to vector index, in first-seen order over the corpus.
type Vocabulary struct {
	index map[string]int
}

// BuildVocabulary scans the corpus texts once and assigns each new token the
// next index.
func BuildVocabulary(texts []string) *Vocabulary {
	index := make(map[string]int)
	for _, t := range texts {
		for _, tok := range text.Normalize(t) {
			if _, ok := index[tok]; !ok {
				index[tok] = len(index)
			}
		}
	}
	return &Vocabulary{index: index}
}

// Size returns the vector dimensionality.
func (v *Vocabulary) Size() int { return len(v.index) }

// Encoder turns text into unit frequency vectors over a fixed vocabulary.
// Two vectors are comparable only if produced by the same Vocabulary.
type Encoder struct {
	vocab *Vocabulary
}

// NewEncoder creates an encoder over the given vocabulary.
func NewEncoder(vocab *Vocabulary) *Encoder {
	return &Encoder{vocab: vocab}
}

// Encode produces the frequency vector for s: token counts at vocabulary
// positions, then L2-normalized. Tokens outside the vocabulary are ignored;
// a text with no known tokens encodes to the zero vector.
func (e *Encoder) Encode(s string) []float32 {
	v := make([]float32, e.vocab.Size())
	for _, tok := range text.Normalize(s) {
		if i, ok := e.vocab.index[tok]; ok {
			v[i]++
		}
	}

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum) + epsilon
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v
}

// Embed implements domain.Embedder. It never fails and ignores the context;
// the signature exists so callers can swap in the dense provider.
func (e *Encoder) Embed(_ context.Context, s string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{Embedding: e.Encode(s)}, nil
}
