package domain

import "context"

// Embedder is the shared text vectorization contract between layers.
// Both the lexical frequency encoder and the dense OpenAI-backed provider
// satisfy it; vectors are unit L2 norm and cosine-comparable only when
// produced by the same implementation instance.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Cosine returns the dot product of two unit vectors.
// Mismatched lengths score over the shared prefix; vectors from different
// vocabularies are not comparable and callers must not mix them.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}
