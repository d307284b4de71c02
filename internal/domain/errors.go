package domain

import "errors"

var (
	// ErrInvalidTripParams signals malformed explicit trip parameters
	// (bad dates, non-positive day counts). Rejected, never coerced.
	ErrInvalidTripParams = errors.New("invalid trip parameters")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGeneratorError signals a downstream generator failure.
	ErrGeneratorError = errors.New("generator error")
	// ErrGeneratorBadJSON signals that the generator reply was not valid JSON.
	ErrGeneratorBadJSON = errors.New("generator returned invalid JSON")
)
