// Package itinerary hands the selected context to the downstream generator
// and returns the structured plan. The engine's boundary ends at the chunk
// list; this package owns the prompt shape.
package itinerary

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kaiyu-cloud/tripdex/internal/domain/selection"
	"github.com/kaiyu-cloud/tripdex/internal/domain/trip"
	"github.com/kaiyu-cloud/tripdex/internal/usecase/engine"
)

// Generator is the downstream collaborator that turns a prompt into a
// structured itinerary.
type Generator interface {
	Generate(ctx context.Context, prompt string) (json.RawMessage, error)
}

// ContextSelector supplies the reference context for a request. An empty
// selection is valid; generation proceeds without context.
type ContextSelector interface {
	SelectContext(ctx context.Context, query string, params trip.Params) (engine.Result, error)
}

// Service generates itineraries with retrieval-augmented context.
type Service struct {
	selector  ContextSelector
	generator Generator
}

// New creates the itinerary service.
func New(sel ContextSelector, gen Generator) *Service {
	return &Service{selector: sel, generator: gen}
}

// Generate selects context for the request and runs the generator. Context
// selection degrades gracefully (an empty selection just means a
// no-context prompt); only param validation and generator failures surface
// as errors.
func (s *Service) Generate(
	ctx context.Context, query string, params trip.Params,
) (json.RawMessage, []selection.Chunk, error) {
	res, err := s.selector.SelectContext(ctx, query, params)
	if err != nil {
		return nil, nil, fmt.Errorf("select context: %w", err)
	}

	prompt := BuildPrompt(query, params, res.Chunks)
	plan, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, res.Chunks, err
	}
	return plan, res.Chunks, nil
}
