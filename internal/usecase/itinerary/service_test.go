package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/kaiyu-cloud/tripdex/internal/domain/selection"
	"github.com/kaiyu-cloud/tripdex/internal/domain/trip"
	"github.com/kaiyu-cloud/tripdex/internal/usecase/engine"
)

type mockSelector struct {
	result engine.Result
	err    error
}

func (m *mockSelector) SelectContext(context.Context, string, trip.Params) (engine.Result, error) {
	return m.result, m.err
}

type mockGenerator struct {
	prompt string
	plan   json.RawMessage
	err    error
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (json.RawMessage, error) {
	m.prompt = prompt
	if m.err != nil {
		return nil, m.err
	}
	return m.plan, nil
}

func testParams(t *testing.T) trip.Params {
	t.Helper()
	p, err := trip.NewParams([]string{"tokyo"}, "", "", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestGenerate_PassesChunksIntoPrompt(t *testing.T) {
	sel := &mockSelector{result: engine.Result{
		Chunks: []selection.Chunk{{SourceID: "tokyo_spots", Text: "Senso-ji temple."}},
	}}
	gen := &mockGenerator{plan: json.RawMessage(`{"itinerary":[]}`)}

	plan, chunks, err := New(sel, gen).Generate(context.Background(), "tokyo trip", testParams(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(plan) != `{"itinerary":[]}` {
		t.Errorf("plan: got %s", plan)
	}
	if len(chunks) != 1 {
		t.Errorf("chunks: got %d, want 1", len(chunks))
	}
	if !strings.Contains(gen.prompt, "[tokyo_spots] Senso-ji temple.") {
		t.Error("selected chunk missing from the prompt")
	}
}

func TestGenerate_EmptySelectionStillGenerates(t *testing.T) {
	sel := &mockSelector{result: engine.Result{}}
	gen := &mockGenerator{plan: json.RawMessage(`{}`)}

	_, chunks, err := New(sel, gen).Generate(context.Background(), "anywhere", testParams(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("chunks: got %d, want 0", len(chunks))
	}
	if !strings.Contains(gen.prompt, "No reference context is available") {
		t.Error("expected the no-context prompt variant")
	}
}

func TestGenerate_GeneratorErrorSurfaces(t *testing.T) {
	wantErr := errors.New("model unavailable")
	sel := &mockSelector{result: engine.Result{
		Chunks: []selection.Chunk{{SourceID: "a", Text: "b"}},
	}}
	gen := &mockGenerator{err: wantErr}

	_, chunks, err := New(sel, gen).Generate(context.Background(), "q", testParams(t))
	if !errors.Is(err, wantErr) {
		t.Fatalf("got %v, want %v", err, wantErr)
	}
	// The selected chunks still come back for observability.
	if len(chunks) != 1 {
		t.Errorf("chunks: got %d, want 1", len(chunks))
	}
}
