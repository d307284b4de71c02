package selector

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/kaiyu-cloud/tripdex/internal/domain/document"
	"github.com/kaiyu-cloud/tripdex/internal/domain/need"
	"github.com/kaiyu-cloud/tripdex/internal/domain/selection"
	"github.com/kaiyu-cloud/tripdex/internal/usecase/rerank"
)

func scored(id, docText string, relevance float64, vector []float32) rerank.Scored {
	return rerank.Scored{
		Document:  document.Reconstruct(id, docText, nil, nil, nil, 0, vector),
		Relevance: relevance,
	}
}

func TestSelect_EmptyCandidates(t *testing.T) {
	got := Select(nil, need.New(nil, nil, 0), 5, selection.DefaultOptions())
	if len(got) != 0 {
		t.Errorf("got %d documents, want 0", len(got))
	}
}

func TestSelect_ForcedFloor(t *testing.T) {
	// Three identical low-relevance candidates: gain after the first is
	// negative, but the floor forces acceptance anyway.
	v := []float32{1, 0}
	cands := []rerank.Scored{
		scored("a", "dull passage", 0.01, v),
		scored("b", "dull passage", 0.01, v),
		scored("c", "dull passage", 0.01, v),
		scored("d", "dull passage", 0.01, v),
	}
	opts := selection.DefaultOptions()
	opts.KMin = 3

	got := Select(cands, need.New(nil, nil, 0), 8, opts)
	if len(got) != 3 {
		t.Fatalf("got %d documents, want forced floor of 3", len(got))
	}
	if got[1].Gain >= opts.GainThreshold {
		t.Errorf("duplicate candidate gain %v should be below threshold", got[1].Gain)
	}
}

func TestSelect_UpperBoundCap(t *testing.T) {
	var cands []rerank.Scored
	for i := 0; i < 10; i++ {
		// Mutually orthogonal, high relevance: everything wants in.
		v := make([]float32, 10)
		v[i] = 1
		cands = append(cands, scored(fmt.Sprintf("doc%d", i), "tokyo passage", 0.9, v))
	}
	opts := selection.DefaultOptions()
	opts.KMin = 1

	got := Select(cands, need.New([]string{"tokyo"}, nil, 0), 4, opts)
	if len(got) != 4 {
		t.Errorf("got %d documents, want kUpper 4", len(got))
	}
}

func TestSelect_RedundantCandidateRejectedAfterFloor(t *testing.T) {
	v := []float32{1, 0}
	orthogonal := []float32{0, 1}
	cands := []rerank.Scored{
		scored("first", "tokyo temples", 0.6, v),
		scored("duplicate", "tokyo temples", 0.6, v),
		scored("fresh", "osaka food", 0.8, orthogonal),
	}
	opts := selection.DefaultOptions()
	opts.KMin = 1

	got := Select(cands, need.New(nil, nil, 0), 8, opts)
	ids := make([]string, len(got))
	for i, s := range got {
		ids[i] = s.Document.ID()
	}
	if want := []string{"first", "fresh"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("got %v, want %v", ids, want)
	}
}

func TestSelect_TokenBudgetOvershootByOne(t *testing.T) {
	long := strings.Repeat("tokyo shinjuku asakusa shibuya ginza ueno akihabara roppongi ", 20)
	cands := []rerank.Scored{
		scored("a", long, 0.9, []float32{1, 0, 0}),
		scored("b", long, 0.9, []float32{0, 1, 0}),
		scored("c", long, 0.9, []float32{0, 0, 1}),
	}
	opts := selection.DefaultOptions()
	opts.KMin = 1
	opts.TokenBudget = 10 // far below one document's size

	got := Select(cands, need.New(nil, nil, 0), 8, opts)
	// Budget is checked after acceptance: the first document lands even
	// though it alone blows the budget, and nothing follows it.
	if len(got) != 1 {
		t.Errorf("got %d documents, want exactly 1", len(got))
	}
}

func TestSelect_CoverageFavorsNeededEntities(t *testing.T) {
	v1 := []float32{1, 0}
	v2 := []float32{0, 1}
	n := need.New([]string{"tokyo"}, []string{"winter"}, 0)

	covered := Select([]rerank.Scored{scored("covered", "winter in tokyo", 0.5, v1)}, n, 8, lowFloor())
	uncovered := Select([]rerank.Scored{scored("uncovered", "beach holiday", 0.5, v2)}, n, 8, lowFloor())
	if len(covered) != 1 || len(uncovered) != 1 {
		t.Fatal("expected one forced acceptance each")
	}
	if covered[0].Gain <= uncovered[0].Gain {
		t.Errorf("covering doc gain %v should exceed non-covering %v",
			covered[0].Gain, uncovered[0].Gain)
	}
}

func TestSelect_Deterministic(t *testing.T) {
	cands := []rerank.Scored{
		scored("a", "tokyo temples and shrines", 0.9, []float32{1, 0, 0}),
		scored("b", "osaka street food", 0.7, []float32{0, 1, 0}),
		scored("c", "kyoto gardens", 0.6, []float32{0, 0, 1}),
		scored("d", "tokyo nightlife", 0.5, []float32{0.9, 0.1, 0}),
	}
	n := need.New([]string{"tokyo"}, nil, 3)
	first := Select(cands, n, 4, selection.DefaultOptions())
	for i := 0; i < 5; i++ {
		if got := Select(cands, n, 4, selection.DefaultOptions()); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: selection differs", i)
		}
	}
}

func TestCoverageGain(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		need need.Need
		want float64
	}{
		{"no need", "anything", need.New(nil, nil, 0), 0},
		{"city hit", "a trip to tokyo", need.New([]string{"tokyo"}, nil, 0), 0.5},      // 1.0 / (1+1)
		{"city miss", "a trip to osaka", need.New([]string{"tokyo"}, nil, 0), 0},
		{"season hit no city", "cold winter days", need.New(nil, []string{"winter"}, 0), 0.5},
		{"days flat bonus", "scheduling tips", need.New(nil, nil, 3), 0.5},
		{
			"capped at one",
			"tokyo osaka kyoto in winter",
			need.New([]string{"tokyo"}, []string{"winter"}, 3), // (1+0.5+0.5)/2 = 1.0
			1.0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := coverageGain(tc.doc, tc.need); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMaxCosine_ComplementsDiversity(t *testing.T) {
	v := []float32{0.6, 0.8}
	pool := [][]float32{{1, 0}, {0.6, 0.8}}
	red := maxCosine(v, pool)
	div := 1.0 - red
	if diff := red + div - 1.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("redundancy %v + diversity %v != 1", red, div)
	}
	if red < 0.999 {
		t.Errorf("identical vector in pool should give redundancy ~1, got %v", red)
	}
	if got := maxCosine(v, nil); got != 0 {
		t.Errorf("empty pool: got %v, want 0", got)
	}
}

func lowFloor() selection.Options {
	opts := selection.DefaultOptions()
	opts.KMin = 1
	return opts
}
