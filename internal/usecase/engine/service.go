// Package engine orchestrates one context-selection run: need extraction,
// query embedding, relaxed retrieval, reranking, the density bound, and the
// dynamic selector. The engine is synchronous; independent runs are safe to
// execute concurrently because all per-request state is local.
package engine

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kaiyu-cloud/tripdex/internal/domain"
	"github.com/kaiyu-cloud/tripdex/internal/domain/filter"
	"github.com/kaiyu-cloud/tripdex/internal/domain/need"
	"github.com/kaiyu-cloud/tripdex/internal/domain/selection"
	"github.com/kaiyu-cloud/tripdex/internal/domain/trip"
	"github.com/kaiyu-cloud/tripdex/internal/logger"
	"github.com/kaiyu-cloud/tripdex/internal/metrics"
	"github.com/kaiyu-cloud/tripdex/internal/store"
	"github.com/kaiyu-cloud/tripdex/internal/usecase/bound"
	"github.com/kaiyu-cloud/tripdex/internal/usecase/rerank"
	"github.com/kaiyu-cloud/tripdex/internal/usecase/selector"
)

// DefaultStoreTimeout bounds the external store call. A timeout degrades to
// "zero candidates found", never to a failed request.
const DefaultStoreTimeout = 3 * time.Second

// Service runs context selection.
type Service struct {
	store        Store
	embedder     domain.Embedder
	extractor    Extractor
	reranker     Reranker
	opts         selection.Options
	storeTimeout time.Duration
}

// New creates the selection engine.
func New(st Store, embedder domain.Embedder, extractor Extractor, reranker Reranker, opts selection.Options) *Service {
	return &Service{
		store:        st,
		embedder:     embedder,
		extractor:    extractor,
		reranker:     reranker,
		opts:         opts,
		storeTimeout: DefaultStoreTimeout,
	}
}

// WithStoreTimeout overrides the external store timeout.
func (s *Service) WithStoreTimeout(d time.Duration) *Service {
	if d > 0 {
		s.storeTimeout = d
	}
	return s
}

// SelectContext chooses the reference documents for one request. Explicit
// trip parameters take precedence over whatever the extractor parses from
// free text. Degraded dependencies (store, embedder) shrink the result to
// empty rather than failing: itinerary generation must still be attempted
// without RAG context.
func (s *Service) SelectContext(ctx context.Context, query string, params trip.Params) (Result, error) {
	log := logger.FromContext(ctx)

	n := s.extractor.Extract(query)
	n = n.Merge(params.Cities(), params.Months(), params.Days())

	res := Result{Need: n}

	qres, err := s.embedder.Embed(ctx, query)
	if err != nil {
		log.Warn("query embedding failed, selecting without context", zap.Error(err))
		return res, nil
	}

	candidates, matchCount, strategy := s.retrieve(ctx, qres.Embedding, n, params)
	res.Strategy = strategy
	res.KUpper = bound.UpperBound(n, matchCount, s.opts.BaseK, s.opts.MaxK)

	if len(candidates) == 0 {
		metrics.SelectionDocsSelected.Observe(0)
		return res, nil
	}

	reranked, err := s.reranker.Rerank(ctx, query, candidates)
	if err != nil {
		// Fall back to store order: raw similarity stands in for relevance.
		log.Warn("rerank failed, falling back to store order", zap.Error(err))
		reranked = make([]rerank.Scored, len(candidates))
		for i, c := range candidates {
			reranked[i] = rerank.Scored{Document: c.Document, Relevance: c.Similarity}
		}
	}

	res.Selected = selector.Select(reranked, n, res.KUpper, s.opts)
	res.Chunks = selection.Chunks(res.Selected)

	metrics.SelectionDocsSelected.Observe(float64(len(res.Selected)))
	log.Debug("context selected",
		zap.Int("candidates", len(candidates)),
		zap.Int("k_upper", res.KUpper),
		zap.Int("selected", len(res.Selected)),
		zap.String("strategy", strategy),
	)
	return res, nil
}

// retrieve walks the relaxation ladder until a step yields candidates. The
// match count is taken for the filter that produced them so the density
// bound reflects the slice actually searched.
func (s *Service) retrieve(
	ctx context.Context, vector []float32, n need.Need, params trip.Params,
) ([]store.Candidate, int, string) {
	log := logger.FromContext(ctx)
	base := s.baseFilter(n, params)

	for _, step := range relaxPlan(base) {
		callCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		candidates, err := s.store.Search(callCtx, vector, s.opts.OverFetch, step.Filter)
		cancel()
		if err != nil {
			// Store unavailable: no candidates, not a hard failure.
			metrics.SelectionStoreErrors.Inc()
			log.Warn("store search failed", zap.String("strategy", step.Name), zap.Error(err))
			return nil, 0, ""
		}
		if len(candidates) == 0 {
			continue
		}

		metrics.SelectionRelaxSteps.WithLabelValues(step.Name).Inc()

		countCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		matchCount, err := s.store.Count(countCtx, step.Filter)
		cancel()
		if err != nil {
			matchCount = 0 // density term degrades to zero
		}
		return candidates, matchCount, step.Name
	}
	return nil, 0, ""
}

// baseFilter builds the strictest filter the ladder starts from. Filter
// months come from explicit dates when present, otherwise from extracted
// season tokens that are calendar month names (a bare "winter" scores
// coverage but cannot filter a month column).
func (s *Service) baseFilter(n need.Need, params trip.Params) filter.Filter {
	months := params.Months()
	if len(months) == 0 {
		months = monthTokens(n.Seasons())
	}

	minDays, maxDays := 0, 0
	if n.HasDays() {
		w := dayWindowWidth(n.Days())
		minDays = n.Days() - w
		if minDays < 1 {
			minDays = 1
		}
		maxDays = n.Days() + w
	}

	f, err := filter.New(n.Cities(), months, minDays, maxDays)
	if err != nil {
		// Window math above keeps bounds valid; fall back to unfiltered.
		return filter.Filter{}
	}
	return f
}

var monthNames = map[string]struct{}{
	"january": {}, "february": {}, "march": {}, "april": {}, "may": {},
	"june": {}, "july": {}, "august": {}, "september": {}, "october": {},
	"november": {}, "december": {},
}

func monthTokens(seasons []string) []string {
	var months []string
	for _, t := range seasons {
		if _, ok := monthNames[strings.ToLower(t)]; ok {
			months = append(months, strings.ToLower(t))
		}
	}
	return months
}
