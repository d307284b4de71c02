// Package health aggregates readiness checks for the transport layer.
package health

import "context"

// Pinger checks store connectivity. The memory driver needs no check and
// passes a nil Pinger.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Service reports process health.
type Service struct {
	store      Pinger
	corpusSize func() int
}

// New creates the health service. corpusSize reports the loaded document
// count (0 is reported, not treated as unhealthy; an empty corpus is a
// degraded but valid state).
func New(store Pinger, corpusSize func() int) *Service {
	return &Service{store: store, corpusSize: corpusSize}
}

// Status is the health report.
type Status struct {
	Healthy    bool   `json:"healthy"`
	Store      string `json:"store"`
	CorpusSize int    `json:"corpus_size"`
}

// Check runs the readiness probes.
func (s *Service) Check(ctx context.Context) Status {
	st := Status{Healthy: true, Store: "ok"}
	if s.store != nil {
		if err := s.store.Ping(ctx); err != nil {
			st.Healthy = false
			st.Store = err.Error()
		}
	}
	if s.corpusSize != nil {
		st.CorpusSize = s.corpusSize()
	}
	return st
}
