package metrics

import "github.com/prometheus/client_golang/prometheus"

// Selection and embedding Prometheus metrics.
var (
	SelectionDocsSelected = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "tripdex",
			Name:      "selection_docs_selected",
			Help:      "Documents selected per context-selection run",
			Buckets:   []float64{0, 1, 2, 3, 4, 6, 8, 12, 16, 20},
		},
	)

	SelectionRelaxSteps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tripdex",
			Name:      "selection_relax_steps_total",
			Help:      "Relaxation strategy that produced candidates",
		},
		[]string{"strategy"},
	)

	SelectionStoreErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tripdex",
			Name:      "selection_store_errors_total",
			Help:      "Store searches degraded to zero candidates",
		},
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tripdex",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tripdex",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tripdex",
			Name:      "generation_requests_total",
			Help:      "Total number of itinerary generation requests",
		},
		[]string{"model", "status"},
	)
)

// RegisterEngineMetrics registers selection/embedding/generation metrics
// explicitly (no init()), so tests can import this package without
// polluting the default registry twice.
func RegisterEngineMetrics() {
	prometheus.MustRegister(
		SelectionDocsSelected,
		SelectionRelaxSteps,
		SelectionStoreErrors,
		EmbeddingRequestsTotal,
		EmbeddingRequestDuration,
		GenerationRequestsTotal,
	)
}
