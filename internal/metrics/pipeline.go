package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every collector of this service.
const Namespace = "productsearch"

// Indexing pipeline and query metrics.
var (
	// EventsTotal counts change events by outcome: indexed, malformed, write_failed.
	EventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "events_total",
			Help:      "Change events handled, by result",
		},
		[]string{"result"},
	)

	IndexWriteDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "index_write_duration_seconds",
			Help:      "Document upsert latency against the index store",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
	)

	// ConsumerState is 1 for the consumer's current state and 0 for the others.
	ConsumerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "consumer_state",
			Help:      "Current per-record state of the event consumer",
		},
		[]string{"state"},
	)

	ConsumerLastOffset = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "consumer_last_offset",
			Help:      "Offset of the last record read, by partition",
		},
		[]string{"topic", "partition"},
	)

	// SearchQueriesTotal counts queries by outcome: ok, bad_query, unavailable, error.
	SearchQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_queries_total",
			Help:      "Search queries executed, by result",
		},
		[]string{"result"},
	)

	SearchResultsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_results_returned",
			Help:      "Documents returned per search",
			Buckets:   []float64{0, 1, 5, 10, 50, 100, 250, 500, 1000},
		},
	)

	pipelineOnce sync.Once
	searchOnce   sync.Once
)

// RegisterPipelineMetrics registers the indexing collectors. Safe to call repeatedly.
func RegisterPipelineMetrics() {
	pipelineOnce.Do(func() {
		prometheus.MustRegister(EventsTotal, IndexWriteDuration, ConsumerState, ConsumerLastOffset)
	})
}

// RegisterSearchMetrics registers the query collectors. Safe to call repeatedly.
func RegisterSearchMetrics() {
	searchOnce.Do(func() {
		prometheus.MustRegister(SearchQueriesTotal, SearchResultsReturned)
	})
}
