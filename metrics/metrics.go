// Package metrics exports search activity as Prometheus metrics.
// Monitor implements search.SearchMonitor and can be passed to
// search.WithMonitor.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/poiesic/sitesearch/ai"
	"github.com/poiesic/sitesearch/core"
	"github.com/poiesic/sitesearch/search"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sitesearch"

// Failure reasons reported by the semantic_failures_total metric.
const (
	ReasonTimeout   = "timeout"
	ReasonMalformed = "malformed"
	ReasonEmpty     = "empty"
	ReasonCanceled  = "canceled"
	ReasonError     = "error"
)

// Monitor records search metrics.
type Monitor struct {
	searches         *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	results          prometheus.Histogram
	snapshotItems    prometheus.Histogram
	sourceFailures   *prometheus.CounterVec
	semanticSkipped  *prometheus.CounterVec
	semanticFailures *prometheus.CounterVec
	semanticRanked   prometheus.Counter
	fallbacks        prometheus.Counter

	gatherer prometheus.Gatherer
}

var _ search.SearchMonitor = (*Monitor)(nil)

// New registers the search metrics with reg. Use a fresh prometheus.Registry
// per Monitor; registering twice with the same registry panics.
func New(reg *prometheus.Registry) *Monitor {
	factory := promauto.With(reg)
	m := &Monitor{gatherer: reg}

	m.searches = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "searches_total",
		Help:      "Total searches answered, by strategy (semantic, keyword, none)",
	}, []string{"strategy"})

	m.duration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_duration_seconds",
		Help:      "Time to answer a search, including snapshot build and ranking",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"strategy"})

	m.results = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_results",
		Help:      "Number of results returned per search",
		Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
	})

	m.snapshotItems = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "snapshot_items",
		Help:      "Number of catalog items in each snapshot",
		Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000},
	})

	m.sourceFailures = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_failures_total",
		Help:      "Content source fetches that failed or timed out",
	}, []string{"source"})

	m.semanticSkipped = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "semantic_skipped_total",
		Help:      "Searches that did not attempt semantic ranking",
	}, []string{"reason"})

	m.semanticFailures = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "semantic_failures_total",
		Help:      "Semantic ranking attempts that fell back to keyword scoring",
	}, []string{"reason"})

	m.semanticRanked = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "semantic_ranked_total",
		Help:      "Semantic ranking attempts that returned usable identifiers",
	})

	m.fallbacks = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "keyword_fallbacks_total",
		Help:      "Searches answered by keyword scoring",
	})

	return m
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (m *Monitor) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Monitor) Start(_ string, _ int) {}

func (m *Monitor) SnapshotBuilt(items int, failedSources []string) {
	m.snapshotItems.Observe(float64(items))
	for _, name := range failedSources {
		m.sourceFailures.WithLabelValues(name).Inc()
	}
}

func (m *Monitor) SemanticSkipped(reason string) {
	m.semanticSkipped.WithLabelValues(reason).Inc()
}

func (m *Monitor) SemanticFailed(err error) {
	m.semanticFailures.WithLabelValues(FailureReason(err)).Inc()
}

func (m *Monitor) SemanticRanked(_ []string) {
	m.semanticRanked.Inc()
}

func (m *Monitor) Fallback(_ []core.SearchResult) {
	m.fallbacks.Inc()
}

func (m *Monitor) Finish(strategy search.Strategy, results []core.SearchResult, elapsed time.Duration) {
	m.searches.WithLabelValues(string(strategy)).Inc()
	m.duration.WithLabelValues(string(strategy)).Observe(elapsed.Seconds())
	m.results.Observe(float64(len(results)))
}

// FailureReason maps a ranking error to a low-cardinality label value.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, search.ErrRankTimeout), errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, context.Canceled):
		return ReasonCanceled
	case errors.Is(err, ai.ErrMalformedResponse):
		return ReasonMalformed
	case errors.Is(err, ai.ErrNoRanking):
		return ReasonEmpty
	default:
		return ReasonError
	}
}
