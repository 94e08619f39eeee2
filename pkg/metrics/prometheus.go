package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Tick outcomes
const (
	OutcomeStored  = "stored"
	OutcomeExpired = "expired"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	TicksTotal      *prometheus.CounterVec
	TickDuration    prometheus.Histogram
	LookupsTotal    *prometheus.CounterVec
	FlightsCreated  prometheus.Counter
	UpsertConflicts prometheus.Counter
	ErrorsCount     *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics registered on reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TicksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "The total number of tracking job ticks by outcome",
		}, []string{"outcome"}),
		TickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Time taken by a tracking job tick",
			Buckets:   prometheus.DefBuckets,
		}),
		LookupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "The total number of price lookups by operation and result",
		}, []string{"operation", "result"}),
		FlightsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flights_created_total",
			Help:      "The total number of flights discovered by tracking jobs",
		}),
		UpsertConflicts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upsert_conflicts_total",
			Help:      "The total number of concurrent flight inserts resolved by retry",
		}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
