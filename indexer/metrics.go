package indexer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the index collectors. A nil *Metrics records nothing.
type Metrics struct {
	aggregations prometheus.Counter
	queries      *prometheus.CounterVec
	visited      *prometheus.HistogramVec
	comparisons  prometheus.Counter
	prunes       *prometheus.CounterVec
	retained     prometheus.Histogram
	splitTime    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// reg may be nil to skip registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		aggregations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ballindex_aggregations_total",
			Help: "Branch balls computed and cached",
		}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ballindex_queries_total",
			Help: "Spatial queries by kind",
		}, []string{"kind"}),
		visited: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ballindex_query_nodes_visited",
			Help:    "Nodes visited per spatial query",
			Buckets: prometheus.ExponentialBuckets(1, 2, 16),
		}, []string{"kind"}),
		comparisons: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ballindex_comparisons_total",
			Help: "Preference comparisons accumulated",
		}),
		prunes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ballindex_prunes_total",
			Help: "Derived trees by prune kind",
		}, []string{"kind"}),
		retained: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ballindex_prune_retained_ratio",
			Help:    "Fraction of leaf weight kept by a prune",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		splitTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ballindex_split_duration_seconds",
			Help:    "SplitIndex latency",
			Buckets: prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.aggregations, m.queries, m.visited, m.comparisons, m.prunes, m.retained, m.splitTime)
	}
	return m
}

func (m *Metrics) aggregated() {
	if m != nil {
		m.aggregations.Inc()
	}
}

func (m *Metrics) query(kind string, visited int) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(kind).Inc()
	m.visited.WithLabelValues(kind).Observe(float64(visited))
}

func (m *Metrics) compared() {
	if m != nil {
		m.comparisons.Inc()
	}
}

func (m *Metrics) pruned(kind string, before, after int) {
	if m == nil {
		return
	}
	m.prunes.WithLabelValues(kind).Inc()
	if before > 0 {
		m.retained.Observe(float64(after) / float64(before))
	}
}

func (m *Metrics) split(start time.Time) {
	if m != nil {
		m.splitTime.Observe(time.Since(start).Seconds())
	}
}
