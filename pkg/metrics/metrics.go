// Package metrics provides Prometheus metrics for censuskit.
//
// The package registers counters and histograms for the two pipelines:
// dictionary fetching/parsing and table mapping. All metrics are
// registered automatically via promauto and are safe for concurrent use.
//
// Example:
//
//	timer := metrics.NewTimer()
//	mapped := mapper.Apply(tbl)
//	metrics.MappingLatency.WithLabelValues(name).Observe(timer.Stop().Seconds())
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DictionaryFetches counts dictionary document fetches by result.
	DictionaryFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "censuskit_dictionary_fetches_total",
			Help: "Total number of data dictionary fetches",
		},
		[]string{"result"},
	)

	// TableFetches counts Census Data API table fetches by result.
	TableFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "censuskit_table_fetches_total",
			Help: "Total number of Census Data API table fetches",
		},
		[]string{"result"},
	)

	// FetchLatency tracks remote fetch latency by document kind.
	FetchLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "censuskit_fetch_latency_seconds",
			Help:    "Latency of remote fetches",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// VariablesMapped counts columns that received a non-empty mapping.
	VariablesMapped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "censuskit_variables_mapped_total",
			Help: "Total number of columns replaced with dictionary labels",
		},
	)

	// CellsReplaced counts individual cell values replaced during mapping.
	CellsReplaced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "censuskit_cells_replaced_total",
			Help: "Total number of cell values replaced with labels",
		},
	)

	// MappingLatency tracks per-table mapping latency.
	MappingLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "censuskit_mapping_latency_seconds",
			Help:    "Latency of per-table variable mapping",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"table"},
	)
)

// Timer measures elapsed time for latency histograms.
type Timer struct {
	start time.Time
}

// NewTimer starts a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop returns the elapsed time since the timer started.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
