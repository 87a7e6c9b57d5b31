// internal/monitoring/metrics.go

// Package monitoring exposes Prometheus metrics and a health endpoint for
// long-running harvest deployments.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/valpere/StatHarvester/pkg/types"
)

// Metrics holds the Prometheus instruments for one harvester process. It
// implements the engine's MetricsRecorder.
type Metrics struct {
	sourcesTotal     *prometheus.CounterVec
	recordsExtracted prometheus.Counter
	sourceDuration   prometheus.Histogram
	runsTotal        prometheus.Counter
	runDuration      prometheus.Histogram
}

// NewMetrics registers the harvester metrics with the given registerer. Pass
// prometheus.DefaultRegisterer in production; tests use a private registry so
// parallel tests do not collide.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		sourcesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "statharvester",
				Name:      "sources_total",
				Help:      "Sources processed, labelled by outcome status",
			},
			[]string{"status"},
		),
		recordsExtracted: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "statharvester",
				Name:      "records_extracted_total",
				Help:      "Total records extracted across all sources",
			},
		),
		sourceDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "statharvester",
				Name:      "source_duration_seconds",
				Help:      "Time spent scraping one source end to end",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
		),
		runsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "statharvester",
				Name:      "runs_total",
				Help:      "Completed scraping runs",
			},
		),
		runDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "statharvester",
				Name:      "run_duration_seconds",
				Help:      "Whole-run duration",
				Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
			},
		),
	}
}

// ObserveSource records one source outcome.
func (m *Metrics) ObserveSource(status types.SourceStatus, records int, duration time.Duration) {
	m.sourcesTotal.WithLabelValues(string(status)).Inc()
	m.recordsExtracted.Add(float64(records))
	m.sourceDuration.Observe(duration.Seconds())
}

// ObserveRun records one completed run.
func (m *Metrics) ObserveRun(duration time.Duration) {
	m.runsTotal.Inc()
	m.runDuration.Observe(duration.Seconds())
}
