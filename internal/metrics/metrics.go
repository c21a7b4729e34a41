// Package metrics instruments proof runs with Prometheus collectors. Runs are
// short-lived, so the usual way out is a text file for the node exporter's
// textfile collector rather than a scrape endpoint.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "inkverify"

// Outcome labels for RunsTotal.
const (
	OutcomeOK       = "ok"
	OutcomeMismatch = "mismatch"
	OutcomeError    = "error"
)

// Metrics holds the collectors for proof runs.
type Metrics struct {
	RunsTotal   *prometheus.CounterVec
	StepsTotal  prometheus.Counter
	CellsTotal  prometheus.Counter
	RunDuration prometheus.Histogram
	Population  prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New registers a fresh set of collectors on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Proof runs by outcome.",
		}, []string{"outcome"}),
		StepsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Generations simulated across all runs.",
		}),
		CellsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cell_updates_total",
			Help:      "Cell evaluations performed across all runs.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of completed runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}),
		Population: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "population",
			Help:      "Live cells in the final grid of the last run.",
		}),
		gatherer: reg,
	}
	reg.MustRegister(m.RunsTotal, m.StepsTotal, m.CellsTotal, m.RunDuration, m.Population)
	return m
}

// ObserveStep records one generation over a grid of cells cells.
func (m *Metrics) ObserveStep(cells int) {
	m.StepsTotal.Inc()
	m.CellsTotal.Add(float64(cells))
}

// ObservePopulation records the live cell count of a final grid.
func (m *Metrics) ObservePopulation(n int) {
	m.Population.Set(float64(n))
}

// ObserveRun records a finished run.
func (m *Metrics) ObserveRun(outcome string, elapsed time.Duration) {
	m.RunsTotal.WithLabelValues(outcome).Inc()
	if outcome != OutcomeError {
		m.RunDuration.Observe(elapsed.Seconds())
	}
}

// Gatherer exposes the registry, for tests and custom exporters.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.gatherer }

// WriteFile writes all metrics to path in the text exposition format. The
// file is replaced atomically.
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.gatherer); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
