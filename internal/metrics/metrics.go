// Package metrics defines the Prometheus instruments for scrapes and exports.
//
// All methods are safe to call on a nil *Metrics, so components can run
// without instrumentation in tests and one-shot CLI invocations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "afad"

// Scrape outcome labels.
const (
	OutcomeSuccess   = "success"
	OutcomeTransport = "transport_error"
	OutcomeStructure = "structure_error"
	OutcomeParse     = "parse_error"
	OutcomeOther     = "error"
)

// Metrics holds the Prometheus counters, histograms and gauges for the scraper.
type Metrics struct {
	Scrapes        *prometheus.CounterVec // labels: outcome
	ScrapeDuration prometheus.Histogram
	RecordsParsed  prometheus.Gauge
	Exports        *prometheus.CounterVec // labels: kind
}

// New creates all instruments and registers them with reg.
// serve passes its own registry; tests use a fresh one per case.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Scrapes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scrapes_total",
			Help:      "Scrape attempts by outcome.",
		}, []string{"outcome"}),
		ScrapeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scrape_duration_seconds",
			Help:      "Duration of a complete fetch-parse-sort cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RecordsParsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records_parsed",
			Help:      "Number of records in the last successful scrape.",
		}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Completed exports by kind.",
		}, []string{"kind"}),
	}

	reg.MustRegister(m.Scrapes, m.ScrapeDuration, m.RecordsParsed, m.Exports)
	return m
}

// ObserveScrape records one scrape attempt. records is ignored unless the
// outcome is OutcomeSuccess.
func (m *Metrics) ObserveScrape(outcome string, elapsed time.Duration, records int) {
	if m == nil {
		return
	}
	m.Scrapes.WithLabelValues(outcome).Inc()
	m.ScrapeDuration.Observe(elapsed.Seconds())
	if outcome == OutcomeSuccess {
		m.RecordsParsed.Set(float64(records))
	}
}

// IncExport counts a completed export of the given kind.
func (m *Metrics) IncExport(kind string) {
	if m == nil {
		return
	}
	m.Exports.WithLabelValues(kind).Inc()
}
