package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveScrape(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveScrape(OutcomeSuccess, 200*time.Millisecond, 100)
	m.ObserveScrape(OutcomeParse, 50*time.Millisecond, 3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Scrapes.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Scrapes.WithLabelValues(OutcomeParse)))
	assert.Equal(t, 100.0, testutil.ToFloat64(m.RecordsParsed), "failed scrape must not change the gauge")
}

func TestIncExport(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncExport("csv")
	m.IncExport("csv")
	m.IncExport("json")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Exports.WithLabelValues("csv")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Exports.WithLabelValues("json")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveScrape(OutcomeSuccess, time.Second, 1)
		m.IncExport("csv")
	})
}

func TestNew_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveScrape(OutcomeSuccess, time.Second, 5)
	m.IncExport("json")

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"afad_scrapes_total",
		"afad_scrape_duration_seconds",
		"afad_records_parsed",
		"afad_exports_total",
	}, names)
}
