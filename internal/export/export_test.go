package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pfrederiksen/afad-quakes/internal/metrics"
	"github.com/pfrederiksen/afad-quakes/internal/quake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 17, 10, 15, 0, 123456000, time.UTC)

func sampleRecords() []quake.Record {
	return []quake.Record{
		{
			ID: "615004", DateTime: "2024-03-17T10:15:00", Date: "2024-03-17", Time: "10:15:00",
			Latitude: "37.2260", Longitude: "36.9371", Depth: "10.31", Type: "ML", Magnitude: "3.4",
			Region: "Nurdağı (Gaziantep)",
		},
		{
			ID: "615002", DateTime: "2024-03-16T12:30:45", Date: "2024-03-16", Time: "12:30:45",
			Latitude: "40.4419", Longitude: "29.0812", Depth: "8.12", Type: "ML", Magnitude: "2.6",
			Region: `Gemlik Körfezi & "Mudanya", Bursa`,
		},
	}
}

func newTestExporter(m *metrics.Metrics) *Exporter {
	return New(WithClock(clockwork.NewFakeClockAt(fixedNow)), WithMetrics(m))
}

func TestJSONString(t *testing.T) {
	s, err := JSONString(sampleRecords())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(s, `[{"id":"615004","datetime":"2024-03-17T10:15:00"`))
	assert.Contains(t, s, "Nurdağı (Gaziantep)", "non-ASCII must not be escaped")
	assert.Contains(t, s, `Gemlik Körfezi & \"Mudanya\", Bursa`, "& must not be HTML-escaped")
	assert.False(t, strings.HasSuffix(s, "\n"))
}

func TestJSONString_Empty(t *testing.T) {
	for name, in := range map[string][]quake.Record{"nil": nil, "empty": {}} {
		t.Run(name, func(t *testing.T) {
			s, err := JSONString(in)
			require.NoError(t, err)
			assert.Equal(t, "[]", s)
		})
	}
}

func TestJSONString_RoundTrip(t *testing.T) {
	in := sampleRecords()
	s, err := JSONString(in)
	require.NoError(t, err)

	var out []quake.Record
	require.NoError(t, json.Unmarshal([]byte(s), &out))
	assert.Equal(t, in, out)

	var objects []map[string]string
	require.NoError(t, json.Unmarshal([]byte(s), &objects))
	for _, obj := range objects {
		assert.Len(t, obj, len(quake.FieldNames()))
		for _, name := range quake.FieldNames() {
			assert.Contains(t, obj, name)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "export_examples", "json")
	m := metrics.New(prometheus.NewRegistry())
	e := newTestExporter(m)

	path, err := e.WriteJSON(sampleRecords(), Target{Dir: dir, Name: "afad-earthquakes"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "afad-earthquakes.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out []quake.Record
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, sampleRecords(), out)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Exports.WithLabelValues(string(KindJSONFile))))
}

func TestWriteJSON_Empty(t *testing.T) {
	e := newTestExporter(nil)

	path, err := e.WriteJSON(nil, Target{Dir: t.TempDir(), Name: "empty.json"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(data)))
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	m := metrics.New(prometheus.NewRegistry())
	e := newTestExporter(m)

	path, err := e.WriteCSV(sampleRecords(), Target{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "afad-earthquakes-export-2024-03-17T10:15:00.123456.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close() // nolint:errcheck

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, quake.FieldNames(), rows[0])
	assert.Equal(t, sampleRecords()[0].Values(), rows[1])
	assert.Equal(t, sampleRecords()[1].Values(), rows[2])
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Exports.WithLabelValues(string(KindCSV))))
}

func TestWriteCSV_Empty(t *testing.T) {
	dir := t.TempDir()
	e := newTestExporter(nil)

	path, err := e.WriteCSV(nil, Target{Dir: dir, Name: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, quake.ErrEmptyResult))
	assert.Empty(t, path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no file should be created")
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	m := metrics.New(prometheus.NewRegistry())
	e := newTestExporter(m)

	s, err := e.Export(KindJSONString, sampleRecords(), Target{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s, "["))

	path, err := e.Export(KindJSONFile, sampleRecords(), Target{Dir: dir, Name: "out"})
	require.NoError(t, err)
	assert.FileExists(t, path)

	path, err = e.Export(KindCSV, sampleRecords(), Target{Dir: dir, Name: "out"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out.csv"), path)

	_, err = e.Export(Kind("xml"), sampleRecords(), Target{Dir: dir})
	assert.True(t, errors.Is(err, quake.ErrConfig))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Exports.WithLabelValues(string(KindJSONString))))
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "json", want: KindJSONFile},
		{in: "JSON", want: KindJSONFile},
		{in: " csv ", want: KindCSV},
		{in: "json-string", want: KindJSONString},
		{in: "xml", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, quake.ErrConfig))

				var cerr *quake.ConfigError
				require.True(t, errors.As(err, &cerr))
				assert.Equal(t, tt.in, cerr.Value)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
