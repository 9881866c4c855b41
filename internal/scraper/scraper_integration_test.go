package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/pfrederiksen/afad-quakes/internal/metrics"
	"github.com/pfrederiksen/afad-quakes/internal/quake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/last_earthquakes.html")
	require.NoError(t, err, "failed to load test fixture")
	return data
}

func newPageServer(t *testing.T, status int, body []byte) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Contains(t, r.Header.Get("User-Agent"), "afad-quakes")

		w.WriteHeader(status)
		w.Write(body) // nolint:errcheck
	}))
	t.Cleanup(server.Close)
	return server
}

func TestScrape_HTTP(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		statusCode  int
		strictness  Strictness
		wantErr     error
		wantRecords int
	}{
		{
			name: "successful fetch",
			body: `<table class="content-table"><tbody>
				<tr><td>17.03.2024 10:15:00</td><td>38.0</td><td>38.5</td><td>7.0</td><td>ML</td><td>2.1</td><td>Kale</td><td>A</td></tr>
			</tbody></table>`,
			statusCode:  http.StatusOK,
			wantRecords: 1,
		},
		{
			name:       "HTTP error in strict mode",
			body:       "not found",
			statusCode: http.StatusNotFound,
			wantErr:    quake.ErrTransport,
		},
		{
			name: "HTTP error body still parsed in lenient mode",
			body: `<table class="content-table"><tbody>
				<tr><td>17.03.2024 10:15:00</td><td>38.0</td><td>38.5</td><td>7.0</td><td>ML</td><td>2.1</td><td>Kale</td><td>A</td></tr>
			</tbody></table>`,
			statusCode:  http.StatusInternalServerError,
			strictness:  StrictnessLenient,
			wantRecords: 1,
		},
		{
			name:       "page without table",
			body:       `<html><body><p>Bakım çalışması</p></body></html>`,
			statusCode: http.StatusOK,
			wantErr:    quake.ErrStructure,
		},
		{
			name:        "empty table",
			body:        `<table class="content-table"><tbody></tbody></table>`,
			statusCode:  http.StatusOK,
			wantRecords: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newPageServer(t, tt.statusCode, []byte(tt.body))
			s := New(WithURL(server.URL), WithStrictness(tt.strictness))

			records, err := s.Scrape(context.Background())

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "error %v should be %v", err, tt.wantErr)
				assert.Nil(t, records)
				assert.Equal(t, StateUnscraped, s.State())
				return
			}

			require.NoError(t, err)
			assert.Len(t, records, tt.wantRecords)
			assert.Equal(t, StateScraped, s.State())
		})
	}
}

func TestScrape_TransportErrorCarriesStatusAndURL(t *testing.T) {
	server := newPageServer(t, http.StatusServiceUnavailable, nil)
	s := New(WithURL(server.URL))

	_, err := s.Scrape(context.Background())

	var terr *quake.TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, http.StatusServiceUnavailable, terr.StatusCode)
	assert.Equal(t, server.URL, terr.URL)
}

func TestScrape_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	s := New(WithURL(url))
	_, err := s.Scrape(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, quake.ErrTransport))
}

func TestScrape_Fixture(t *testing.T) {
	server := newPageServer(t, http.StatusOK, loadFixture(t))
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	s := New(WithURL(server.URL), WithMetrics(m))
	records, err := s.Scrape(context.Background())
	require.NoError(t, err)

	table, err := LocateTable(strings.NewReader(string(loadFixture(t))), TableSelector)
	require.NoError(t, err)
	assert.Len(t, records, len(table.Rows))

	n, err := s.Len()
	require.NoError(t, err)
	assert.Equal(t, len(table.Rows), n)

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"615004", "615005", "615003", "615002", "615001", "614999"}, ids)

	seen := make(map[string]bool)
	for i, r := range records {
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true

		assert.Equal(t, quake.JoinDateTime(r.Date, r.Time), r.DateTime)
		if i > 0 {
			assert.GreaterOrEqual(t, records[i-1].DateTime, r.DateTime)
		}
	}

	first := records[0]
	assert.Equal(t, "2024-03-17T10:15:00", first.DateTime)
	assert.Equal(t, "Nurdağı (Gaziantep)", first.Region)
	assert.Equal(t, "10.31", first.Depth)

	assert.Equal(t, "Gemlik Körfezi & Mudanya (Bursa)", records[3].Region)
	assert.Equal(t, "2024-03-16T23:41:07", records[2].DateTime)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Scrapes.WithLabelValues(metrics.OutcomeSuccess)))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.RecordsParsed))
}
