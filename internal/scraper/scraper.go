package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pfrederiksen/afad-quakes/internal/metrics"
	"github.com/pfrederiksen/afad-quakes/internal/quake"
)

const (
	LastEarthquakesURL = "https://deprem.afad.gov.tr/last-earthquakes.html"
	UserAgent          = "afad-quakes/1.0 (github.com/pfrederiksen/afad-quakes)"
	Timeout            = 30 * time.Second
)

// Strictness controls how much of the page contract is enforced.
type Strictness int

const (
	// StrictnessStrict rejects non-2xx responses and tables whose header does
	// not carry every expected label.
	StrictnessStrict Strictness = iota
	// StrictnessLenient parses whatever body the server returns and falls back
	// to positional columns when the header cannot be mapped. Row parse errors
	// still abort the scrape.
	StrictnessLenient
)

func (s Strictness) String() string {
	if s == StrictnessLenient {
		return "lenient"
	}
	return "strict"
}

// State tells whether a Scraper holds a result.
type State int

const (
	StateUnscraped State = iota
	StateScraped
)

func (s State) String() string {
	if s == StateScraped {
		return "scraped"
	}
	return "unscraped"
}

// Scraper handles fetching and parsing the AFAD last-earthquakes table.
// It is not safe for concurrent use; run independent scrapes on separate instances.
type Scraper struct {
	url        string
	selector   string
	fetcher    Fetcher
	strictness Strictness
	logger     *slog.Logger
	metrics    *metrics.Metrics
	clock      clockwork.Clock

	state     State
	records   []quake.Record
	scrapedAt time.Time
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithURL overrides the page URL. An empty url keeps the default.
func WithURL(url string) Option {
	return func(s *Scraper) {
		if url != "" {
			s.url = url
		}
	}
}

// WithTableSelector overrides the CSS selector of the data table.
func WithTableSelector(selector string) Option {
	return func(s *Scraper) {
		if selector != "" {
			s.selector = selector
		}
	}
}

// WithFetcher replaces the HTTP fetcher.
func WithFetcher(f Fetcher) Option {
	return func(s *Scraper) { s.fetcher = f }
}

// WithStrictness sets the strictness level.
func WithStrictness(level Strictness) Option {
	return func(s *Scraper) { s.strictness = level }
}

// WithLogger sets the logger. A nil logger keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Scraper) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics attaches Prometheus instruments.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scraper) { s.metrics = m }
}

// WithClock sets the time source used for durations and ScrapedAt.
func WithClock(c clockwork.Clock) Option {
	return func(s *Scraper) {
		if c != nil {
			s.clock = c
		}
	}
}

// New creates a new Scraper instance in the unscraped state.
func New(opts ...Option) *Scraper {
	s := &Scraper{
		url:      LastEarthquakesURL,
		selector: TableSelector,
		logger:   slog.Default(),
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fetcher == nil {
		s.fetcher = NewHTTPFetcher(nil, s.strictness == StrictnessStrict)
	}
	return s
}

// URL returns the page the scraper reads.
func (s *Scraper) URL() string { return s.url }

// State reports whether a scrape has completed.
func (s *Scraper) State() State { return s.state }

// ScrapedAt returns when the current result was produced, or the zero time.
func (s *Scraper) ScrapedAt() time.Time { return s.scrapedAt }

// Scrape fetches the page, normalizes every table row and orders the records
// most recent first. On success the result replaces whatever the scraper held
// before; on failure the previous state is kept and no records are returned.
func (s *Scraper) Scrape(ctx context.Context) ([]quake.Record, error) {
	log := s.logger.With("scrape_id", uuid.NewString())
	start := s.clock.Now()
	log.Debug("scrape started", "url", s.url, "strictness", s.strictness.String())

	records, err := s.scrape(ctx, log)
	elapsed := s.clock.Since(start)
	if err != nil {
		s.metrics.ObserveScrape(outcome(err), elapsed, 0)
		log.Error("scrape failed", "url", s.url, "duration", elapsed, "error", err)
		return nil, err
	}

	s.state = StateScraped
	s.records = records
	s.scrapedAt = s.clock.Now()

	s.metrics.ObserveScrape(metrics.OutcomeSuccess, elapsed, len(records))
	log.Info("scrape completed", "url", s.url, "records", len(records), "duration", elapsed)

	return s.copyRecords(), nil
}

func (s *Scraper) scrape(ctx context.Context, log *slog.Logger) ([]quake.Record, error) {
	body, err := s.fetcher.Fetch(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}

	table, err := LocateTable(bytes.NewReader(body), s.selector)
	if err != nil {
		return nil, err
	}
	log.Debug("table located", "rows", len(table.Rows), "header", table.Header)

	cols, err := s.columns(table.Header, log)
	if err != nil {
		return nil, err
	}

	records, err := quake.NormalizeAll(table.Rows, cols)
	if err != nil {
		return nil, fmt.Errorf("normalizing rows: %w", err)
	}

	quake.SortByTime(records)
	return records, nil
}

// columns picks the column mapping for a table header.
func (s *Scraper) columns(header []string, log *slog.Logger) (quake.Columns, error) {
	cols, err := quake.ResolveColumns(header)
	if err == nil {
		return cols, nil
	}
	if s.strictness == StrictnessStrict {
		return cols, err
	}
	log.Warn("header not recognized, using positional columns", "header", header, "error", err)
	return quake.DefaultColumns, nil
}

// Results returns the records of the last successful scrape, or
// quake.ErrNotScraped if there is none yet.
func (s *Scraper) Results() ([]quake.Record, error) {
	if s.state != StateScraped {
		return nil, quake.ErrNotScraped
	}
	return s.copyRecords(), nil
}

// Len returns the number of records held, with the same error rule as Results.
func (s *Scraper) Len() (int, error) {
	if s.state != StateScraped {
		return 0, quake.ErrNotScraped
	}
	return len(s.records), nil
}

func (s *Scraper) copyRecords() []quake.Record {
	out := make([]quake.Record, len(s.records))
	copy(out, s.records)
	return out
}

func outcome(err error) string {
	switch {
	case errors.Is(err, quake.ErrTransport):
		return metrics.OutcomeTransport
	case errors.Is(err, quake.ErrStructure):
		return metrics.OutcomeStructure
	case errors.Is(err, quake.ErrParse):
		return metrics.OutcomeParse
	default:
		return metrics.OutcomeOther
	}
}
