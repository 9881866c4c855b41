package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/jonboulle/clockwork"
	"github.com/pfrederiksen/afad-quakes/internal/metrics"
	"github.com/pfrederiksen/afad-quakes/internal/quake"
)

// Kind selects an export format.
type Kind string

const (
	KindJSONFile   Kind = "json"
	KindJSONString Kind = "json-string"
	KindCSV        Kind = "csv"
)

// Kinds lists every supported export kind.
func Kinds() []Kind {
	return []Kind{KindJSONFile, KindJSONString, KindCSV}
}

// ParseKind validates an export selector.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}

	return "", unknownKind(s)
}

func unknownKind(s string) error {
	allowed := make([]string, 0, len(Kinds()))
	for _, known := range Kinds() {
		allowed = append(allowed, string(known))
	}
	return &quake.ConfigError{Field: "export type", Value: s, Allowed: allowed}
}

// Exporter writes record slices to strings and files.
type Exporter struct {
	prefix  string
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithPrefix overrides the generated file name prefix.
func WithPrefix(prefix string) Option {
	return func(e *Exporter) {
		if prefix != "" {
			e.prefix = prefix
		}
	}
}

// WithClock sets the time source for generated file names.
func WithClock(c clockwork.Clock) Option {
	return func(e *Exporter) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithLogger sets the logger. A nil logger keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics attaches Prometheus instruments.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Exporter) { e.metrics = m }
}

// New creates an Exporter.
func New(opts ...Option) *Exporter {
	e := &Exporter{
		prefix: DefaultPrefix,
		clock:  clockwork.NewRealClock(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// JSONString renders records as a JSON array. Non-ASCII text and HTML
// characters are written as is. An empty or nil slice yields "[]".
func JSONString(records []quake.Record) (string, error) {
	data, err := encodeJSON(records)
	if err != nil {
		return "", err
	}
	return string(bytes.TrimSuffix(data, []byte("\n"))), nil
}

func encodeJSON(records []quake.Record) ([]byte, error) {
	if records == nil {
		records = []quake.Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encoding JSON: %w", err)
	}
	return buf.Bytes(), nil
}

// Export runs the export selected by kind. For KindJSONString it returns the JSON
// text and ignores target; for file kinds it returns the written path.
func (e *Exporter) Export(kind Kind, records []quake.Record, target Target) (string, error) {
	switch kind {
	case KindJSONString:
		s, err := JSONString(records)
		if err != nil {
			return "", err
		}
		e.metrics.IncExport(string(kind))
		return s, nil
	case KindJSONFile:
		return e.WriteJSON(records, target)
	case KindCSV:
		return e.WriteCSV(records, target)
	default:
		return "", unknownKind(string(kind))
	}
}

// WriteJSON writes records as a JSON array and returns the file path.
// An empty slice is written as "[]".
func (e *Exporter) WriteJSON(records []quake.Record, target Target) (string, error) {
	path, err := resolvePath(target, e.prefix, "json", e.clock.Now())
	if err != nil {
		return "", err
	}

	data, err := encodeJSON(records)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing JSON export: %w", err)
	}

	e.metrics.IncExport(string(KindJSONFile))
	e.logger.Info("exported", "format", "json", "path", path, "records", len(records))
	return path, nil
}

// WriteCSV writes a header row taken from the record field names followed by one
// row per record, and returns the file path. An empty slice has no header to
// derive and fails with quake.ErrEmptyResult.
func (e *Exporter) WriteCSV(records []quake.Record, target Target) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("exporting CSV: %w", quake.ErrEmptyResult)
	}

	path, err := resolvePath(target, e.prefix, "csv", e.clock.Now())
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := gocsv.Marshal(records, &buf); err != nil {
		return "", fmt.Errorf("encoding CSV: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("writing CSV export: %w", err)
	}

	e.metrics.IncExport(string(KindCSV))
	e.logger.Info("exported", "format", "csv", "path", path, "records", len(records))
	return path, nil
}
