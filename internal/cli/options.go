package cli

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/pfrederiksen/afad-quakes/internal/export"
	"github.com/pfrederiksen/afad-quakes/internal/logger"
	"github.com/pfrederiksen/afad-quakes/internal/quake"
	"github.com/pfrederiksen/afad-quakes/internal/scraper"
)

const (
	DefaultAddr    = ":8080"
	DefaultRefresh = 5 * time.Minute
)

// Options collects every flag value of the CLI.
type Options struct {
	Config    string
	URL       string
	Lenient   bool
	LogLevel  string
	LogFormat string

	Format  string
	Verbose bool
	Exports []string
	Dir     string
	Name    string

	Addr    string
	Refresh time.Duration
}

// Validate checks flag values that cobra cannot check by type alone.
func (o *Options) Validate() error {
	format := OutputFormat(strings.ToLower(o.Format))
	if format != FormatText && format != FormatJSON {
		return &quake.ConfigError{
			Field:   "format",
			Value:   o.Format,
			Allowed: []string{string(FormatText), string(FormatJSON)},
		}
	}
	if _, err := o.ExportKinds(); err != nil {
		return err
	}
	if _, err := logger.ParseLevel(o.LogLevel); err != nil {
		return err
	}
	if o.Refresh < 0 {
		return &quake.ConfigError{Field: "refresh", Value: o.Refresh.String()}
	}
	return nil
}

// ExportKinds parses the --export values. Values may also be comma separated.
func (o *Options) ExportKinds() ([]export.Kind, error) {
	kinds := make([]export.Kind, 0, len(o.Exports))
	for _, raw := range o.Exports {
		for _, part := range strings.Split(raw, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			k, err := export.ParseKind(part)
			if err != nil {
				return nil, err
			}
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

// Strictness maps --lenient onto the scraper strictness level.
func (o *Options) Strictness() scraper.Strictness {
	if o.Lenient {
		return scraper.StrictnessLenient
	}
	return scraper.StrictnessStrict
}

// Logger builds the logger selected by --log-level and --log-format.
func (o *Options) Logger(w io.Writer) (*slog.Logger, error) {
	return logger.New(logger.Options{
		Level:  o.LogLevel,
		Format: logger.Format(strings.ToLower(o.LogFormat)),
		Output: w,
	})
}
