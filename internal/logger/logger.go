// Package logger builds the structured slog logger used across afad-quakes.
//
// Two output formats are supported: a colorized console format (tint) for humans
// at a terminal, and one JSON object per line for everything else. The "auto"
// format picks between them by checking whether the output is a terminal.
//
// Example usage:
//
//	log, err := logger.New(logger.Options{Level: "debug", Format: "auto", Output: os.Stderr})
//	if err != nil {
//	    return err
//	}
//	log.Info("scrape completed", "records", 100)
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/pfrederiksen/afad-quakes/internal/quake"
	"golang.org/x/term"
)

// Format selects the log output encoding.
type Format string

const (
	FormatAuto Format = "auto"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Options configures New.
type Options struct {
	Level  string    // debug, info, warn or error; empty means info
	Format Format    // auto, text or json; empty means auto
	Output io.Writer // defaults to os.Stderr
}

// ParseLevel converts a level name into a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, &quake.ConfigError{
			Field:   "log level",
			Value:   s,
			Allowed: []string{"debug", "info", "warn", "error"},
		}
	}
}

// New creates a logger from opts.
func New(opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	format := opts.Format
	if format == "" {
		format = FormatAuto
	}

	switch format {
	case FormatAuto:
		if isTerminal(out) {
			return slog.New(textHandler(out, level)), nil
		}
		return slog.New(jsonHandler(out, level)), nil
	case FormatText:
		return slog.New(textHandler(out, level)), nil
	case FormatJSON:
		return slog.New(jsonHandler(out, level)), nil
	default:
		return nil, &quake.ConfigError{
			Field:   "log format",
			Value:   string(format),
			Allowed: []string{string(FormatAuto), string(FormatText), string(FormatJSON)},
		}
	}
}

func textHandler(w io.Writer, level slog.Level) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(w),
	})
}

func jsonHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}

// isTerminal reports whether w is a file descriptor attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
