package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/afad-quakes/internal/quake"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	ScrapedAt   time.Time      `json:"scraped_at"`
	URL         string         `json:"url"`
	Count       int            `json:"count"`
	Earthquakes []quake.Record `json:"earthquakes"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	if result.Earthquakes == nil {
		result.Earthquakes = []quake.Record{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text, one earthquake per line
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.Count == 0 {
		fmt.Fprintln(w, "No earthquakes found.")
		return nil
	}

	for _, r := range result.Earthquakes {
		fmt.Fprintf(w, "%s  M%-4s %-3s %7s km  %s\n", r.DateTime, r.Magnitude, r.Type, r.Depth, r.Region)
		if verbose {
			fmt.Fprintf(w, "     ID: %s\n", r.ID)
			fmt.Fprintf(w, "     Coordinates: %s, %s\n", r.Latitude, r.Longitude)
		}
	}
	fmt.Fprintf(w, "\nTotal: %d earthquakes\n", result.Count)

	return nil
}
