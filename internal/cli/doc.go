// Package cli implements the command-line interface for afad-quakes.
//
// The cli package provides the Cobra-based CLI: the root command (and its "scrape"
// alias) fetches the AFAD table once, prints the ordered records as text or JSON and
// optionally writes JSON/CSV exports; "serve" keeps refreshing the table and exposes
// it over HTTP together with health and Prometheus endpoints.
package cli
