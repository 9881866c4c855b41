// Package scraper provides HTTP fetching and HTML table extraction for the AFAD
// last-earthquakes page.
//
// The scraper package fetches the public page from deprem.afad.gov.tr, locates the
// data table, hands every body row to the quake package for normalization and keeps
// the most recent successful result. A Scraper starts out unscraped; Results returns
// quake.ErrNotScraped until a scrape has completed, and a failed scrape never replaces
// a previous result.
package scraper
