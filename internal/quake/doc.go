// Package quake defines the earthquake record and turns raw table cells into records.
//
// The quake package owns everything between "a row of cell texts" and "an ordered list
// of records": the fixed ten-field Record, the column mapping (positional by default,
// header-driven when the table carries recognizable labels), day-first date parsing, the
// descending time sort, and the error taxonomy shared by the scraper and exporter.
package quake
