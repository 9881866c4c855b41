// Package export writes scraped earthquake records as JSON or CSV.
//
// Exports are one-way projections of an already ordered record slice: nothing is
// fetched or re-sorted here. File targets follow one naming policy for both formats.
// A directory is created when missing, a name without the format's extension gets
// it appended, and an empty name becomes a timestamped default such as
// afad-earthquakes-export-2024-03-17T10:15:00.000000.csv.
package export
