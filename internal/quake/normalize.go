package quake

import "fmt"

// Normalize maps one table row onto a Record using cols. row is the zero-based
// position of the row in the table body and is only used in errors.
func Normalize(row int, cells []string, cols Columns) (Record, error) {
	if need := cols.MinCells(); len(cells) < need {
		return Record{}, &StructureError{
			Row:    row,
			Reason: fmt.Sprintf("expected at least %d cells, got %d", need, len(cells)),
		}
	}

	raw := cols.cell(cells, FieldDateTime)
	ts, err := ParseDateTime(raw)
	if err != nil {
		return Record{}, &ParseError{Row: row, Text: raw, Err: err}
	}

	date, clock := FormatDate(ts), FormatTime(ts)
	return Record{
		ID:        cols.cell(cells, FieldID),
		DateTime:  JoinDateTime(date, clock),
		Date:      date,
		Time:      clock,
		Latitude:  cols.cell(cells, FieldLatitude),
		Longitude: cols.cell(cells, FieldLongitude),
		Depth:     cols.cell(cells, FieldDepth),
		Type:      cols.cell(cells, FieldType),
		Magnitude: cols.cell(cells, FieldMagnitude),
		Region:    cols.cell(cells, FieldRegion),
	}, nil
}

// NormalizeAll normalizes every row in order and stops at the first failure.
// It never returns a partial slice.
func NormalizeAll(rows [][]string, cols Columns) ([]Record, error) {
	records := make([]Record, 0, len(rows))
	for i, cells := range rows {
		rec, err := Normalize(i, cells, cols)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
