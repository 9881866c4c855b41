package quake

import (
	"fmt"
	"strings"
	"unicode"
)

// Field identifies a source column that feeds a Record.
type Field int

const (
	FieldDateTime Field = iota
	FieldLatitude
	FieldLongitude
	FieldDepth
	FieldType
	FieldMagnitude
	FieldRegion
	FieldID
	fieldCount
)

func (f Field) String() string {
	switch f {
	case FieldDateTime:
		return "datetime"
	case FieldLatitude:
		return "latitude"
	case FieldLongitude:
		return "longitude"
	case FieldDepth:
		return "depth"
	case FieldType:
		return "type"
	case FieldMagnitude:
		return "magnitude"
	case FieldRegion:
		return "region"
	case FieldID:
		return "id"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// LastColumn marks a field that is read from the last cell of the row.
const LastColumn = -1

// Columns maps each Field to a cell index. A negative index counts from the end
// of the row, so LastColumn is the final cell.
type Columns [fieldCount]int

// DefaultColumns is the fixed positional layout of the AFAD table:
// date/time, latitude, longitude, depth, type, magnitude, region, then the
// event id in the last cell.
var DefaultColumns = Columns{
	FieldDateTime:  0,
	FieldLatitude:  1,
	FieldLongitude: 2,
	FieldDepth:     3,
	FieldType:      4,
	FieldMagnitude: 5,
	FieldRegion:    6,
	FieldID:        LastColumn,
}

// MinCells is the smallest row width the mapping can read without two fields
// landing on the same cell.
func (c Columns) MinCells() int {
	maxIdx, fromEnd := -1, 0
	for _, idx := range c {
		if idx >= 0 && idx > maxIdx {
			maxIdx = idx
		}
		if idx < 0 && -idx > fromEnd {
			fromEnd = -idx
		}
	}
	return maxIdx + 1 + fromEnd
}

func (c Columns) cell(cells []string, f Field) string {
	idx := c[f]
	if idx < 0 {
		idx += len(cells)
	}
	return cells[idx]
}

// headerLabels lists the folded header texts recognized for each field, covering
// the Turkish and English versions of the page.
var headerLabels = map[string]Field{
	"tarih":     FieldDateTime,
	"tarihsaat": FieldDateTime,
	"date":      FieldDateTime,
	"datetime":  FieldDateTime,
	"enlem":     FieldLatitude,
	"latitude":  FieldLatitude,
	"lat":       FieldLatitude,
	"boylam":    FieldLongitude,
	"longitude": FieldLongitude,
	"lon":       FieldLongitude,
	"lng":       FieldLongitude,
	"derinlik":  FieldDepth,
	"depth":     FieldDepth,
	"tip":       FieldType,
	"type":      FieldType,
	"buyukluk":  FieldMagnitude,
	"magnitude": FieldMagnitude,
	"mag":       FieldMagnitude,
	"yer":       FieldRegion,
	"location":  FieldRegion,
	"region":    FieldRegion,
	"place":     FieldRegion,
	"depremid":  FieldID,
	"olayid":    FieldID,
	"eventid":   FieldID,
	"id":        FieldID,
}

// ResolveColumns maps header labels to fields. An empty header yields
// DefaultColumns. A header that lacks any of the expected labels returns a
// StructureError naming the missing fields.
func ResolveColumns(header []string) (Columns, error) {
	if len(header) == 0 {
		return DefaultColumns, nil
	}

	var cols Columns
	found := make([]bool, fieldCount)
	for i, label := range header {
		f, ok := headerLabels[foldLabel(label)]
		if !ok || found[f] {
			continue
		}
		cols[f] = i
		found[f] = true
	}

	var missing []string
	for f := Field(0); f < fieldCount; f++ {
		if !found[f] {
			missing = append(missing, f.String())
		}
	}
	if len(missing) > 0 {
		return DefaultColumns, &StructureError{
			Row:    -1,
			Reason: fmt.Sprintf("table header is missing columns: %s", strings.Join(missing, ", ")),
		}
	}
	return cols, nil
}

// foldLabel lowercases a header label, drops any parenthesized unit such as
// "(Km)" or "(TS)", folds Turkish letters to ASCII and strips everything that
// is not a letter or digit.
func foldLabel(label string) string {
	if i := strings.IndexByte(label, '('); i > 0 {
		label = label[:i]
	}

	var b strings.Builder
	for _, r := range label {
		switch r {
		case 'İ', 'I', 'ı':
			r = 'i'
		case 'Ş', 'ş':
			r = 's'
		case 'Ğ', 'ğ':
			r = 'g'
		case 'Ü', 'ü':
			r = 'u'
		case 'Ö', 'ö':
			r = 'o'
		case 'Ç', 'ç':
			r = 'c'
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
