package quake

import "sort"

// Record represents one earthquake row from the AFAD last-earthquakes table.
// All values are kept as text; coordinates, depth and magnitude are not converted
// so whatever decoration the source carries survives the round trip.
type Record struct {
	ID        string `json:"id" csv:"id"`
	DateTime  string `json:"datetime" csv:"datetime"`
	Date      string `json:"date" csv:"date"`
	Time      string `json:"time" csv:"time"`
	Latitude  string `json:"latitude" csv:"latitude"`
	Longitude string `json:"longitude" csv:"longitude"`
	Depth     string `json:"depth" csv:"depth"`
	Type      string `json:"type" csv:"type"`
	Magnitude string `json:"magnitude" csv:"magnitude"`
	Region    string `json:"region" csv:"region"`
}

var fieldNames = []string{
	"id", "datetime", "date", "time", "latitude",
	"longitude", "depth", "type", "magnitude", "region",
}

// FieldNames returns the serialized field names of a Record in output order.
func FieldNames() []string {
	names := make([]string, len(fieldNames))
	copy(names, fieldNames)
	return names
}

// Values returns the record's values in FieldNames order.
func (r Record) Values() []string {
	return []string{
		r.ID, r.DateTime, r.Date, r.Time, r.Latitude,
		r.Longitude, r.Depth, r.Type, r.Magnitude, r.Region,
	}
}

// SortByTime orders records by DateTime, most recent first.
// Records sharing a timestamp keep their original relative order.
func SortByTime(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].DateTime > records[j].DateTime
	})
}
