package quake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortByTime_StableTieBreak(t *testing.T) {
	records, err := NormalizeAll([][]string{
		row("17.03.2024 10:15:00", "A"),
		row("17.03.2024 10:15:00", "B"),
		row("16.03.2024 09:00:00", "C"),
	}, DefaultColumns)
	require.NoError(t, err)

	SortByTime(records)

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"A", "B", "C"}, ids)
}

func TestSortByTime_Descending(t *testing.T) {
	records, err := NormalizeAll([][]string{
		row("01.01.2024 00:00:00", "old"),
		row("17.03.2024 10:15:00", "new"),
		row("16.03.2024 09:00:00", "mid"),
		row("16.03.2024 09:00:00.5", "mid-frac"),
	}, DefaultColumns)
	require.NoError(t, err)

	SortByTime(records)

	for i := 1; i < len(records); i++ {
		assert.GreaterOrEqual(t, records[i-1].DateTime, records[i].DateTime)
	}
	assert.Equal(t, "new", records[0].ID)
	assert.Equal(t, "mid-frac", records[1].ID)
	assert.Equal(t, "old", records[3].ID)
}

func TestFieldNames(t *testing.T) {
	names := FieldNames()
	assert.Equal(t, []string{
		"id", "datetime", "date", "time", "latitude",
		"longitude", "depth", "type", "magnitude", "region",
	}, names)

	names[0] = "changed"
	assert.Equal(t, "id", FieldNames()[0])
}

func TestRecord_Values(t *testing.T) {
	rec := Record{ID: "1", DateTime: "2", Date: "3", Time: "4", Latitude: "5", Longitude: "6", Depth: "7", Type: "8", Magnitude: "9", Region: "10"}
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}, rec.Values())
	assert.Len(t, rec.Values(), len(FieldNames()))
}
