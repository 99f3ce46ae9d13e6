package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSnapshotCSV(t *testing.T) {
	input := `product_id,recorded_at,packs_available,total_units
p-1,2026-06-01,10,100
p-2,2026-06-01T08:30:00Z,5,48
`
	snaps, err := ParseSnapshotCSV(strings.NewReader(input), "import:test.csv")
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	assert.Equal(t, "p-1", snaps[0].ProductID)
	assert.Equal(t, 100, snaps[0].TotalUnits)
	assert.Equal(t, 10, snaps[0].PacksAvailable)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), snaps[0].RecordedAt)
	assert.Equal(t, "import:test.csv", snaps[0].Source)
	assert.NotEmpty(t, snaps[0].ID)

	assert.Equal(t, time.Date(2026, 6, 1, 8, 30, 0, 0, time.UTC), snaps[1].RecordedAt)
}

func TestParseSnapshotCSV_ColumnOrderIndependent(t *testing.T) {
	input := `total_units,product_id,recorded_at
42,p-1,2026-06-01
`
	snaps, err := ParseSnapshotCSV(strings.NewReader(input), "s")
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, 42, snaps[0].TotalUnits)
	assert.Zero(t, snaps[0].PacksAvailable)
}

func TestParseSnapshotCSV_Rejections(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty file", ""},
		{"missing column", "product_id,recorded_at\np-1,2026-06-01\n"},
		{"bad timestamp", "product_id,recorded_at,total_units\np-1,yesterday,10\n"},
		{"negative units", "product_id,recorded_at,total_units\np-1,2026-06-01,-5\n"},
		{"empty product", "product_id,recorded_at,total_units\n,2026-06-01,10\n"},
		{"non-numeric units", "product_id,recorded_at,total_units\np-1,2026-06-01,lots\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSnapshotCSV(strings.NewReader(tc.input), "s")
			assert.Error(t, err)
		})
	}
}
