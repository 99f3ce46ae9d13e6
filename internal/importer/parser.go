package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nolanv/stocklens/internal/domain"
)

// snapshot CSV layout: header row naming at least product_id, recorded_at and
// total_units. packs_available is optional and defaults to 0.
var requiredColumns = []string{"product_id", "recorded_at", "total_units"}

// ParseSnapshotCSV reads one snapshot CSV into domain rows. Row-level
// failures abort the parse with the offending line number so a bad export is
// rejected whole rather than half-imported.
func ParseSnapshotCSV(r io.Reader, source string) ([]domain.StockSnapshot, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty snapshot file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	var snapshots []domain.StockSnapshot
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		productID := strings.TrimSpace(record[cols["product_id"]])
		if productID == "" {
			return nil, fmt.Errorf("line %d: product_id is empty", line)
		}

		recordedAt, err := parseTimestamp(record[cols["recorded_at"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		totalUnits, err := strconv.Atoi(strings.TrimSpace(record[cols["total_units"]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid total_units: %w", line, err)
		}
		if totalUnits < 0 {
			return nil, fmt.Errorf("line %d: total_units must not be negative", line)
		}

		packs := 0
		if idx, ok := cols["packs_available"]; ok && strings.TrimSpace(record[idx]) != "" {
			packs, err = strconv.Atoi(strings.TrimSpace(record[idx]))
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid packs_available: %w", line, err)
			}
		}

		snapshots = append(snapshots, domain.StockSnapshot{
			ID:             uuid.NewString(),
			ProductID:      productID,
			RecordedAt:     recordedAt,
			PacksAvailable: packs,
			TotalUnits:     totalUnits,
			Source:         source,
		})
	}

	return snapshots, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid recorded_at %q", raw)
}
