// Package dataset loads the ground-truth table and assembles the
// training matrix: per-image features paired with brute-forced
// boundary labels, with known-bad and held-out images removed.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Row is one usable ground-truth entry: an image identifier and its
// hand-marked granule count. The count is strictly positive; rows that
// would violate that never leave ReadTable.
type Row struct {
	ImageID   int
	PropCount int
}

// ReadTable parses the labeled CSV. Index-artifact columns are dropped
// by name, rows with a missing or non-positive prop_count are filtered,
// and identifiers in dropIDs are removed. Filtering is by identifier,
// never by position.
func ReadTable(path string, dropColumns []string, dropIDs []int) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open label table: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse label table %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("label table %s is empty", path)
	}

	dropped := make(map[string]bool, len(dropColumns))
	for _, c := range dropColumns {
		dropped[c] = true
	}

	idCol, countCol := -1, -1
	for i, name := range records[0] {
		if dropped[name] {
			continue
		}
		switch name {
		case "ImageId":
			idCol = i
		case "prop_count":
			countCol = i
		}
	}
	if idCol < 0 || countCol < 0 {
		return nil, fmt.Errorf("label table %s lacks ImageId/prop_count columns", path)
	}

	drop := make(map[int]bool, len(dropIDs))
	for _, id := range dropIDs {
		drop[id] = true
	}

	var rows []Row
	for _, rec := range records[1:] {
		if idCol >= len(rec) || countCol >= len(rec) {
			continue
		}

		id, err := strconv.Atoi(strings.TrimSpace(rec[idCol]))
		if err != nil {
			continue
		}
		if drop[id] {
			continue
		}

		count, ok := parseCount(rec[countCol])
		if !ok {
			continue
		}

		rows = append(rows, Row{ImageID: id, PropCount: count})
	}
	return rows, nil
}

// parseCount reads a ground-truth count, tolerating float formatting
// ("12.0") in hand-edited tables. Missing, unparsable, or non-positive
// values report ok=false.
func parseCount(field string) (int, bool) {
	s := strings.TrimSpace(field)
	if s == "" || strings.EqualFold(s, "nan") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != f || f <= 0 {
		return 0, false
	}
	return int(f), true
}
