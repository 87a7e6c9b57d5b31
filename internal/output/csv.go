// internal/output/csv.go

// Package output serializes result sets to the supported export formats and
// optional side destinations: a SQLite archive and a best-effort cloud
// upload. Records are heterogeneous maps, so tabular formats use the sorted
// union of all keys as the header and leave missing fields blank.
package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/valpere/StatHarvester/pkg/types"
)

// columnsFor returns the sorted union of keys across all records.
func columnsFor(records []types.Record) []string {
	set := make(map[string]struct{})
	for _, rec := range records {
		for k := range rec {
			set[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(set))
	for k := range set {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// EncodeCSV renders the records as CSV. The header is the sorted union of all
// record keys; a record missing a column gets an empty cell. Row order follows
// the result set's record order.
func EncodeCSV(rs *types.ResultSet) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	cols := columnsFor(rs.Records)
	if len(cols) == 0 {
		return nil, nil
	}
	if err := w.Write(cols); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	row := make([]string, len(cols))
	for _, rec := range rs.Records {
		for i, col := range cols {
			row[i] = rec[col]
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("CSV encoding failed: %w", err)
	}
	return buf.Bytes(), nil
}
