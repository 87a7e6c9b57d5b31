// internal/output/json.go
package output

import (
	"encoding/json"
	"fmt"

	"github.com/valpere/StatHarvester/pkg/types"
)

// EncodeJSON renders the records as a two-space indented JSON array. A run
// with no records produces an empty array, not null.
func EncodeJSON(rs *types.ResultSet) ([]byte, error) {
	records := rs.Records
	if records == nil {
		records = []types.Record{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return append(data, '\n'), nil
}
