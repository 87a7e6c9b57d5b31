// internal/output/excel_test.go
package output

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/valpere/StatHarvester/pkg/types"
)

func TestEncodeExcelRoundTrip(t *testing.T) {
	rs := &types.ResultSet{Records: []types.Record{
		{"indicator": "inflation", "value": "28.9%"},
		{"indicator": "population"},
	}}

	data, err := EncodeExcel(rs, "Harvest")
	if err != nil {
		t.Fatalf("EncodeExcel failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a valid workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Harvest")
	if err != nil {
		t.Fatalf("failed to read sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header plus 2 records", len(rows))
	}
	if rows[0][0] != "indicator" || rows[0][1] != "value" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][1] != "28.9%" {
		t.Errorf("data row = %v", rows[1])
	}
}

func TestEncodeExcelDefaultSheetName(t *testing.T) {
	rs := &types.ResultSet{Records: []types.Record{{"a": "1"}}}

	data, err := EncodeExcel(rs, "")
	if err != nil {
		t.Fatalf("EncodeExcel failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a valid workbook: %v", err)
	}
	defer f.Close()

	if _, err := f.GetRows("Results"); err != nil {
		t.Errorf("default sheet missing: %v", err)
	}
}
