// internal/output/excel.go
package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/valpere/StatHarvester/pkg/types"
)

// excelMaxCellLength is the hard cell size limit of the xlsx format.
const excelMaxCellLength = 32767

// EncodeExcel renders the records as an xlsx workbook with one sheet. Layout
// matches the CSV export: sorted union-of-keys header, one row per record,
// blanks for missing fields.
func EncodeExcel(rs *types.ResultSet, sheetName string) ([]byte, error) {
	if sheetName == "" {
		sheetName = "Results"
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	cols := columnsFor(rs.Records)
	header := make([]interface{}, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for rowIdx, rec := range rs.Records {
		row := make([]interface{}, len(cols))
		for i, col := range cols {
			v := rec[col]
			if len(v) > excelMaxCellLength {
				v = v[:excelMaxCellLength]
			}
			row[i] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", rowIdx+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
