package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/wonny/seasonality/internal/contracts"
)

// SheetName is the worksheet holding the feature table
const SheetName = "Seasonality"

// WriteXLSX writes ft as a single-sheet workbook with the same layout as the CSV
func WriteXLSX(w io.Writer, ft *contracts.FeatureTable) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("open stream writer: %w", err)
	}

	header := ft.Header()
	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := sw.SetRow("A1", row); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}

	t := ft.Table
	for i := 0; i < t.Len(); i++ {
		row[0] = contracts.FormatDate(t.Date(i))
		for j, v := range t.Row(i) {
			row[j+1] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush xlsx: %w", err)
	}
	return f.Write(w)
}
