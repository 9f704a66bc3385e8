package exporter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"cnhpulse/internal/dataprocessing"
)

// DefaultSheetName names the single worksheet of an enriched workbook
const DefaultSheetName = "condutores"

// WriteEnrichedXLSX writes the enriched table to a one-sheet workbook. The
// count column is stored as a number; everything else as text.
func WriteEnrichedXLSX(w io.Writer, t *dataprocessing.Table, sheet string) error {
	if sheet == "" {
		sheet = DefaultSheetName
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	header := EnrichedHeader(t)
	countCol := -1
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
		if h == dataprocessing.ColumnCount {
			countCol = i
		}
	}
	if err := sw.SetRow("A1", headerRow); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := 0; i < t.Len(); i++ {
		cells := EnrichedRow(t, i)
		row := make([]interface{}, len(cells))
		for j, c := range cells {
			row[j] = c
		}
		if countCol >= 0 {
			if n, err := strconv.ParseInt(cells[countCol], 10, 64); err == nil {
				row[countCol] = n
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
