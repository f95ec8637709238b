package output

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"
	"github.com/xuri/excelize/v2"
)

// DefaultSheetName is the worksheet name used when none is given.
const DefaultSheetName = "Sheet1"

// maxColumnWidth caps a column, in characters.
const maxColumnWidth = 50

// WriteExcel writes p as a single-sheet workbook with a bold header row.
// Each column is as wide as its longest cell plus two, up to maxColumnWidth.
func WriteExcel(w io.Writer, p Prepared, sheetName string) error {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheetName != DefaultSheetName {
		if err := f.SetSheetName(DefaultSheetName, sheetName); err != nil {
			return fmt.Errorf("failed to name sheet %q: %w", sheetName, err)
		}
	}

	if !p.IsEmpty() {
		if err := writeSheet(f, sheetName, p); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func writeSheet(f *excelize.File, sheet string, p Prepared) error {
	if err := setRow(f, sheet, 1, p.Headers); err != nil {
		return err
	}
	for i, row := range p.Rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(p.Headers))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", bold); err != nil {
		return err
	}

	for i, width := range columnWidths(p) {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, float64(width)); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, r int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, r)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return f.SetSheetRow(sheet, cell, &row)
}

// columnWidths measures display width, so wide runes count double.
func columnWidths(p Prepared) []int {
	widths := make([]int, len(p.Headers))
	for i, h := range p.Headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range p.Rows {
		for i := range widths {
			if i < len(row) {
				widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
			}
		}
	}
	for i := range widths {
		widths[i] = min(widths[i]+2, maxColumnWidth)
	}
	return widths
}
