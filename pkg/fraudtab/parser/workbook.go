package parser

import (
	"fmt"
	"io"
	"regexp"

	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/models"
	"github.com/xuri/excelize/v2"
)

var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// ReadWorkbook loads a sheet with a header row back into an array of objects
// keyed by that header row. An empty sheetName selects the first sheet.
// Empty cells become null and numeric text becomes numbers.
func ReadWorkbook(r io.Reader, sheetName string) (models.RawValue, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return models.RawValue{}, err
	}
	defer f.Close()

	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return models.NewArray(), nil
		}
		sheetName = sheets[0]
	}

	rows, err := sheetRows(f, sheetName)
	if err != nil {
		return models.RawValue{}, err
	}

	headerIdx, minCol, maxCol := dataBounds(rows)
	if headerIdx < 0 {
		return models.NewArray(), nil
	}

	headers, err := readHeaderRow(rows[headerIdx], minCol, maxCol)
	if err != nil {
		return models.RawValue{}, err
	}

	// Every row after the header is a record, blank ones included: an
	// all-null record exports as a row of empty cells.
	records := make([]models.RawValue, 0, len(rows)-headerIdx-1)
	for _, row := range rows[headerIdx+1:] {
		members := make([]models.Member, len(headers))
		for i, h := range headers {
			col := minCol + i
			var cellValue string
			if col < len(row) {
				cellValue = row[col]
			}
			members[i] = models.Member{Key: h, Value: parseValue(cellValue)}
		}
		records = append(records, models.NewObject(members...))
	}

	return models.NewArray(records...), nil
}

// readHeaderRow names blank or repeated header cells after their column letter.
func readHeaderRow(row []string, minCol, maxCol int) ([]string, error) {
	seen := make(map[string]bool)
	headers := make([]string, 0, maxCol-minCol+1)
	for col := minCol; col <= maxCol; col++ {
		var name string
		if col < len(row) {
			name = row[col]
		}
		if name == "" || seen[name] {
			letter, err := excelize.ColumnNumberToName(col + 1)
			if err != nil {
				return nil, err
			}
			if name == "" {
				name = "Column " + letter
			} else {
				name = fmt.Sprintf("%s (%s)", name, letter)
			}
		}
		seen[name] = true
		headers = append(headers, name)
	}
	return headers, nil
}

// sheetRows reads every row element of the sheet. Unlike GetRows it keeps
// trailing rows whose cells are all empty.
func sheetRows(f *excelize.File, sheet string) ([][]string, error) {
	it, err := f.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var rows [][]string
	for it.Next() {
		row, err := it.Columns()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, it.Error()
}

// dataBounds returns the first row holding any text, taken as the header,
// and the column span of non-empty cells from that row down.
// headerIdx is -1 when the sheet is blank.
func dataBounds(rows [][]string) (headerIdx, minCol, maxCol int) {
	headerIdx, minCol, maxCol = -1, -1, -1
	for r, row := range rows {
		for c, v := range row {
			if v == "" {
				continue
			}
			if headerIdx < 0 {
				headerIdx = r
			}
			if minCol < 0 || c < minCol {
				minCol = c
			}
			maxCol = max(maxCol, c)
		}
	}
	return headerIdx, minCol, maxCol
}

// parseValue attempts to parse a cell as a number, keeping the original text
// as the number literal. Empty cells are null; anything else stays a string.
func parseValue(s string) models.RawValue {
	if s == "" {
		return models.NewNull()
	}
	// Only JSON-shaped literals, so the value re-serializes as valid JSON
	if jsonNumber.MatchString(s) {
		if v, err := models.NewNumberText(s); err == nil {
			return v
		}
	}
	return models.NewString(s)
}
