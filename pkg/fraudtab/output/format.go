// Package output serializes analysis results into downloadable artifacts.
package output

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Format is an export target.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatExcel Format = "excel"
	FormatPDF   Format = "pdf"
)

// Formats lists every supported format.
var Formats = []Format{FormatCSV, FormatJSON, FormatExcel, FormatPDF}

// DefaultBaseName is the filename prefix used when the caller names no file.
const DefaultBaseName = "fraud-detection-export"

// ParseFormat resolves a format name. "xlsx" is accepted for excel.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatExcel, FormatPDF:
		return f, nil
	case "xlsx":
		return FormatExcel, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Valid reports whether f is one of Formats.
func (f Format) Valid() bool {
	switch f {
	case FormatCSV, FormatJSON, FormatExcel, FormatPDF:
		return true
	}
	return false
}

// Extension returns the file extension without the dot.
func (f Format) Extension() string {
	if f == FormatExcel {
		return "xlsx"
	}
	return string(f)
}

// ContentType returns the MIME type of the artifact.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json; charset=utf-8"
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Filename returns name with the format extension appended unless name
// already ends in it, so "report.v2" becomes "report.v2.pdf".
// An empty name becomes fraud-detection-export-<YYYY-MM-DD> for the UTC date of now.
func Filename(name string, f Format, now time.Time) string {
	if name == "" {
		name = DefaultBaseName + "-" + now.UTC().Format("2006-01-02")
	}
	ext := "." + f.Extension()
	if !strings.EqualFold(filepath.Ext(name), ext) {
		name += ext
	}
	return name
}
