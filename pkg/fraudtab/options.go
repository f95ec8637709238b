// Package fraudtab turns analysis results of unknown shape into tables,
// paged views and export artifacts.
package fraudtab

import (
	"time"

	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/cell"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/output"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/view"
)

// Options configures presentation and export.
type Options struct {
	// PageSize is the number of rows per view page.
	PageSize int
	// Currency is the ISO 4217 code used for currency cells.
	Currency string
	// Location is the zone timestamps are shown in.
	Location *time.Location
	// SheetName names the spreadsheet worksheet.
	SheetName string
	// Title heads PDF reports.
	Title string
	// PDFFont is a UTF-8 TrueType font file for PDF reports.
	PDFFont string
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		PageSize:  view.DefaultPageSize,
		Currency:  "USD",
		Location:  time.UTC,
		SheetName: output.DefaultSheetName,
		Title:     output.DefaultTitle,
	}
}

// Formatter returns the cell formatter described by o.
func (o Options) Formatter() (*cell.Formatter, error) {
	return cell.NewFormatter(cell.FormatOptions{Currency: o.Currency, Location: o.Location})
}

// State returns an initial view state using o.PageSize.
func (o Options) State() view.State {
	return view.NewState(o.PageSize)
}

// ExportOptions returns export settings for filename, stamped with the
// verdict line when one is given.
func (o Options) ExportOptions(filename, subtitle string) output.Options {
	return output.Options{
		Filename:  filename,
		SheetName: o.SheetName,
		Title:     o.Title,
		Subtitle:  subtitle,
		Location:  o.Location,
		PDFFont:   o.PDFFont,
	}
}
