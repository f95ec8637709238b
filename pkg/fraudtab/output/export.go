package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/models"
)

// Options configures one export.
type Options struct {
	// Filename overrides the default fraud-detection-export-<date> name.
	Filename string
	// SheetName names the spreadsheet worksheet. Defaults to Sheet1.
	SheetName string
	// Title and Subtitle head the PDF report.
	Title    string
	Subtitle string
	// Now is the generation time. Zero means time.Now.
	Now time.Time
	// Location is the zone the PDF generation time is shown in. Nil means local time.
	Location *time.Location
	// PDFFont is a UTF-8 TrueType font file for PDF reports. Empty means the
	// built-in Helvetica, which is limited to Windows-1252.
	PDFFont string
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// Export writes raw to w in format. CSV, excel and PDF share one
// Prepare step; JSON serializes raw itself.
func Export(w io.Writer, raw models.RawValue, format Format, opts Options) error {
	var err error
	switch format {
	case FormatCSV:
		err = WriteCSV(w, Prepare(raw))
	case FormatJSON:
		err = WriteJSON(w, raw)
	case FormatExcel:
		err = WriteExcel(w, Prepare(raw), opts.SheetName)
	case FormatPDF:
		err = WritePDF(w, Prepare(raw), PDFOptions{
			Title:     opts.Title,
			Subtitle:  opts.Subtitle,
			Generated: opts.now(),
			Location:  opts.Location,
			FontFile:  opts.PDFFont,
		})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return NewExportError(format, err)
	}
	return nil
}

// ExportBytes is Export into memory.
func ExportBytes(raw models.RawValue, format Format, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Export(&buf, raw, format, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportFile writes raw into dir under Filename(opts.Filename, format, now)
// and returns the path. Nothing is left on disk when generation fails.
func ExportFile(dir string, raw models.RawValue, format Format, opts Options) (string, error) {
	if !format.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	// Generate fully before touching the filesystem.
	data, err := ExportBytes(raw, format, opts)
	if err != nil {
		return "", err
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}
	path := filepath.Join(dir, Filename(opts.Filename, format, opts.now()))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
