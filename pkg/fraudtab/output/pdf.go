package output

import (
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/cell"
)

// DefaultTitle heads every PDF report.
const DefaultTitle = "Fraud Detection Analysis Report"

// PDF layout in millimetres on A4 portrait.
const (
	pdfMargin      = 14.0
	pdfTitleY      = 15.0
	pdfGeneratedY  = 22.0
	pdfTableTop    = 28.0
	pdfCellPadding = 1.5
	pdfMinColumn   = 12.0
	pdfLineSpacing = 1.15
	pdfTitleSize   = 16
	pdfInfoSize    = 10
	pdfBodySize    = 8
)

const (
	pdfCoreFont = "Helvetica"
	pdfUTF8Font = "body"
)

var (
	headerFill = [3]int{102, 126, 234}
	zebraFill  = [3]int{245, 247, 250}
)

// PDFOptions controls the report heading and font.
type PDFOptions struct {
	Title string
	// Subtitle is an optional line under the generation time, e.g. a verdict.
	Subtitle  string
	Generated time.Time
	Location  *time.Location
	// FontFile is a UTF-8 TrueType font used for all text. Without it the
	// built-in Helvetica is used, which only covers Windows-1252: other
	// characters (CJK, ₹) are replaced.
	FontFile string
}

// WritePDF renders p as a titled, paginated table with a coloured header band
// that opens every page and zebra-striped body rows. Long cells wrap, and a
// row taller than a page continues on the next one.
// Any renderer error is returned, never dropped.
func WritePDF(w io.Writer, p Prepared, opts PDFOptions) error {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Generated.IsZero() {
		opts.Generated = time.Now()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pdfMargin, pdfTableTop, pdfMargin)
	doc.SetAutoPageBreak(false, pdfMargin)
	doc.SetCreationDate(opts.Generated)
	doc.SetTitle(opts.Title, true)
	doc.SetCreator("fraudtab", false)

	r := newPDFRenderer(doc, opts.FontFile)
	if err := doc.Error(); err != nil {
		return err
	}
	r.heading(opts)
	if !p.IsEmpty() {
		top := pdfTableTop
		if opts.Subtitle != "" {
			top += 6
		}
		r.table(p, top)
	}

	if err := doc.Error(); err != nil {
		return err
	}
	return doc.Output(w)
}

type pdfRenderer struct {
	doc    *fpdf.Fpdf
	family string
	utf8   bool
	tr     func(string) string
	widths []float64
}

func newPDFRenderer(doc *fpdf.Fpdf, fontFile string) *pdfRenderer {
	if fontFile == "" {
		return &pdfRenderer{doc: doc, family: pdfCoreFont, tr: doc.UnicodeTranslatorFromDescriptor("")}
	}
	doc.AddUTF8Font(pdfUTF8Font, "", fontFile)
	doc.AddUTF8Font(pdfUTF8Font, "B", fontFile)
	return &pdfRenderer{doc: doc, family: pdfUTF8Font, utf8: true, tr: func(s string) string { return s }}
}

func (r *pdfRenderer) heading(opts PDFOptions) {
	r.doc.AddPage()
	r.doc.SetFont(r.family, "", pdfTitleSize)
	r.doc.Text(pdfMargin, pdfTitleY, r.tr(opts.Title))
	r.doc.SetFont(r.family, "", pdfInfoSize)
	r.doc.Text(pdfMargin, pdfGeneratedY, r.tr("Generated: "+opts.Generated.In(opts.Location).Format(cell.DateTimeLayout)))
	if opts.Subtitle != "" {
		r.doc.Text(pdfMargin, pdfGeneratedY+6, r.tr(opts.Subtitle))
	}
}

// wrappedRow holds the wrapped lines of each cell of one row.
type wrappedRow [][]string

func (w wrappedRow) lines() int {
	n := 1
	for _, c := range w {
		n = max(n, len(c))
	}
	return n
}

func (r *pdfRenderer) table(p Prepared, top float64) {
	header, body, blocks := r.layout(p, top)
	page := 1
	for _, b := range blocks {
		if b.Page > page {
			r.doc.AddPage()
			page = b.Page
		}
		if b.Row < 0 {
			r.band(header, b, true, false)
		} else {
			r.band(body[b.Row], b, false, b.Row%2 == 1)
		}
	}
}

// layout sizes the columns, wraps every cell and places the table on pages.
func (r *pdfRenderer) layout(p Prepared, top float64) (wrappedRow, []wrappedRow, []pdfBlock) {
	_, pageH := r.doc.GetPageSize()
	r.widths = r.columnWidths(p)

	header := r.wrap(p.Headers, "B")
	body := make([]wrappedRow, len(p.Rows))
	counts := make([]int, len(p.Rows))
	for i, row := range p.Rows {
		body[i] = r.wrap(row, "")
		counts[i] = body[i].lines()
	}
	return header, body, layoutTable(header.lines(), counts, r.lineHeight(), top, pdfMargin, pageH-pdfMargin)
}

// pdfBlock is the part of one table row drawn on one page: wrapped lines
// [From, To) placed at Y with height H. Row is -1 for the header band.
type pdfBlock struct {
	Page     int
	Row      int
	From, To int
	Y, H     float64
}

// layoutTable stacks the header band and the rows from top down to bottom,
// continuing at contTop on new pages. Each page opens with the header band.
// A row that does not fit below the previous one moves whole to a new page
// when it fits there; a row taller than a page is split between lines.
func layoutTable(headerLines int, rowLines []int, lineH, top, contTop, bottom float64) []pdfBlock {
	pad := 2 * pdfCellPadding
	headerH := float64(headerLines)*lineH + pad

	var blocks []pdfBlock
	page, y, bodyTop := 1, top, top
	openPage := func() {
		blocks = append(blocks, pdfBlock{Page: page, Row: -1, To: headerLines, Y: y, H: headerH})
		y += headerH
		bodyTop = y
	}
	nextPage := func() {
		page++
		y = contTop
		openPage()
	}

	openPage()
	for i, n := range rowLines {
		n = max(n, 1)
		full := float64(n)*lineH + pad
		if y+full > bottom && y > bodyTop && contTop+headerH+full <= bottom {
			nextPage()
		}
		for from := 0; from < n; {
			fit := int((bottom - y - pad) / lineH)
			if fit < 1 {
				if y > bodyTop {
					nextPage()
					continue
				}
				fit = 1
			}
			to := min(n, from+fit)
			h := float64(to-from)*lineH + pad
			blocks = append(blocks, pdfBlock{Page: page, Row: i, From: from, To: to, Y: y, H: h})
			y += h
			from = to
		}
	}
	return blocks
}

// band draws the lines of b for one row.
func (r *pdfRenderer) band(row wrappedRow, b pdfBlock, header, striped bool) {
	style := ""
	if header {
		style = "B"
	}
	r.doc.SetFont(r.family, style, pdfBodySize)

	total := 0.0
	for _, w := range r.widths {
		total += w
	}
	switch {
	case header:
		r.doc.SetFillColor(headerFill[0], headerFill[1], headerFill[2])
		r.doc.Rect(pdfMargin, b.Y, total, b.H, "F")
		r.doc.SetTextColor(255, 255, 255)
	case striped:
		r.doc.SetFillColor(zebraFill[0], zebraFill[1], zebraFill[2])
		r.doc.Rect(pdfMargin, b.Y, total, b.H, "F")
		r.doc.SetTextColor(0, 0, 0)
	default:
		r.doc.SetTextColor(0, 0, 0)
	}

	lineH := r.lineHeight()
	x := pdfMargin
	for i, w := range r.widths {
		lines := row[i]
		for k := b.From; k < b.To && k < len(lines); k++ {
			r.doc.SetXY(x+pdfCellPadding, b.Y+pdfCellPadding+float64(k-b.From)*lineH)
			r.doc.CellFormat(w-2*pdfCellPadding, lineH, lines[k], "", 0, "L", false, 0, "")
		}
		x += w
	}
}

// wrap splits each cell to its column width in the given font style.
func (r *pdfRenderer) wrap(cells []string, style string) wrappedRow {
	r.doc.SetFont(r.family, style, pdfBodySize)
	out := make(wrappedRow, len(r.widths))
	for i, w := range r.widths {
		text := ""
		if i < len(cells) {
			text = r.tr(cells[i])
		}
		out[i] = r.split(text, w-2*pdfCellPadding)
	}
	return out
}

// split wraps text with the splitter matching the font encoding: byte based
// for the core font, rune based for a UTF-8 font.
func (r *pdfRenderer) split(text string, w float64) []string {
	var lines []string
	if r.utf8 {
		lines = r.doc.SplitText(text, w)
	} else {
		for _, l := range r.doc.SplitLines([]byte(text), w) {
			lines = append(lines, string(l))
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

func (r *pdfRenderer) lineHeight() float64 {
	_, size := r.doc.GetFontSize()
	return size * pdfLineSpacing
}

// columnWidths shares the printable width in proportion to each column's
// widest text, capped at the printable width, with a floor so narrow columns
// stay legible.
func (r *pdfRenderer) columnWidths(p Prepared) []float64 {
	pageW, _ := r.doc.GetPageSize()
	avail := pageW - 2*pdfMargin

	natural := make([]float64, len(p.Headers))
	r.doc.SetFont(r.family, "B", pdfBodySize)
	for i, h := range p.Headers {
		natural[i] = r.doc.GetStringWidth(r.tr(h))
	}
	r.doc.SetFont(r.family, "", pdfBodySize)
	for _, row := range p.Rows {
		for i := range natural {
			if i < len(row) {
				natural[i] = max(natural[i], r.doc.GetStringWidth(r.tr(row[i])))
			}
		}
	}

	sum := 0.0
	for i := range natural {
		natural[i] = min(max(natural[i]+2*pdfCellPadding, pdfMinColumn), avail)
		sum += natural[i]
	}
	widths := make([]float64, len(natural))
	for i, n := range natural {
		widths[i] = avail * n / sum
	}
	return widths
}
