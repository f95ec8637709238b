package fraudtab

import (
	"io"

	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/cell"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/models"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/output"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/view"
)

// Cell is a classified and formatted cell ready for display.
type Cell struct {
	Key  string           `json:"key"`
	Kind models.FieldKind `json:"kind"`
	cell.Formatted
}

// Row is a displayed row.
type Row struct {
	ID    int    `json:"id"`
	Cells []Cell `json:"cells"`
}

// Page is one rendered view page.
type Page struct {
	Headers    []string `json:"headers"`
	Labels     []string `json:"labels"`
	Rows       []Row    `json:"rows"`
	TotalRows  int      `json:"total_rows"`
	TotalPages int      `json:"total_pages"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	Count      string   `json:"count"`
	Range      string   `json:"range"`
	Empty      bool     `json:"empty"`
}

// View applies search, sort and pagination to the table.
func (r *Result) View(s view.State) view.Result {
	return view.Apply(r.Table, s)
}

// Present classifies and formats every visible cell of v. Each cell is
// classified by its field name, so a Property/Value row is judged by its property.
func (r *Result) Present(v view.Result, f *cell.Formatter) Page {
	if f == nil {
		f = cell.DefaultFormatter()
	}
	labels := make([]string, len(v.Headers))
	for i, h := range v.Headers {
		labels[i] = cell.HeaderLabel(h)
	}

	rows := make([]Row, len(v.Rows))
	for i, row := range v.Rows {
		cells := make([]Cell, len(row.Cells))
		for j, c := range row.Cells {
			kind := cell.Classify(c.FieldName(), c.Value)
			cells[j] = Cell{Key: c.Key, Kind: kind, Formatted: f.Format(kind, c.FieldName(), c.Value)}
		}
		rows[i] = Row{ID: row.ID, Cells: cells}
	}

	return Page{
		Headers:    v.Headers,
		Labels:     labels,
		Rows:       rows,
		TotalRows:  v.TotalRows,
		TotalPages: v.TotalPages,
		Page:       v.Page.CurrentPage,
		PageSize:   v.Page.PageSize,
		Count:      v.CountText(),
		Range:      v.RangeText(),
		Empty:      r.Empty || v.Empty(),
	}
}

// Export writes the whole original value in format.
func (r *Result) Export(w io.Writer, format output.Format, opts output.Options) error {
	return output.Export(w, r.Raw, format, opts)
}

// ViewValue returns every row matching the query of s, in its sort order,
// as an array of objects. Pagination is ignored.
func (r *Result) ViewValue(s view.State) models.RawValue {
	rows := view.Sort(r.Table, view.Filter(r.Table.Rows, s.Query), s.Sort)
	return output.FromTable(models.Table{Headers: r.Table.Headers, Rows: rows})
}

// ExportView writes ViewValue(s) in format.
func (r *Result) ExportView(w io.Writer, s view.State, format output.Format, opts output.Options) error {
	return output.Export(w, r.ViewValue(s), format, opts)
}

// Subtitle returns the verdict line for reports, or "" without a verdict.
func (r *Result) Subtitle() string {
	if r.Verdict == nil {
		return ""
	}
	return r.Verdict.String()
}
