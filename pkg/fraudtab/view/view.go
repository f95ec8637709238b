// Package view derives filtered, sorted and paginated views of a normalized table.
//
// A State is an immutable value: every transition returns a new State and
// Apply never mutates the table it reads.
package view

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultPageSize is used when a window has no positive page size.
const DefaultPageSize = 10

// Direction is the sort order of a column.
type Direction string

const (
	None       Direction = ""
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection accepts asc, desc or an empty string.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return None, fmt.Errorf("invalid sort direction %q", s)
}

// SortSpec names the sorted column and its direction.
type SortSpec struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// Active reports whether the spec sorts anything.
func (s SortSpec) Active() bool { return s.Key != "" && s.Direction != None }

// Window selects one page of rows.
type Window struct {
	PageSize    int `json:"page_size"`
	CurrentPage int `json:"current_page"`
}

// State is the complete input of a view: search query, sort and page.
type State struct {
	Query string   `json:"query"`
	Sort  SortSpec `json:"sort"`
	Page  Window   `json:"page"`
}

// NewState returns an unsorted, unfiltered state on page 1.
func NewState(pageSize int) State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return State{Page: Window{PageSize: pageSize, CurrentPage: 1}}
}

// WithQuery sets the search query and returns to page 1.
func (s State) WithQuery(q string) State {
	s.Query = q
	s.Page.CurrentPage = 1
	return s
}

// ToggleSort cycles key through ascending, descending and unsorted.
// Switching to a different column always starts at ascending.
func (s State) ToggleSort(key string) State {
	if s.Sort.Key == key {
		switch s.Sort.Direction {
		case Ascending:
			s.Sort = SortSpec{Key: key, Direction: Descending}
			return s
		case Descending:
			s.Sort = SortSpec{}
			return s
		}
	}
	s.Sort = SortSpec{Key: key, Direction: Ascending}
	return s
}

// WithSort replaces the sort spec.
func (s State) WithSort(spec SortSpec) State {
	if !spec.Active() {
		spec = SortSpec{}
	}
	s.Sort = spec
	return s
}

// WithPage moves to page n. Out-of-range pages are clamped by Apply.
func (s State) WithPage(n int) State {
	s.Page.CurrentPage = n
	return s
}

// WithPageSize changes the page size and returns to page 1.
func (s State) WithPageSize(n int) State {
	s.Page.PageSize = n
	s.Page.CurrentPage = 1
	return s
}

// NextPage advances one page without passing totalPages.
func (s State) NextPage(totalPages int) State {
	s.Page.CurrentPage = clampPage(s.Page.CurrentPage+1, totalPages)
	return s
}

// PrevPage goes back one page, stopping at page 1.
func (s State) PrevPage() State {
	s.Page.CurrentPage = max(1, s.Page.CurrentPage-1)
	return s
}

// Result is one page of a filtered and sorted table.
type Result struct {
	Headers []string     `json:"headers"`
	Rows    []models.Row `json:"rows"`
	// TotalRows counts rows that passed the filter.
	TotalRows  int    `json:"total_rows"`
	TotalPages int    `json:"total_pages"`
	Page       Window `json:"page"`
	// Start and End are the 1-based positions of the first and last row shown.
	Start int `json:"start"`
	End   int `json:"end"`
}

// Empty reports whether no row passed the filter.
func (r Result) Empty() bool { return r.TotalRows == 0 }

// CountText describes the number of matching rows.
func (r Result) CountText() string {
	if r.TotalRows == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", r.TotalRows)
}

// RangeText describes the visible page, e.g. "Page 2 of 3 (11-20 of 25)".
func (r Result) RangeText() string {
	return fmt.Sprintf("Page %d of %d (%d-%d of %d)",
		r.Page.CurrentPage, max(1, r.TotalPages), r.Start, r.End, r.TotalRows)
}

// Apply filters by query, sorts by the sort spec, then slices out the page,
// strictly in that order.
func Apply(t models.Table, s State) Result {
	rows := Filter(t.Rows, s.Query)
	rows = Sort(t, rows, s.Sort)

	size := s.Page.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(rows)
	totalPages := (total + size - 1) / size
	page := clampPage(s.Page.CurrentPage, totalPages)

	start := min((page-1)*size, total)
	end := min(start+size, total)

	res := Result{
		Headers:    t.Headers,
		Rows:       rows[start:end],
		TotalRows:  total,
		TotalPages: totalPages,
		Page:       Window{PageSize: size, CurrentPage: page},
	}
	if end > start {
		res.Start, res.End = start+1, end
	}
	return res
}

// Filter keeps rows where any cell's text contains query, ignoring case.
// The result never aliases rows.
func Filter(rows []models.Row, query string) []models.Row {
	out := make([]models.Row, 0, len(rows))
	if query == "" {
		return append(out, rows...)
	}
	q := strings.ToLower(query)
	for _, row := range rows {
		for _, c := range row.Cells {
			if strings.Contains(strings.ToLower(SearchText(c.Value)), q) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// SearchText is the text a cell is searched by; null searches as empty.
func SearchText(v models.RawValue) string {
	if v.IsNull() {
		return ""
	}
	return v.String()
}

// Sort orders rows in place by the column named in spec and returns them.
// Numbers compare numerically, everything else by English collation.
// The sort is stable, so ties keep their filtered order.
func Sort(t models.Table, rows []models.Row, spec SortSpec) []models.Row {
	if !spec.Active() {
		return rows
	}
	col := t.HeaderIndex(spec.Key)
	if col < 0 {
		return rows
	}

	coll := collate.New(language.English)
	slices.SortStableFunc(rows, func(a, b models.Row) int {
		c := compareValues(coll, a.Value(col), b.Value(col))
		if spec.Direction == Descending {
			return -c
		}
		return c
	})
	return rows
}

func compareValues(coll *collate.Collator, a, b models.RawValue) int {
	an, aok := a.AsNumber()
	bn, bok := b.AsNumber()
	if aok && bok {
		return cmp.Compare(an, bn)
	}
	return coll.CompareString(a.String(), b.String())
}

func clampPage(page, totalPages int) int {
	return min(max(1, page), max(1, totalPages))
}
