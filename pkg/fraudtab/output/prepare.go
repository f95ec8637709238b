package output

import (
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/models"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/parser"
)

// Prepared is the string grid shared by the tabular export formats.
type Prepared struct {
	Headers []string
	Rows    [][]string
}

// IsEmpty reports whether there is nothing to write, not even a header.
func (p Prepared) IsEmpty() bool { return len(p.Headers) == 0 }

// Prepare flattens raw into a string grid. Unlike parser.Normalize it keeps
// nested values as compact JSON text so no data is summarized away:
//   - array whose first element is an object: headers from that element's keys
//   - other arrays: a single Value column
//   - object: Property/Value over its members
//   - anything else: a single Result cell
//
// Null and empty arrays give an empty grid.
func Prepare(raw models.RawValue) Prepared {
	switch raw.Type() {
	case models.TypeNull:
		return Prepared{}
	case models.TypeArray:
		if raw.Len() == 0 {
			return Prepared{}
		}
		if raw.Item(0).IsObject() {
			return prepareObjectArray(raw)
		}
		rows := make([][]string, raw.Len())
		for i, item := range raw.Items() {
			rows[i] = []string{item.String()}
		}
		return Prepared{Headers: []string{parser.HeaderValue}, Rows: rows}
	case models.TypeObject:
		members := raw.Members()
		rows := make([][]string, len(members))
		for i, m := range members {
			rows[i] = []string{m.Key, m.Value.String()}
		}
		return Prepared{Headers: []string{parser.HeaderProperty, parser.HeaderValue}, Rows: rows}
	}
	return Prepared{
		Headers: []string{parser.HeaderResult},
		Rows:    [][]string{{raw.String()}},
	}
}

// prepareObjectArray leaves missing and null fields blank.
func prepareObjectArray(raw models.RawValue) Prepared {
	headers := raw.Item(0).Keys()
	rows := make([][]string, raw.Len())
	for i, item := range raw.Items() {
		row := make([]string, len(headers))
		for j, h := range headers {
			if v, ok := item.Get(h); ok && !v.IsNull() {
				row[j] = v.String()
			}
		}
		rows[i] = row
	}
	return Prepared{Headers: headers, Rows: rows}
}

// FromTable rebuilds an array of objects keyed by the table headers, so a
// filtered or sorted view can be exported in its current row order.
func FromTable(t models.Table) models.RawValue {
	items := make([]models.RawValue, len(t.Rows))
	for i, row := range t.Rows {
		members := make([]models.Member, len(t.Headers))
		for j, h := range t.Headers {
			members[j] = models.Member{Key: h, Value: row.Value(j)}
		}
		items[i] = models.NewObject(members...)
	}
	return models.NewArray(items...)
}
