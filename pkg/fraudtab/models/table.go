package models

// Cell is a single value positioned under a header.
type Cell struct {
	// Key is the header the cell belongs to.
	Key string `json:"key"`
	// Field is the name used to classify the value when it differs from Key,
	// e.g. the property name of a row in a Property/Value table.
	Field string `json:"field,omitempty"`
	// Value is the cell content; it may be a nested array or object.
	Value RawValue `json:"value"`
}

// FieldName returns the name the cell is classified under.
func (c Cell) FieldName() string {
	if c.Field != "" {
		return c.Field
	}
	return c.Key
}

// Row represents one record of a normalized table.
type Row struct {
	// ID is assigned at normalization, starting at 0.
	ID int `json:"id"`
	// Cells are positionally aligned to the table headers.
	Cells []Cell `json:"cells"`
}

// Value returns the value under header position i, or null when out of range.
func (r Row) Value(i int) RawValue {
	if i < 0 || i >= len(r.Cells) {
		return RawValue{}
	}
	return r.Cells[i].Value
}

// Table is the canonical headers/rows projection of a RawValue.
// Every row holds exactly len(Headers) cells.
type Table struct {
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// IsEmpty reports whether the table has no rows.
func (t Table) IsEmpty() bool { return len(t.Rows) == 0 }

// HeaderIndex returns the position of header key, or -1.
func (t Table) HeaderIndex(key string) int {
	for i, h := range t.Headers {
		if h == key {
			return i
		}
	}
	return -1
}
