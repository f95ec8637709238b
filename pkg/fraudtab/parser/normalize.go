// Package parser turns raw analysis results into normalized tables.
package parser

import (
	"strconv"

	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/models"
)

// Fixed headers of the generic projections.
const (
	HeaderIndex    = "Index"
	HeaderValue    = "Value"
	HeaderProperty = "Property"
	HeaderResult   = "Result"
)

// Normalize projects raw onto a table with no prior schema.
// ok is false for the empty state (null or an empty array); that is not an error.
//
// Rules are tried in a fixed order and the first match wins:
//  1. null or empty array: empty state
//  2. array whose first element is an object: headers from that object's keys
//  3. any other array: Index/Value
//  4. object with no nested object or array of objects: Property/Value
//  5. object holding an array of objects: that collection, prefixed by its key
//  6. anything else: a single Result cell
func Normalize(raw models.RawValue) (models.Table, bool) {
	switch raw.Type() {
	case models.TypeNull:
		return models.Table{}, false
	case models.TypeArray:
		if raw.Len() == 0 {
			return models.Table{}, false
		}
		if raw.Item(0).IsObject() {
			return fromObjectArray(raw), true
		}
		return fromScalarArray(raw), true
	case models.TypeObject:
		if isFlatObject(raw) {
			return fromFlatObject(raw), true
		}
		if key, arr, found := firstObjectArray(raw); found {
			return fromNestedCollection(key, arr), true
		}
		return singleResult(raw), true
	case models.TypeBool, models.TypeNumber, models.TypeString:
		return singleResult(raw), true
	}
	return singleResult(raw), true
}

// fromObjectArray reads every element by the keys of the first one.
// Missing keys and non-object elements yield null cells.
func fromObjectArray(raw models.RawValue) models.Table {
	headers := raw.Item(0).Keys()
	rows := make([]models.Row, raw.Len())
	for i, item := range raw.Items() {
		cells := make([]models.Cell, len(headers))
		for j, h := range headers {
			v, _ := item.Get(h)
			cells[j] = models.Cell{Key: h, Value: v}
		}
		rows[i] = models.Row{ID: i, Cells: cells}
	}
	return models.Table{Headers: headers, Rows: rows}
}

func fromScalarArray(raw models.RawValue) models.Table {
	rows := make([]models.Row, raw.Len())
	for i, item := range raw.Items() {
		rows[i] = models.Row{
			ID: i,
			Cells: []models.Cell{
				{Key: HeaderIndex, Value: models.NewNumber(float64(i))},
				{Key: HeaderValue, Value: item},
			},
		}
	}
	return models.Table{Headers: []string{HeaderIndex, HeaderValue}, Rows: rows}
}

// isFlatObject reports whether raw holds no mapping at any level: no member
// is an object or an array of objects. Arrays of scalars are allowed and end
// up summarized in the Value column.
func isFlatObject(raw models.RawValue) bool {
	for _, m := range raw.Members() {
		if m.Value.IsObject() || isObjectArray(m.Value) {
			return false
		}
	}
	return true
}

// isObjectArray reports whether v is a non-empty array whose first element
// is an object.
func isObjectArray(v models.RawValue) bool {
	return v.IsArray() && v.Len() > 0 && v.Item(0).IsObject()
}

// fromFlatObject keeps the property name as the classification field of
// the value cell, so "total_in" is judged by its own name, not by "Value".
func fromFlatObject(raw models.RawValue) models.Table {
	members := raw.Members()
	rows := make([]models.Row, len(members))
	for i, m := range members {
		rows[i] = models.Row{
			ID: i,
			Cells: []models.Cell{
				{Key: HeaderProperty, Value: models.NewString(m.Key)},
				{Key: HeaderValue, Field: m.Key, Value: m.Value},
			},
		}
	}
	return models.Table{Headers: []string{HeaderProperty, HeaderValue}, Rows: rows}
}

// firstObjectArray returns the first member, in insertion order, holding a
// non-empty array whose first element is an object. Later siblings are ignored.
func firstObjectArray(raw models.RawValue) (string, models.RawValue, bool) {
	for _, m := range raw.Members() {
		if isObjectArray(m.Value) {
			return m.Key, m.Value, true
		}
	}
	return "", models.RawValue{}, false
}

func fromNestedCollection(key string, arr models.RawValue) models.Table {
	fields := arr.Item(0).Keys()

	seen := map[string]bool{key: true}
	headers := make([]string, 0, len(fields)+1)
	headers = append(headers, key)
	for _, f := range fields {
		headers = append(headers, uniqueHeader(f, seen))
	}

	rows := make([]models.Row, arr.Len())
	for i, item := range arr.Items() {
		cells := make([]models.Cell, 0, len(headers))
		cells = append(cells, models.Cell{Key: key, Value: models.NewString(key)})
		for j, f := range fields {
			v, _ := item.Get(f)
			cell := models.Cell{Key: headers[j+1], Value: v}
			if headers[j+1] != f {
				cell.Field = f
			}
			cells = append(cells, cell)
		}
		rows[i] = models.Row{ID: i, Cells: cells}
	}
	return models.Table{Headers: headers, Rows: rows}
}

// uniqueHeader suffixes name with _2, _3, ... until it is unused.
func uniqueHeader(name string, seen map[string]bool) string {
	candidate := name
	for n := 2; seen[candidate]; n++ {
		candidate = name + "_" + strconv.Itoa(n)
	}
	seen[candidate] = true
	return candidate
}

func singleResult(raw models.RawValue) models.Table {
	return models.Table{
		Headers: []string{HeaderResult},
		Rows: []models.Row{{
			ID:    0,
			Cells: []models.Cell{{Key: HeaderResult, Value: models.NewString(raw.String())}},
		}},
	}
}
