// Package models defines data structures for schema-less tabulation.
package models

import (
	"math"
	"strconv"
)

// Type identifies the variant held by a RawValue.
type Type uint8

const (
	// TypeNull is the JSON null (and the zero RawValue).
	TypeNull Type = iota
	// TypeBool is a JSON boolean.
	TypeBool
	// TypeNumber is a JSON number.
	TypeNumber
	// TypeString is a JSON string.
	TypeString
	// TypeArray is an ordered sequence of values.
	TypeArray
	// TypeObject is a mapping from unique keys to values in insertion order.
	TypeObject
)

func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBool:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	}
	return "unknown"
}

// Member is a single key/value pair of an object.
type Member struct {
	Key   string
	Value RawValue
}

// RawValue is an immutable JSON-shaped value of unknown shape.
// The zero value is null.
type RawValue struct {
	typ     Type
	b       bool
	num     float64
	lit     string // number literal as decoded, empty when built from a float
	str     string
	items   []RawValue
	members []Member
	index   map[string]int
}

// NewNull returns the null value.
func NewNull() RawValue { return RawValue{} }

// NewBool returns a boolean value.
func NewBool(b bool) RawValue { return RawValue{typ: TypeBool, b: b} }

// NewNumber returns a numeric value.
func NewNumber(f float64) RawValue { return RawValue{typ: TypeNumber, num: f} }

// NewNumberText returns a numeric value parsed from a JSON number literal.
// The literal is kept so that re-serialization reproduces it exactly.
func NewNumberText(lit string) (RawValue, error) {
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return RawValue{}, err
	}
	return RawValue{typ: TypeNumber, num: f, lit: lit}, nil
}

// NewString returns a string value.
func NewString(s string) RawValue { return RawValue{typ: TypeString, str: s} }

// NewArray returns a sequence holding items in order.
func NewArray(items ...RawValue) RawValue {
	cp := make([]RawValue, len(items))
	copy(cp, items)
	return RawValue{typ: TypeArray, items: cp}
}

// NewObject returns a mapping holding members in insertion order.
// A repeated key keeps the position of its first occurrence and the value of its last.
func NewObject(members ...Member) RawValue {
	v := RawValue{
		typ:     TypeObject,
		members: make([]Member, 0, len(members)),
		index:   make(map[string]int, len(members)),
	}
	for _, m := range members {
		if i, ok := v.index[m.Key]; ok {
			v.members[i].Value = m.Value
			continue
		}
		v.index[m.Key] = len(v.members)
		v.members = append(v.members, m)
	}
	return v
}

// Type returns the variant held by v.
func (v RawValue) Type() Type { return v.typ }

// IsNull reports whether v is null.
func (v RawValue) IsNull() bool { return v.typ == TypeNull }

// IsScalar reports whether v is null, a boolean, a number or a string.
func (v RawValue) IsScalar() bool { return v.typ != TypeArray && v.typ != TypeObject }

// IsArray reports whether v is a sequence.
func (v RawValue) IsArray() bool { return v.typ == TypeArray }

// IsObject reports whether v is a mapping.
func (v RawValue) IsObject() bool { return v.typ == TypeObject }

// AsBool returns the boolean held by v.
func (v RawValue) AsBool() (bool, bool) { return v.b, v.typ == TypeBool }

// AsNumber returns the number held by v.
func (v RawValue) AsNumber() (float64, bool) { return v.num, v.typ == TypeNumber }

// AsString returns the string held by v.
func (v RawValue) AsString() (string, bool) { return v.str, v.typ == TypeString }

// Len returns the number of items of an array or members of an object, 0 otherwise.
func (v RawValue) Len() int {
	switch v.typ {
	case TypeArray:
		return len(v.items)
	case TypeObject:
		return len(v.members)
	}
	return 0
}

// Item returns the i-th element of an array, or null when out of range.
func (v RawValue) Item(i int) RawValue {
	if v.typ != TypeArray || i < 0 || i >= len(v.items) {
		return RawValue{}
	}
	return v.items[i]
}

// Items returns a copy of the elements of an array.
func (v RawValue) Items() []RawValue {
	if v.typ != TypeArray {
		return nil
	}
	cp := make([]RawValue, len(v.items))
	copy(cp, v.items)
	return cp
}

// Members returns a copy of the members of an object in insertion order.
func (v RawValue) Members() []Member {
	if v.typ != TypeObject {
		return nil
	}
	cp := make([]Member, len(v.members))
	copy(cp, v.members)
	return cp
}

// Keys returns the keys of an object in insertion order.
func (v RawValue) Keys() []string {
	if v.typ != TypeObject {
		return nil
	}
	keys := make([]string, len(v.members))
	for i, m := range v.members {
		keys[i] = m.Key
	}
	return keys
}

// Get returns the value stored under key in an object.
func (v RawValue) Get(key string) (RawValue, bool) {
	if v.typ != TypeObject {
		return RawValue{}, false
	}
	i, ok := v.index[key]
	if !ok {
		return RawValue{}, false
	}
	return v.members[i].Value, true
}

// String returns the plain text form of v. Strings are returned verbatim,
// arrays and objects as compact JSON.
func (v RawValue) String() string {
	switch v.typ {
	case TypeNull:
		return "null"
	case TypeBool:
		return strconv.FormatBool(v.b)
	case TypeNumber:
		return FormatNumber(v.num)
	case TypeString:
		return v.str
	}
	b, err := v.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(b)
}

// FormatNumber renders f the way a JSON number is shown as text:
// shortest round-trip digits, exponent form only for very large or small magnitudes.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Equal reports whether v and o hold the same JSON value.
// Numbers compare by value and object members compare regardless of order.
func (v RawValue) Equal(o RawValue) bool {
	if v.typ != o.typ {
		return false
	}
	switch v.typ {
	case TypeNull:
		return true
	case TypeBool:
		return v.b == o.b
	case TypeNumber:
		return v.num == o.num
	case TypeString:
		return v.str == o.str
	case TypeArray:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case TypeObject:
		if len(v.members) != len(o.members) {
			return false
		}
		for _, m := range v.members {
			ov, ok := o.Get(m.Key)
			if !ok || !m.Value.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}
