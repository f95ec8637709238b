package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// ErrTrailingData indicates that more than one JSON value was supplied.
var ErrTrailingData = errors.New("unexpected data after top-level JSON value")

// ParseJSON decodes a single JSON document into a RawValue,
// keeping object members in document order.
func ParseJSON(data []byte) (RawValue, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads a single JSON document from r.
func Decode(r io.Reader) (RawValue, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return RawValue{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return RawValue{}, err
		}
		return RawValue{}, ErrTrailingData
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (RawValue, error) {
	tok, err := dec.Token()
	if err != nil {
		return RawValue{}, err
	}

	switch t := tok.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		return NewBool(t), nil
	case json.Number:
		return NewNumberText(t.String())
	case string:
		return NewString(t), nil
	case json.Delim:
		switch t {
		case '[':
			var items []RawValue
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return RawValue{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return RawValue{}, err
			}
			return NewArray(items...), nil
		case '{':
			var members []Member
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return RawValue{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return RawValue{}, fmt.Errorf("invalid object key %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return RawValue{}, err
				}
				members = append(members, Member{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil {
				return RawValue{}, err
			}
			return NewObject(members...), nil
		}
	}
	return RawValue{}, fmt.Errorf("unexpected JSON token %v", tok)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *RawValue) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalJSON implements json.Marshaler. Object members are written in insertion order.
func (v RawValue) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v RawValue) encode(buf *bytes.Buffer) error {
	switch v.typ {
	case TypeNull:
		buf.WriteString("null")
	case TypeBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case TypeNumber:
		switch {
		case v.lit != "":
			buf.WriteString(v.lit)
		case math.IsNaN(v.num) || math.IsInf(v.num, 0):
			buf.WriteString("null")
		default:
			buf.WriteString(FormatNumber(v.num))
		}
	case TypeString:
		return encodeString(buf, v.str)
	case TypeArray:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case TypeObject:
		buf.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeString(buf, m.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates each value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// Indent returns v serialized as JSON with two-space indentation.
func (v RawValue) Indent() ([]byte, error) {
	compact, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
