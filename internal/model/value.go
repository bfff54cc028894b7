package model

import (
	"encoding/json"
	"strconv"
)

// ValueKind identifies which variant a Value holds.
type ValueKind int

const (
	// KindNull marks a missing or not-computed value.
	KindNull ValueKind = iota
	// KindNumber marks a numeric metric.
	KindNumber
	// KindString marks a text field.
	KindString
)

// Value is a single cell of a result row: a number, a string, or null.
// The zero Value is null.
type Value struct {
	str  string
	num  float64
	kind ValueKind
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// Number wraps a numeric metric.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// String wraps a text field.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Kind returns the variant held by v.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsNull reports whether v carries no data.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Float returns the numeric value and whether v is a number.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Text returns the display form of v. Null renders as the empty string.
func (v Value) Text() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindString:
		return v.str
	default:
		return ""
	}
}

// Equal reports whether two values hold the same variant and content.
func (v Value) Equal(other Value) bool {
	return v == other
}

// MarshalJSON encodes v as a JSON number, string, or null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindString:
		return json.Marshal(v.str)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a JSON scalar into v. Booleans and composite values
// are kept as their raw text so a malformed cell never fails a whole result.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = Null()
	case float64:
		*v = Number(x)
	case string:
		*v = String(x)
	default:
		*v = String(string(data))
	}
	return nil
}
