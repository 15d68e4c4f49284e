package models

import (
	"bytes"
	"encoding/json"
	"iter"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which variant of the JSON union a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the JSON type name of the kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a parsed JSON value. The set of implementations is closed:
// Null, Bool, Number, String, Array and *Object.
// A nil Value is treated as Null.
type Value interface {
	Kind() Kind
	isValue()
}

// Null is the JSON null literal.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// Number is a JSON number, kept as its literal text.
type Number string

// String is a JSON string.
type String string

// Array is a JSON array.
type Array []Value

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (Number) Kind() Kind { return KindNumber }
func (String) Kind() Kind { return KindString }
func (Array) Kind() Kind  { return KindArray }

func (Null) isValue()   {}
func (Bool) isValue()   {}
func (Number) isValue() {}
func (String) isValue() {}
func (Array) isValue()  {}

// Object is a JSON object that remembers the order its keys were first set in.
type Object struct {
	keys   []string
	values map[string]Value
}

// NewObject creates an empty Object
func NewObject() *Object {
	return &Object{
		keys:   []string{},
		values: map[string]Value{},
	}
}

func (*Object) Kind() Kind { return KindObject }
func (*Object) isValue()   {}

// Set assigns value to key. A new key is appended to the key order,
// an existing key keeps its position.
func (o *Object) Set(key string, value Value) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value stored under key
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the keys in insertion order
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of keys
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// All iterates over the members in insertion order
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if o == nil {
			return
		}
		for _, k := range o.keys {
			if !yield(k, o.values[k]) {
				return
			}
		}
	}
}

// FlatRecord maps dot-path keys to leaf values.
type FlatRecord map[string]Value

// LocatedArray is the record array found inside a document together with
// the dot-path it was found under and the flattened sibling fields.
type LocatedArray struct {
	Array   Array
	Path    string
	Context FlatRecord
}

// CsvTable is a header row plus data rows of equal width.
type CsvTable struct {
	Headers []string
	Rows    [][]string
}

// String joins the header row and data rows with "\n", fields with ",".
// Cells are expected to be escaped already.
func (t CsvTable) String() string {
	lines := make([]string, 0, len(t.Rows)+1)
	lines = append(lines, strings.Join(t.Headers, ","))
	for _, row := range t.Rows {
		lines = append(lines, strings.Join(row, ","))
	}
	return strings.Join(lines, "\n")
}

// IsNull reports whether v is nil or Null
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// FormatNumber renders a number literal the way a JavaScript engine prints
// the corresponding double: no trailing ".0", plain decimals for magnitudes
// in [1e-6, 1e21) and exponent notation outside of it.
// Literals that cannot be represented as a float64 are returned as is.
func FormatNumber(n Number) string {
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return string(n)
	}
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	// Go pads the exponent to two digits ("1e-07"), JavaScript does not
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + sign + digits
}

// MarshalJSON implements json.Marshaler
func (n Null) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// MarshalJSON implements json.Marshaler
func (n Number) MarshalJSON() ([]byte, error) { return []byte(FormatNumber(n)), nil }

// MarshalJSON implements json.Marshaler
func (s String) MarshalJSON() ([]byte, error) { return marshalString(string(s)) }

// MarshalJSON implements json.Marshaler
func (a Array) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeValue(&buf, item); err != nil {
			return nil, err
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler, keeping the key order
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	for k, v := range o.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		key, err := marshalString(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := writeValue(&buf, v); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v Value) error {
	if v == nil {
		buf.WriteString("null")
		return nil
	}
	var (
		data []byte
		err  error
	)
	switch val := v.(type) {
	case Null:
		data, err = val.MarshalJSON()
	case Bool:
		data = []byte(strconv.FormatBool(bool(val)))
	case Number:
		data, err = val.MarshalJSON()
	case String:
		data, err = val.MarshalJSON()
	case Array:
		data, err = val.MarshalJSON()
	case *Object:
		data, err = val.MarshalJSON()
	}
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
