package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	// Undefined is the zero Kind. It is never produced by the parser; it marks
	// a lookup that found nothing (a missing key or an out of range index).
	Undefined Kind = iota
	Null
	String
	Number
	Bool
	Sequence
	Mapping
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case Undefined:
		return "undefined"
	case Null:
		return "null"
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "bool"
	case Sequence:
		return "sequence"
	case Mapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is a dynamically-typed JSON node. Exactly one of the payload fields
// is meaningful, selected by Kind.
type Value struct {
	Kind Kind

	str    string      // String
	num    json.Number // Number, literal as it appeared in the source
	flag   bool        // Bool
	items  []Value     // Sequence
	fields []Field     // Mapping, insertion order
}

// Field is one key/value entry of a Mapping.
type Field struct {
	Key   string
	Value Value
}

// NullValue returns the JSON null.
func NullValue() Value { return Value{Kind: Null} }

// UndefinedValue returns the value of a missing lookup.
func UndefinedValue() Value { return Value{} }

// StringValue wraps s.
func StringValue(s string) Value { return Value{Kind: String, str: s} }

// NumberValue wraps a JSON number literal.
func NumberValue(n json.Number) Value { return Value{Kind: Number, num: n} }

// IntValue wraps an integer.
func IntValue(i int64) Value { return NumberValue(json.Number(strconv.FormatInt(i, 10))) }

// BoolValue wraps b.
func BoolValue(b bool) Value { return Value{Kind: Bool, flag: b} }

// SequenceValue builds a Sequence holding a copy of items in order.
func SequenceValue(items ...Value) Value {
	return Value{Kind: Sequence, items: append(make([]Value, 0, len(items)), items...)}
}

// MappingValue builds a Mapping from fields. Later duplicates of a key
// replace the earlier value but keep the earlier position.
func MappingValue(fields ...Field) Value {
	out := make([]Field, 0, len(fields))
	pos := make(map[string]int, len(fields))
	for _, f := range fields {
		if i, ok := pos[f.Key]; ok {
			out[i].Value = f.Value
			continue
		}
		pos[f.Key] = len(out)
		out = append(out, f)
	}
	return Value{Kind: Mapping, fields: out}
}

// IsNil reports whether v is null or undefined.
func (v Value) IsNil() bool { return v.Kind == Null || v.Kind == Undefined }

// IsScalar reports whether v is a string, number or boolean.
func (v Value) IsScalar() bool {
	return v.Kind == String || v.Kind == Number || v.Kind == Bool
}

// Str returns the string payload.
func (v Value) Str() string { return v.str }

// Num returns the number literal.
func (v Value) Num() json.Number { return v.num }

// Bool returns the boolean payload.
func (v Value) Bool() bool { return v.flag }

// Items returns the elements of a Sequence. The slice must not be modified.
func (v Value) Items() []Value { return v.items }

// Fields returns the entries of a Mapping in insertion order. The slice must
// not be modified.
func (v Value) Fields() []Field { return v.fields }

// Keys returns the mapping keys in insertion order.
func (v Value) Keys() []string {
	keys := make([]string, len(v.fields))
	for i, f := range v.fields {
		keys[i] = f.Key
	}
	return keys
}

// Len is the number of elements of a Sequence or entries of a Mapping, and
// zero for everything else.
func (v Value) Len() int {
	switch v.Kind {
	case Sequence:
		return len(v.items)
	case Mapping:
		return len(v.fields)
	default:
		return 0
	}
}

// Get looks key up in a Mapping. The second result is false when v is not a
// mapping or has no such key, in which case the Value is Undefined.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != Mapping {
		return Value{}, false
	}
	for _, f := range v.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Field is Get without the presence flag.
func (v Value) Field(key string) Value {
	got, _ := v.Get(key)
	return got
}

// Index returns element i of a Sequence, or Undefined.
func (v Value) Index(i int) Value {
	if v.Kind != Sequence || i < 0 || i >= len(v.items) {
		return Value{}
	}
	return v.items[i]
}

// Text is the canonical textual form of v: strings verbatim, numbers and
// booleans in their standard representation, and the literal tokens "null"
// and "undefined". Containers have no text form and return "".
func (v Value) Text() string {
	switch v.Kind {
	case Undefined:
		return "undefined"
	case Null:
		return "null"
	case String:
		return v.str
	case Number:
		return canonicalNumber(v.num)
	case Bool:
		return strconv.FormatBool(v.flag)
	default:
		return ""
	}
}

// canonicalNumber normalises a number literal. Integer literals are kept as
// written so large ids are not rounded; everything else goes through float64
// and is printed in the shortest form that round-trips.
func canonicalNumber(n json.Number) string {
	lit := string(n)
	if isIntegerLiteral(lit) {
		if lit == "-0" {
			return "0"
		}
		return lit
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return lit
	}
	if f == 0 {
		return "0"
	}
	abs := f
	if abs < 0 {
		abs = -abs
	}
	if abs < 1e-6 || abs >= 1e21 {
		// Exponents are written without zero padding: 1e-7, not 1e-07.
		s := strconv.FormatFloat(f, 'g', -1, 64)
		s = strings.Replace(s, "e-0", "e-", 1)
		return strings.Replace(s, "e+0", "e+", 1)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func isIntegerLiteral(lit string) bool {
	if lit == "" {
		return false
	}
	for i, r := range lit {
		if r == '-' && i == 0 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Equal reports whether a and b have the same shape and the same scalars.
// Numbers compare by canonical text, mapping entries by position.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case String:
		return a.str == b.str
	case Number:
		return canonicalNumber(a.num) == canonicalNumber(b.num)
	case Bool:
		return a.flag == b.flag
	case Sequence:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case Mapping:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for i := range a.fields {
			if a.fields[i].Key != b.fields[i].Key || !Equal(a.fields[i].Value, b.fields[i].Value) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// MarshalJSON encodes v as compact JSON with mapping keys in insertion order
// and numbers in canonical form. Undefined encodes as null. Strings are not
// HTML-escaped here, but json.Marshal on a Value re-compacts this output and
// escapes "<", ">" and "&" again; call MarshalJSON or Indent directly to keep
// them.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.Kind {
	case Undefined, Null:
		buf.WriteString("null")
	case String:
		if err := encodeString(buf, v.str); err != nil {
			return err
		}
	case Number:
		buf.WriteString(canonicalNumber(v.num))
	case Bool:
		buf.WriteString(strconv.FormatBool(v.flag))
	case Sequence:
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
	case Mapping:
		buf.WriteByte('{')
		for i, f := range v.fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeString(buf, f.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := f.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// encodeString writes s as a JSON string literal without HTML escaping, so
// the raw view shows "<" rather than "\u003c". This only holds for callers of
// MarshalJSON and Indent; json.Marshal escapes the result again.
func encodeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

// Indent returns v as JSON indented by two spaces per level, the layout of
// the raw data view.
func (v Value) Indent() (string, error) {
	compact, err := v.MarshalJSON()
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return "", err
	}
	return out.String(), nil
}
