// Package tree provides the generic semi-structured value that the
// conflict-resolution engine operates on, together with a tolerant
// parser (strict JSON first, relaxed JSON5 second) and canonical
// serialization.
package tree

import (
	"math"
	"sort"
	"strconv"
)

// Kind identifies which variant of a Value is populated.
type Kind uint8

// The closed set of value kinds. Every Value is exactly one of these.
const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// String returns the kind name, for diagnostics.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the six structural kinds. Only the
// field matching Kind is meaningful; the zero Value is null. Values
// are produced fresh by each parse and are never shared.
type Value struct {
	Kind Kind
	Bool bool
	Num  float64
	Str  string
	Arr  []Value
	Obj  map[string]Value
}

// NullValue returns the null value.
func NullValue() Value { return Value{} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{Kind: Bool, Bool: b} }

// NumberValue wraps a number.
func NumberValue(n float64) Value { return Value{Kind: Number, Num: n} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{Kind: String, Str: s} }

// ArrayValue wraps a sequence.
func ArrayValue(items ...Value) Value { return Value{Kind: Array, Arr: items} }

// ObjectValue wraps a mapping. The map is used as-is, not copied.
func ObjectValue(fields map[string]Value) Value { return Value{Kind: Object, Obj: fields} }

// AsString returns the string payload when the value is a string.
func (v Value) AsString() (string, bool) {
	if v.Kind == String {
		return v.Str, true
	}
	return "", false
}

// AsInt returns the numeric payload as an integer when the value is a
// number with no fractional part.
func (v Value) AsInt() (int64, bool) {
	if v.Kind != Number {
		return 0, false
	}
	if v.Num != math.Trunc(v.Num) || math.Abs(v.Num) > 1<<53 {
		return 0, false
	}
	return int64(v.Num), true
}

// SortedKeys returns the object's keys in ascending order. Mapping
// insertion order is irrelevant by contract; every structural
// operation iterates keys in this order for determinism.
func (v Value) SortedKeys() []string {
	keys := make([]string, 0, len(v.Obj))
	for k := range v.Obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatNumber renders a number minimally: integral values carry no
// fractional part or exponent.
func formatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) <= 1<<53 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
