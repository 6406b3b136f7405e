package tree

import (
	"bytes"
	"encoding/json"
	"strings"
)

// EncodePretty serializes a value in the canonical pretty form: two
// space indentation, object keys in ascending order, minimal number
// rendering. The same input always yields the same bytes.
func EncodePretty(v Value) string {
	var b strings.Builder
	encode(&b, v, "", "  ", true)
	return b.String()
}

// EncodeCompact serializes a value on one line with no whitespace.
// Used for array dedup keys and for rendering discarded values in
// merge notes.
func EncodeCompact(v Value) string {
	var b strings.Builder
	encode(&b, v, "", "", false)
	return b.String()
}

func encode(b *strings.Builder, v Value, indent, step string, pretty bool) {
	switch v.Kind {
	case Null:
		b.WriteString("null")
	case Bool:
		if v.Bool {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case Number:
		b.WriteString(formatNumber(v.Num))
	case String:
		b.WriteString(quote(v.Str))
	case Array:
		if len(v.Arr) == 0 {
			b.WriteString("[]")
			return
		}
		b.WriteByte('[')
		inner := indent + step
		for i, item := range v.Arr {
			if i > 0 {
				b.WriteByte(',')
			}
			if pretty {
				b.WriteByte('\n')
				b.WriteString(inner)
			}
			encode(b, item, inner, step, pretty)
		}
		if pretty {
			b.WriteByte('\n')
			b.WriteString(indent)
		}
		b.WriteByte(']')
	case Object:
		if len(v.Obj) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteByte('{')
		inner := indent + step
		for i, key := range v.SortedKeys() {
			if i > 0 {
				b.WriteByte(',')
			}
			if pretty {
				b.WriteByte('\n')
				b.WriteString(inner)
			}
			b.WriteString(quote(key))
			b.WriteByte(':')
			if pretty {
				b.WriteByte(' ')
			}
			encode(b, v.Obj[key], inner, step, pretty)
		}
		if pretty {
			b.WriteByte('\n')
			b.WriteString(indent)
		}
		b.WriteByte('}')
	}
}

// quote renders a string as a JSON string literal. HTML escaping is
// off so note text like "field => value" survives verbatim.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		// encoding a string cannot fail
		return `""`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
