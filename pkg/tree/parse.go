package tree

import (
	"encoding/json"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"

	"github.com/mmspanish/healer/pkg/errors"
)

// Parse attempts a strict JSON parse of the whole input and, when that
// fails, a relaxed JSON5 parse permitting comments, trailing commas,
// and unquoted keys. It returns an error only when both grammars
// reject the input. A successful parse always covers the entire input;
// there is no partial result.
func Parse(input string) (Value, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Value{}, errors.NewParseError("json", "", "empty input", nil)
	}

	var strict any
	if err := json.Unmarshal([]byte(trimmed), &strict); err == nil {
		return fromAny(strict), nil
	}

	var relaxed any
	if err := json5.Unmarshal([]byte(trimmed), &relaxed); err != nil {
		return Value{}, errors.NewParseError("json5", "", "both strict and relaxed grammars rejected input", err)
	}
	return fromAny(relaxed), nil
}

// fromAny converts the decoded interface tree into a Value. Both
// decoders produce the same shapes: nil, bool, float64, string,
// []any, map[string]any.
func fromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return NullValue()
	case bool:
		return BoolValue(t)
	case float64:
		return NumberValue(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return StringValue(t.String())
		}
		return NumberValue(f)
	case string:
		return StringValue(t)
	case []any:
		items := make([]Value, 0, len(t))
		for _, item := range t {
			items = append(items, fromAny(item))
		}
		return ArrayValue(items...)
	case map[string]any:
		fields := make(map[string]Value, len(t))
		for k, item := range t {
			fields[k] = fromAny(item)
		}
		return ObjectValue(fields)
	default:
		return NullValue()
	}
}
