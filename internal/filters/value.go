package filters

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Kind identifies the shape of a filter value.
type Kind uint8

const (
	KindScalar Kind = iota + 1
	KindList
	KindRange
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindRange:
		return "range"
	default:
		return "unknown"
	}
}

// Range operators accepted in a range-map value.
const (
	OpLT  = "<"
	OpLTE = "<="
	OpGT  = ">"
	OpGTE = ">="
)

// ErrInvalidRange reports an object filter value with a key that is not a
// range operator.
var ErrInvalidRange = errors.New("filters: invalid range operator")

// IsRangeOperator reports whether op may key a range-map.
func IsRangeOperator(op string) bool {
	switch op {
	case OpLT, OpLTE, OpGT, OpGTE:
		return true
	}
	return false
}

// checkRange rejects objects keyed by anything other than range operators.
func checkRange(key string, raw any) error {
	bounds, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	for op := range bounds {
		if !IsRangeOperator(op) {
			return fmt.Errorf("%w: %q on %q", ErrInvalidRange, op, key)
		}
	}
	return nil
}

// Value is a single filter entry: a scalar, a list of scalars or a range-map.
// Values are immutable once built.
type Value struct {
	kind   Kind
	scalar any
	list   []any
	bounds map[string]any
}

// Scalar builds a scalar value.
func Scalar(v any) Value {
	return Value{kind: KindScalar, scalar: v}
}

// List builds a list value. The input slice is copied.
func List(values ...any) Value {
	copied := make([]any, len(values))
	copy(copied, values)
	return Value{kind: KindList, list: copied}
}

// Range builds a range-map value. The input map is copied.
func Range(bounds map[string]any) Value {
	copied := make(map[string]any, len(bounds))
	for op, bound := range bounds {
		copied[op] = bound
	}
	return Value{kind: KindRange, bounds: copied}
}

// ValueOf converts a decoded JSON value into a filter Value. Arrays become
// lists and objects become range-maps; everything else is a scalar.
func ValueOf(raw any) Value {
	switch typed := raw.(type) {
	case Value:
		return typed
	case []any:
		return List(typed...)
	case []string:
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = v
		}
		return Value{kind: KindList, list: out}
	case map[string]any:
		return Range(typed)
	default:
		return Scalar(raw)
	}
}

func (v Value) Kind() Kind { return v.kind }

// IsZero reports whether the value was never initialised.
func (v Value) IsZero() bool { return v.kind == 0 }

// ScalarValue returns the scalar payload. ok is false for other kinds.
func (v Value) ScalarValue() (any, bool) {
	if v.kind != KindScalar {
		return nil, false
	}
	return v.scalar, true
}

// Items returns a copy of the list payload.
func (v Value) Items() []any {
	if v.kind != KindList {
		return nil
	}
	out := make([]any, len(v.list))
	copy(out, v.list)
	return out
}

// Bounds returns a copy of the range-map payload.
func (v Value) Bounds() map[string]any {
	if v.kind != KindRange {
		return nil
	}
	out := make(map[string]any, len(v.bounds))
	for op, bound := range v.bounds {
		out[op] = bound
	}
	return out
}

// Interface returns the plain Go representation used for JSON and backend queries.
func (v Value) Interface() any {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindList:
		return v.Items()
	case KindRange:
		return v.Bounds()
	default:
		return nil
	}
}

// Equal compares two values structurally using scalar equality for elements.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindScalar:
		return scalarKey(v.scalar) == scalarKey(other.scalar)
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if scalarKey(v.list[i]) != scalarKey(other.list[i]) {
				return false
			}
		}
		return true
	case KindRange:
		if len(v.bounds) != len(other.bounds) {
			return false
		}
		for op, bound := range v.bounds {
			otherBound, ok := other.bounds[op]
			if !ok || scalarKey(bound) != scalarKey(otherBound) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := decodeJSON(data, &raw); err != nil {
		return err
	}
	*v = ValueOf(raw)
	return nil
}

// scalarKey produces an equality key so 1, 1.0 and json.Number("1") collapse.
func scalarKey(v any) string {
	switch typed := v.(type) {
	case nil:
		return "n:"
	case string:
		return "s:" + typed
	case bool:
		return "b:" + strconv.FormatBool(typed)
	case json.Number:
		if f, err := typed.Float64(); err == nil {
			return "f:" + strconv.FormatFloat(f, 'g', -1, 64)
		}
		return "s:" + typed.String()
	case int:
		return "f:" + strconv.FormatFloat(float64(typed), 'g', -1, 64)
	case int32:
		return "f:" + strconv.FormatFloat(float64(typed), 'g', -1, 64)
	case int64:
		return "f:" + strconv.FormatFloat(float64(typed), 'g', -1, 64)
	case float32:
		return "f:" + strconv.FormatFloat(float64(typed), 'g', -1, 64)
	case float64:
		return "f:" + strconv.FormatFloat(typed, 'g', -1, 64)
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprintf("x:%v", typed)
		}
		return "j:" + string(encoded)
	}
}

// ScalarEqual reports whether two scalars are equal under filter semantics.
func ScalarEqual(a, b any) bool {
	return scalarKey(a) == scalarKey(b)
}
