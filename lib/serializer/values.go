package serializer

import (
	"errors"
	"fmt"
)

// ErrUnsupportedType is returned when a value can not be represented by a serializer
var ErrUnsupportedType = errors.New("serializer: unsupported value type")

// --------------------------------------------------------------------------
// Value Kinds
// --------------------------------------------------------------------------

// Kind tags the Go type of a stored value at the serializer boundary.
// A value is either a scalar of a kind or a list ([]T) of a kind.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool         // bool / []bool
	KindInt          // int / []int (encoded as 64 bit)
	KindInt32        // int32 / []int32
	KindInt64        // int64 / []int64
	KindUint64       // uint64 / []uint64
	KindFloat32      // float32 / []float32
	KindFloat64      // float64 / []float64
	KindString       // string / []string
	KindBytes        // []byte / [][]byte
)

var kindNames = map[Kind]string{
	KindBool:    "bool",
	KindInt:     "int",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindUint64:  "uint64",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindString:  "string",
	KindBytes:   "bytes",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// ParseKind is the inverse of Kind.String
func ParseKind(s string) (Kind, error) {
	for kind, name := range kindNames {
		if name == s {
			return kind, nil
		}
	}
	return KindInvalid, fmt.Errorf("%w: unknown kind %q", ErrUnsupportedType, s)
}

// --------------------------------------------------------------------------
// Tagged union helpers
// --------------------------------------------------------------------------

// Classify reports the kind of v and whether v is a list of that kind.
func Classify(v any) (kind Kind, list bool, err error) {
	switch v.(type) {
	case bool:
		return KindBool, false, nil
	case []bool:
		return KindBool, true, nil
	case int:
		return KindInt, false, nil
	case []int:
		return KindInt, true, nil
	case int32:
		return KindInt32, false, nil
	case []int32:
		return KindInt32, true, nil
	case int64:
		return KindInt64, false, nil
	case []int64:
		return KindInt64, true, nil
	case uint64:
		return KindUint64, false, nil
	case []uint64:
		return KindUint64, true, nil
	case float32:
		return KindFloat32, false, nil
	case []float32:
		return KindFloat32, true, nil
	case float64:
		return KindFloat64, false, nil
	case []float64:
		return KindFloat64, true, nil
	case string:
		return KindString, false, nil
	case []string:
		return KindString, true, nil
	case []byte:
		return KindBytes, false, nil
	case [][]byte:
		return KindBytes, true, nil
	}
	return KindInvalid, false, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
}

// Elements returns the elements of a list value, or a single element slice for a scalar.
// The value must be classifiable.
func Elements(v any) []any {
	switch t := v.(type) {
	case []bool:
		return box(t)
	case []int:
		return box(t)
	case []int32:
		return box(t)
	case []int64:
		return box(t)
	case []uint64:
		return box(t)
	case []float32:
		return box(t)
	case []float64:
		return box(t)
	case []string:
		return box(t)
	case [][]byte:
		return box(t)
	default:
		return []any{v}
	}
}

// Assemble is the inverse of Elements. Every element must already have the Go type of the kind.
func Assemble(kind Kind, list bool, elems []any) (any, error) {
	switch kind {
	case KindBool:
		return assemble[bool](list, elems)
	case KindInt:
		return assemble[int](list, elems)
	case KindInt32:
		return assemble[int32](list, elems)
	case KindInt64:
		return assemble[int64](list, elems)
	case KindUint64:
		return assemble[uint64](list, elems)
	case KindFloat32:
		return assemble[float32](list, elems)
	case KindFloat64:
		return assemble[float64](list, elems)
	case KindString:
		return assemble[string](list, elems)
	case KindBytes:
		return assemble[[]byte](list, elems)
	default:
		return nil, fmt.Errorf("%w: kind %d", ErrUnsupportedType, kind)
	}
}

func box[T any](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func assemble[T any](list bool, elems []any) (any, error) {
	if !list {
		if len(elems) != 1 {
			return nil, fmt.Errorf("serializer: expected exactly one element for a scalar, got %d", len(elems))
		}
		v, ok := elems[0].(T)
		if !ok {
			return nil, fmt.Errorf("serializer: element has type %T, expected %T", elems[0], v)
		}
		return v, nil
	}

	out := make([]T, len(elems))
	for i, elem := range elems {
		v, ok := elem.(T)
		if !ok {
			return nil, fmt.Errorf("serializer: element %d has type %T, expected %T", i, elem, v)
		}
		out[i] = v
	}
	return out, nil
}

// --------------------------------------------------------------------------
// Nil and empty lists
// --------------------------------------------------------------------------

// normalizeSnapshot replaces nil lists of every kind with empty ones.
// Nil and empty lists are equivalent at the serializer boundary:
// all serializers decode both as empty, non-nil slices.
func normalizeSnapshot(data map[string]any) map[string]any {
	for key, value := range data {
		data[key] = normalize(value)
	}
	return data
}

func normalize(v any) any {
	switch t := v.(type) {
	case []byte:
		if t == nil {
			return []byte{}
		}
	case [][]byte:
		if t == nil {
			return [][]byte{}
		}
		for i, b := range t {
			if b == nil {
				t[i] = []byte{}
			}
		}
	case []bool:
		return orEmpty(t)
	case []int:
		return orEmpty(t)
	case []int32:
		return orEmpty(t)
	case []int64:
		return orEmpty(t)
	case []uint64:
		return orEmpty(t)
	case []float32:
		return orEmpty(t)
	case []float64:
		return orEmpty(t)
	case []string:
		return orEmpty(t)
	}
	return v
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
