package serializer

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// NewProtobufSerializer creates a new serializer writing the protobuf wire format.
// The messages are encoded by hand, equivalent to this schema:
//
//	message Snapshot { map<string, Value> entries = 1; }
//	message Value    { Scalar single = 1; repeated Scalar multi = 2; uint32 kind = 3; }
//	message Scalar   { oneof v { double f64 = 1; float f32 = 2; int32 i32 = 3; int64 i64 = 4;
//	                             bool b = 5; string s = 6; bytes raw = 7; uint64 u64 = 8; } }
//
// A Value is a list exactly when it has no single field. KindInt travels as int64,
// the kind field restores the Go type on decode.
func NewProtobufSerializer() ISerializer {
	return &protobufSerializerImpl{}
}

// protobufSerializerImpl implements ISerializer using the protobuf wire format
type protobufSerializerImpl struct {
}

// Field numbers
const (
	pbSnapshotEntries protowire.Number = 1

	pbMapKey   protowire.Number = 1
	pbMapValue protowire.Number = 2

	pbValueSingle protowire.Number = 1
	pbValueMulti  protowire.Number = 2
	pbValueKind   protowire.Number = 3

	pbScalarDouble protowire.Number = 1
	pbScalarFloat  protowire.Number = 2
	pbScalarInt32  protowire.Number = 3
	pbScalarInt64  protowire.Number = 4
	pbScalarBool   protowire.Number = 5
	pbScalarString protowire.Number = 6
	pbScalarBytes  protowire.Number = 7
	pbScalarUint64 protowire.Number = 8
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (p protobufSerializerImpl) Serialize(data map[string]any) ([]byte, error) {
	var out []byte
	for key, value := range data {
		kind, list, err := Classify(value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}

		var valueMsg []byte
		elems := Elements(value)
		if list {
			for _, elem := range elems {
				valueMsg = protowire.AppendTag(valueMsg, pbValueMulti, protowire.BytesType)
				valueMsg = protowire.AppendBytes(valueMsg, appendScalar(nil, kind, elem))
			}
		} else {
			valueMsg = protowire.AppendTag(valueMsg, pbValueSingle, protowire.BytesType)
			valueMsg = protowire.AppendBytes(valueMsg, appendScalar(nil, kind, elems[0]))
		}
		valueMsg = protowire.AppendTag(valueMsg, pbValueKind, protowire.VarintType)
		valueMsg = protowire.AppendVarint(valueMsg, uint64(kind))

		var entry []byte
		entry = protowire.AppendTag(entry, pbMapKey, protowire.BytesType)
		entry = protowire.AppendString(entry, key)
		entry = protowire.AppendTag(entry, pbMapValue, protowire.BytesType)
		entry = protowire.AppendBytes(entry, valueMsg)

		out = protowire.AppendTag(out, pbSnapshotEntries, protowire.BytesType)
		out = protowire.AppendBytes(out, entry)
	}
	if out == nil {
		out = []byte{}
	}
	return out, nil
}

func (p protobufSerializerImpl) Deserialize(b []byte) (map[string]any, error) {
	result := map[string]any{}
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, field []byte) error {
		if num != pbSnapshotEntries || typ != protowire.BytesType {
			return nil // unknown fields are skipped
		}
		key, value, err := decodeMapEntry(field)
		if err != nil {
			return err
		}
		result[key] = value
		return nil
	})
	if err != nil {
		return nil, err
	}
	return normalizeSnapshot(result), nil
}

// --------------------------------------------------------------------------
// Encoding helper
// --------------------------------------------------------------------------

// appendScalar appends the content of a Scalar message holding elem
func appendScalar(b []byte, kind Kind, elem any) []byte {
	switch kind {
	case KindFloat64:
		b = protowire.AppendTag(b, pbScalarDouble, protowire.Fixed64Type)
		return protowire.AppendFixed64(b, math.Float64bits(elem.(float64)))
	case KindFloat32:
		b = protowire.AppendTag(b, pbScalarFloat, protowire.Fixed32Type)
		return protowire.AppendFixed32(b, math.Float32bits(elem.(float32)))
	case KindInt32:
		b = protowire.AppendTag(b, pbScalarInt32, protowire.VarintType)
		return protowire.AppendVarint(b, uint64(int64(elem.(int32))))
	case KindInt64:
		b = protowire.AppendTag(b, pbScalarInt64, protowire.VarintType)
		return protowire.AppendVarint(b, uint64(elem.(int64)))
	case KindInt:
		b = protowire.AppendTag(b, pbScalarInt64, protowire.VarintType)
		return protowire.AppendVarint(b, uint64(int64(elem.(int))))
	case KindBool:
		b = protowire.AppendTag(b, pbScalarBool, protowire.VarintType)
		return protowire.AppendVarint(b, protowire.EncodeBool(elem.(bool)))
	case KindString:
		b = protowire.AppendTag(b, pbScalarString, protowire.BytesType)
		return protowire.AppendString(b, elem.(string))
	case KindBytes:
		b = protowire.AppendTag(b, pbScalarBytes, protowire.BytesType)
		return protowire.AppendBytes(b, elem.([]byte))
	case KindUint64:
		b = protowire.AppendTag(b, pbScalarUint64, protowire.VarintType)
		return protowire.AppendVarint(b, elem.(uint64))
	}
	return b
}

// --------------------------------------------------------------------------
// Decoding helper
// --------------------------------------------------------------------------

// consumeFields walks over all fields of a message. For bytes fields, field holds the
// payload, for all other types the raw field value.
func consumeFields(b []byte, fn func(num protowire.Number, typ protowire.Type, field []byte) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrCorruptData, protowire.ParseError(n))
		}
		b = b[n:]

		var field []byte
		if typ == protowire.BytesType {
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return fmt.Errorf("%w: %v", ErrCorruptData, protowire.ParseError(m))
			}
			field, n = v, m
		} else {
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return fmt.Errorf("%w: %v", ErrCorruptData, protowire.ParseError(m))
			}
			field, n = b[:m], m
		}
		b = b[n:]

		if err := fn(num, typ, field); err != nil {
			return err
		}
	}
	return nil
}

func decodeMapEntry(b []byte) (string, any, error) {
	var key string
	var valueMsg []byte
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, field []byte) error {
		switch {
		case num == pbMapKey && typ == protowire.BytesType:
			key = string(field)
		case num == pbMapValue && typ == protowire.BytesType:
			valueMsg = field
		}
		return nil
	})
	if err != nil {
		return "", nil, err
	}

	value, err := decodeValue(valueMsg)
	if err != nil {
		return "", nil, fmt.Errorf("key %q: %w", key, err)
	}
	return key, value, nil
}

func decodeValue(b []byte) (any, error) {
	var (
		kind     Kind
		single   any
		hasOne   bool
		multi    []any
		inferred Kind
	)

	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, field []byte) error {
		switch num {
		case pbValueKind:
			v, n := protowire.ConsumeVarint(field)
			if n < 0 {
				return fmt.Errorf("%w: %v", ErrCorruptData, protowire.ParseError(n))
			}
			kind = Kind(v)
		case pbValueSingle, pbValueMulti:
			if typ != protowire.BytesType {
				return fmt.Errorf("%w: value field %d has wire type %d", ErrCorruptData, num, typ)
			}
			scalar, k, err := decodeScalar(field)
			if err != nil {
				return err
			}
			inferred = k
			if num == pbValueSingle {
				single, hasOne = scalar, true
			} else {
				multi = append(multi, scalar)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if kind == KindInvalid {
		kind = inferred
	}
	if kind == KindInvalid {
		return nil, fmt.Errorf("%w: value without kind", ErrCorruptData)
	}

	if hasOne {
		elem, err := convertScalar(kind, single)
		if err != nil {
			return nil, err
		}
		return Assemble(kind, false, []any{elem})
	}

	elems := make([]any, len(multi))
	for i, s := range multi {
		elem, err := convertScalar(kind, s)
		if err != nil {
			return nil, err
		}
		elems[i] = elem
	}
	return Assemble(kind, true, elems)
}

// decodeScalar returns the value of a Scalar message and the kind implied by its field
func decodeScalar(b []byte) (any, Kind, error) {
	var (
		value any
		kind  Kind
	)
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, field []byte) error {
		switch num {
		case pbScalarDouble:
			v, n := protowire.ConsumeFixed64(field)
			if n < 0 {
				return protowire.ParseError(n)
			}
			value, kind = math.Float64frombits(v), KindFloat64
		case pbScalarFloat:
			v, n := protowire.ConsumeFixed32(field)
			if n < 0 {
				return protowire.ParseError(n)
			}
			value, kind = math.Float32frombits(v), KindFloat32
		case pbScalarInt32, pbScalarInt64, pbScalarBool, pbScalarUint64:
			v, n := protowire.ConsumeVarint(field)
			if n < 0 {
				return protowire.ParseError(n)
			}
			switch num {
			case pbScalarInt32:
				value, kind = int32(v), KindInt32
			case pbScalarInt64:
				value, kind = int64(v), KindInt64
			case pbScalarBool:
				value, kind = protowire.DecodeBool(v), KindBool
			default:
				value, kind = v, KindUint64
			}
		case pbScalarString:
			value, kind = string(field), KindString
		case pbScalarBytes:
			bs := make([]byte, len(field))
			copy(bs, field)
			value, kind = bs, KindBytes
		}
		return nil
	})
	if err != nil {
		return nil, KindInvalid, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	if kind == KindInvalid {
		return nil, KindInvalid, fmt.Errorf("%w: empty scalar", ErrCorruptData)
	}
	return value, kind, nil
}

// convertScalar maps a decoded wire value to the Go type of kind
func convertScalar(kind Kind, v any) (any, error) {
	switch kind {
	case KindInt:
		if i, ok := v.(int64); ok {
			return int(i), nil
		}
	default:
		if k, _, err := Classify(v); err == nil && k == kind {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: wire value %T does not match kind %s", ErrCorruptData, v, kind)
}
