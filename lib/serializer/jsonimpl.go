package serializer

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"
)

// NewJSONSerializer creates a new serializer using json encoding.
// Every value is wrapped in an envelope carrying its kind, so numbers keep their exact Go type:
//
//	{"volume": {"t": "int", "v": 7}, "tags": {"t": "string", "l": true, "v": ["a", "b"]}}
//
// Values json can not represent are escaped inside the envelope:
// non finite floats travel as the strings "NaN", "+Inf" and "-Inf",
// strings that are not valid UTF-8 travel base64 encoded ("b": true) and
// keys that are not valid UTF-8 are stored base64 encoded in "k".
func NewJSONSerializer() ISerializer {
	return &jsonSerializerImpl{}
}

// jsonSerializerImpl implements the ISerializer interface using json encoding
type jsonSerializerImpl struct {
}

// jsonValue is the envelope of a single entry
type jsonValue struct {
	Type   string          `json:"t"`
	List   bool            `json:"l,omitempty"`
	Binary bool            `json:"b,omitempty"`
	Key    []byte          `json:"k,omitempty"`
	Value  json.RawMessage `json:"v"`
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (j jsonSerializerImpl) Serialize(data map[string]any) ([]byte, error) {
	envelopes := make(map[string]jsonValue, len(data))
	placeholders := 0
	for key, value := range data {
		kind, list, err := Classify(value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		envelope := jsonValue{Type: kind.String(), List: list}
		envelope.Value, envelope.Binary, err = encodeJSON(kind, list, value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}

		name := key
		if !utf8.ValidString(key) {
			envelope.Key = []byte(key)
			for {
				name = "~key" + strconv.Itoa(placeholders)
				placeholders++
				if _, taken := data[name]; !taken {
					break
				}
			}
		}
		envelopes[name] = envelope
	}
	return json.Marshal(envelopes)
}

func (j jsonSerializerImpl) Deserialize(b []byte) (map[string]any, error) {
	if len(b) == 0 {
		return map[string]any{}, nil
	}

	var envelopes map[string]jsonValue
	if err := json.Unmarshal(b, &envelopes); err != nil {
		return nil, err
	}

	data := make(map[string]any, len(envelopes))
	for key, envelope := range envelopes {
		if envelope.Key != nil {
			key = string(envelope.Key)
		}
		kind, err := ParseKind(envelope.Type)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		value, err := decodeJSON(kind, envelope.List, envelope.Binary, envelope.Value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		data[key] = value
	}
	return normalizeSnapshot(data), nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// encodeJSON marshals a classified value. binary reports whether strings were base64 encoded.
func encodeJSON(kind Kind, list bool, value any) (raw json.RawMessage, binary bool, err error) {
	switch kind {
	case KindFloat32, KindFloat64:
		elems := Elements(value)
		encoded := make([]json.RawMessage, len(elems))
		for i, elem := range elems {
			if encoded[i], err = encodeJSONFloat(elem); err != nil {
				return nil, false, err
			}
		}
		if !list {
			return encoded[0], false, nil
		}
		raw, err = json.Marshal(encoded)
		return raw, false, err

	case KindString:
		for _, elem := range Elements(value) {
			if !utf8.ValidString(elem.(string)) {
				binary = true
				break
			}
		}
		if !binary {
			break
		}
		if !list {
			raw, err = json.Marshal([]byte(value.(string)))
			return raw, true, err
		}
		strs := value.([]string)
		bs := make([][]byte, len(strs))
		for i, s := range strs {
			bs[i] = []byte(s)
		}
		raw, err = json.Marshal(bs)
		return raw, true, err
	}

	raw, err = json.Marshal(value)
	return raw, false, err
}

func encodeJSONFloat(elem any) (json.RawMessage, error) {
	var f float64
	switch v := elem.(type) {
	case float32:
		f = float64(v)
	case float64:
		f = v
	}
	switch {
	case math.IsNaN(f):
		return json.RawMessage(`"NaN"`), nil
	case math.IsInf(f, 1):
		return json.RawMessage(`"+Inf"`), nil
	case math.IsInf(f, -1):
		return json.RawMessage(`"-Inf"`), nil
	}
	return json.Marshal(elem)
}

// decodeJSON unmarshals raw directly into the Go type of the kind
func decodeJSON(kind Kind, list, binary bool, raw json.RawMessage) (any, error) {
	switch kind {
	case KindBool:
		return decodeAs[bool](list, raw)
	case KindInt:
		return decodeAs[int](list, raw)
	case KindInt32:
		return decodeAs[int32](list, raw)
	case KindInt64:
		return decodeAs[int64](list, raw)
	case KindUint64:
		return decodeAs[uint64](list, raw)
	case KindFloat32:
		return decodeFloats[float32](list, raw)
	case KindFloat64:
		return decodeFloats[float64](list, raw)
	case KindString:
		if binary {
			return decodeBinaryStrings(list, raw)
		}
		return decodeAs[string](list, raw)
	case KindBytes:
		return decodeAs[[]byte](list, raw)
	default:
		return nil, fmt.Errorf("%w: kind %d", ErrUnsupportedType, kind)
	}
}

func decodeAs[T any](list bool, raw json.RawMessage) (any, error) {
	if list {
		out := []T{}
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, err
		}
		if out == nil {
			out = []T{}
		}
		return out, nil
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeFloats[T float32 | float64](list bool, raw json.RawMessage) (any, error) {
	if !list {
		return decodeJSONFloat[T](raw)
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, err
	}
	out := make([]T, len(elems))
	for i, elem := range elems {
		f, err := decodeJSONFloat[T](elem)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func decodeJSONFloat[T float32 | float64](raw json.RawMessage) (T, error) {
	if len(raw) == 0 || raw[0] != '"' {
		var f T
		err := json.Unmarshal(raw, &f)
		return f, err
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	switch s {
	case "NaN":
		return T(math.NaN()), nil
	case "+Inf":
		return T(math.Inf(1)), nil
	case "-Inf":
		return T(math.Inf(-1)), nil
	}
	return 0, fmt.Errorf("serializer: invalid float %q", s)
}

func decodeBinaryStrings(list bool, raw json.RawMessage) (any, error) {
	if !list {
		var b []byte
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		return string(b), nil
	}
	var bs [][]byte
	if err := json.Unmarshal(raw, &bs); err != nil {
		return nil, err
	}
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = string(b)
	}
	return out, nil
}
