package serializer

import (
	"encoding/gob"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() ISerializer{
	"JSON":     NewJSONSerializer,
	"GOB":      NewGOBSerializer,
	"Binary":   NewBinarySerializer,
	"Protobuf": NewProtobufSerializer,
	"Gzip(Binary)": func() ISerializer {
		return NewGzipSerializer(NewBinarySerializer())
	},
	"Base64(JSON)": func() ISerializer {
		return NewBase64Serializer(NewJSONSerializer())
	},
}

// testSnapshot returns one entry for every supported kind
func testSnapshot() map[string]any {
	return map[string]any{
		"bool":        true,
		"int":         -42,
		"int32":       int32(math.MinInt32),
		"int64":       int64(math.MaxInt64),
		"uint64":      uint64(math.MaxUint64),
		"float32":     float32(3.25),
		"float64":     -1.5e300,
		"string":      "hello wörld",
		"empty":       "",
		"bytes":       []byte{0x00, 0xff, 0x10},
		"bools":       []bool{true, false, true},
		"ints":        []int{1, -2, 3},
		"int32s":      []int32{7, -7},
		"int64s":      []int64{1 << 40, -(1 << 40)},
		"uint64s":     []uint64{0, math.MaxUint64},
		"float32s":    []float32{0.5, -0.25},
		"float64s":    []float64{math.Pi, math.E},
		"strings":     []string{"a", "", "c"},
		"bytes lists": [][]byte{{1, 2}, {3}},
	}
}

// TestSerializerRoundTrip tests that every kind keeps value and Go type
func TestSerializerRoundTrip(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			s := factory()

			data, err := s.Serialize(testSnapshot())
			require.NoError(t, err)

			result, err := s.Deserialize(data)
			require.NoError(t, err)

			expected := testSnapshot()
			require.Len(t, result, len(expected))
			for key, value := range expected {
				assert.IsType(t, value, result[key], "key %q", key)
				assert.Equal(t, value, result[key], "key %q", key)
			}
		})
	}
}

// TestSerializerEmpty tests empty maps and empty input
func TestSerializerEmpty(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			s := factory()

			result, err := s.Deserialize(nil)
			require.NoError(t, err)
			assert.NotNil(t, result)
			assert.Empty(t, result)

			result, err = s.Deserialize([]byte{})
			require.NoError(t, err)
			assert.NotNil(t, result)
			assert.Empty(t, result)

			data, err := s.Serialize(map[string]any{})
			require.NoError(t, err)
			result, err = s.Deserialize(data)
			require.NoError(t, err)
			assert.NotNil(t, result)
			assert.Empty(t, result)
		})
	}
}

// TestSerializerEmptyLists tests that empty lists keep their type in the self-describing formats
func TestSerializerEmptyLists(t *testing.T) {
	for _, name := range []string{"JSON", "Binary", "Protobuf"} {
		t.Run(name, func(t *testing.T) {
			s := testSerializers[name]()
			in := map[string]any{
				"strings": []string{},
				"ints":    []int{},
				"bytes":   []byte{},
			}

			data, err := s.Serialize(in)
			require.NoError(t, err)
			result, err := s.Deserialize(data)
			require.NoError(t, err)

			assert.Equal(t, []string{}, result["strings"])
			assert.Equal(t, []int{}, result["ints"])
			assert.Equal(t, []byte{}, result["bytes"])
		})
	}
}

// TestSerializerUnsupportedType tests that values outside the kind model are rejected
func TestSerializerUnsupportedType(t *testing.T) {
	type custom struct{ A int }

	for _, name := range []string{"JSON", "Binary", "Protobuf"} {
		t.Run(name, func(t *testing.T) {
			s := testSerializers[name]()
			_, err := s.Serialize(map[string]any{"custom": custom{A: 1}})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnsupportedType))
		})
	}
}

type gobRecord struct {
	Name  string
	Score int
}

// TestGOBRegisteredTypes tests that gob can persist registered application types
func TestGOBRegisteredTypes(t *testing.T) {
	gob.Register(gobRecord{})
	s := NewGOBSerializer()

	data, err := s.Serialize(map[string]any{"record": gobRecord{Name: "ada", Score: 9}})
	require.NoError(t, err)
	result, err := s.Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, gobRecord{Name: "ada", Score: 9}, result["record"])
}

// TestCorruptData tests that garbage input produces an error instead of a panic
func TestCorruptData(t *testing.T) {
	garbage := [][]byte{
		{0x01},
		[]byte("SATCHEL\x00"),
		[]byte("not a snapshot at all"),
		{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
	}

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			s := factory()
			for i, data := range garbage {
				assert.NotPanics(t, func() {
					_, _ = s.Deserialize(data)
				}, "input %d", i)
			}
		})
	}
}

// TestBinaryTruncated tests that every truncation of a valid binary snapshot is detected
func TestBinaryTruncated(t *testing.T) {
	s := NewBinarySerializer()
	data, err := s.Serialize(map[string]any{"key": "value", "list": []int64{1, 2, 3}})
	require.NoError(t, err)

	for i := 1; i < len(data); i++ {
		_, err := s.Deserialize(data[:i])
		assert.ErrorIs(t, err, ErrCorruptData, "truncated at %d", i)
	}
}

// TestProtobufInferKind tests decoding of values written without the kind field
func TestProtobufInferKind(t *testing.T) {
	// entries { key: "k" value { single { s: "v" } } }
	scalar := []byte{0x32, 0x01, 'v'}
	value := append([]byte{0x0a, byte(len(scalar))}, scalar...)
	entry := append([]byte{0x0a, 0x01, 'k', 0x12, byte(len(value))}, value...)
	snapshot := append([]byte{0x0a, byte(len(entry))}, entry...)

	result, err := NewProtobufSerializer().Deserialize(snapshot)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": "v"}, result)
}

// TestKindNames tests that ParseKind inverts Kind.String
func TestKindNames(t *testing.T) {
	for kind := KindBool; kind <= KindBytes; kind++ {
		parsed, err := ParseKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}
	_, err := ParseKind("complex128")
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Equal(t, "invalid", KindInvalid.String())
}

// TestSerializerSpecialValues tests floats json has no literal for and strings that are not valid UTF-8
func TestSerializerSpecialValues(t *testing.T) {
	invalid := string([]byte{0xff, 0xfe})

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			s := factory()
			in := map[string]any{
				"nan":      math.NaN(),
				"inf":      math.Inf(1),
				"-inf":     math.Inf(-1),
				"nan32":    float32(math.NaN()),
				"inf32":    float32(math.Inf(1)),
				"floats":   []float64{1.5, math.Inf(-1), math.NaN()},
				"floats32": []float32{float32(math.Inf(1)), 2},
				"badutf8":  invalid,
				"badutf8s": []string{"ok", invalid},
				invalid:    "value under a key that is not valid UTF-8",
				"~key0":    "taken by a regular key",
				"plain":    "still plain",
			}

			data, err := s.Serialize(in)
			require.NoError(t, err)
			result, err := s.Deserialize(data)
			require.NoError(t, err)
			require.Len(t, result, len(in))

			assert.True(t, math.IsNaN(result["nan"].(float64)))
			assert.Equal(t, math.Inf(1), result["inf"])
			assert.Equal(t, math.Inf(-1), result["-inf"])
			assert.True(t, math.IsNaN(float64(result["nan32"].(float32))))
			assert.Equal(t, float32(math.Inf(1)), result["inf32"])

			floats := result["floats"].([]float64)
			require.Len(t, floats, 3)
			assert.Equal(t, 1.5, floats[0])
			assert.Equal(t, math.Inf(-1), floats[1])
			assert.True(t, math.IsNaN(floats[2]))
			assert.Equal(t, []float32{float32(math.Inf(1)), 2}, result["floats32"])

			assert.Equal(t, invalid, result["badutf8"])
			assert.Equal(t, []string{"ok", invalid}, result["badutf8s"])
			assert.Equal(t, "value under a key that is not valid UTF-8", result[invalid])
			assert.Equal(t, "taken by a regular key", result["~key0"])
			assert.Equal(t, "still plain", result["plain"])
		})
	}
}

// TestSerializerNilLists tests that nil and empty lists both decode as empty, non-nil slices
func TestSerializerNilLists(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			s := factory()
			in := map[string]any{
				"nilStrings": []string(nil),
				"nilInts":    []int(nil),
				"nilBytes":   []byte(nil),
				"emptyBytes": []byte{},
				"byteLists":  [][]byte{nil, {}, {1}},
			}

			data, err := s.Serialize(in)
			require.NoError(t, err)
			result, err := s.Deserialize(data)
			require.NoError(t, err)

			assert.Equal(t, []string{}, result["nilStrings"])
			assert.Equal(t, []int{}, result["nilInts"])
			assert.Equal(t, []byte{}, result["nilBytes"])
			assert.Equal(t, []byte{}, result["emptyBytes"])
			assert.Equal(t, [][]byte{{}, {}, {1}}, result["byteLists"])
		})
	}
}
