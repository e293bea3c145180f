package serializer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and size. Layout (all integers big endian):
//
//	magic "SATCHEL\x00" | version u8 | count u32 |
//	count * ( keyLen u32 | key | kind u8 | flags u8 | [n u32] | elements )
//
// Fixed size elements are written raw, strings and bytes are prefixed with a u32 length.
func NewBinarySerializer() ISerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements ISerializer using a custom binary format
type binarySerializerImpl struct {
}

const (
	binaryVersion byte = 1

	// Bit flags of an entry
	isList byte = 1 << 0
)

var (
	binaryMagic = []byte("SATCHEL\x00")

	// ErrCorruptData is returned when binary data is truncated or malformed
	ErrCorruptData = errors.New("serializer: corrupt data")
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(data map[string]any) ([]byte, error) {
	result := make([]byte, 0, 64+len(data)*32)
	result = append(result, binaryMagic...)
	result = append(result, binaryVersion)
	result = binary.BigEndian.AppendUint32(result, uint32(len(data)))

	for key, value := range data {
		kind, list, err := Classify(value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}

		result = binary.BigEndian.AppendUint32(result, uint32(len(key)))
		result = append(result, key...)
		result = append(result, byte(kind))

		var flags byte
		if list {
			flags |= isList
		}
		result = append(result, flags)

		elems := Elements(value)
		if list {
			result = binary.BigEndian.AppendUint32(result, uint32(len(elems)))
		}
		for _, elem := range elems {
			result = appendElement(result, kind, elem)
		}
	}

	return result, nil
}

func (b binarySerializerImpl) Deserialize(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return map[string]any{}, nil
	}

	r := &binaryReader{buf: data}
	magic := r.next(len(binaryMagic))
	if r.err != nil || string(magic) != string(binaryMagic) {
		return nil, fmt.Errorf("%w: bad magic", ErrCorruptData)
	}
	if version := r.byte(); r.err == nil && version != binaryVersion {
		return nil, fmt.Errorf("%w: unknown version %d", ErrCorruptData, version)
	}
	count := r.uint32()
	if r.err != nil {
		return nil, r.err
	}

	result := make(map[string]any, min(int(count), 1024))
	for i := uint32(0); i < count; i++ {
		key := string(r.next(int(r.uint32())))
		kind := Kind(r.byte())
		flags := r.byte()
		if r.err != nil {
			return nil, r.err
		}

		list := flags&isList != 0
		n := uint32(1)
		if list {
			n = r.uint32()
		}

		elems := make([]any, 0, min(int(n), 1024))
		for j := uint32(0); j < n && r.err == nil; j++ {
			elem, err := r.element(kind)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			elems = append(elems, elem)
		}
		if r.err != nil {
			return nil, r.err
		}

		value, err := Assemble(kind, list, elems)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		result[key] = value
	}

	if len(r.buf) != r.pos {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptData, len(r.buf)-r.pos)
	}
	return normalizeSnapshot(result), nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func appendElement(buf []byte, kind Kind, elem any) []byte {
	switch kind {
	case KindBool:
		if elem.(bool) {
			return append(buf, 1)
		}
		return append(buf, 0)
	case KindInt:
		return binary.BigEndian.AppendUint64(buf, uint64(int64(elem.(int))))
	case KindInt32:
		return binary.BigEndian.AppendUint32(buf, uint32(elem.(int32)))
	case KindInt64:
		return binary.BigEndian.AppendUint64(buf, uint64(elem.(int64)))
	case KindUint64:
		return binary.BigEndian.AppendUint64(buf, elem.(uint64))
	case KindFloat32:
		return binary.BigEndian.AppendUint32(buf, math.Float32bits(elem.(float32)))
	case KindFloat64:
		return binary.BigEndian.AppendUint64(buf, math.Float64bits(elem.(float64)))
	case KindString:
		s := elem.(string)
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(s)))
		return append(buf, s...)
	case KindBytes:
		bs := elem.([]byte)
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(bs)))
		return append(buf, bs...)
	}
	return buf
}

// binaryReader reads from buf and remembers the first error.
// After an error all reads return zero values.
type binaryReader struct {
	buf []byte
	pos int
	err error
}

func (r *binaryReader) next(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || len(r.buf)-r.pos < n {
		r.err = fmt.Errorf("%w: unexpected end of data", ErrCorruptData)
		return nil
	}
	out := r.buf[r.pos : r.pos+n]
	r.pos += n
	return out
}

func (r *binaryReader) byte() byte {
	if b := r.next(1); b != nil {
		return b[0]
	}
	return 0
}

func (r *binaryReader) uint32() uint32 {
	if b := r.next(4); b != nil {
		return binary.BigEndian.Uint32(b)
	}
	return 0
}

func (r *binaryReader) uint64() uint64 {
	if b := r.next(8); b != nil {
		return binary.BigEndian.Uint64(b)
	}
	return 0
}

func (r *binaryReader) element(kind Kind) (any, error) {
	var v any
	switch kind {
	case KindBool:
		v = r.byte() != 0
	case KindInt:
		v = int(int64(r.uint64()))
	case KindInt32:
		v = int32(r.uint32())
	case KindInt64:
		v = int64(r.uint64())
	case KindUint64:
		v = r.uint64()
	case KindFloat32:
		v = math.Float32frombits(r.uint32())
	case KindFloat64:
		v = math.Float64frombits(r.uint64())
	case KindString:
		v = string(r.next(int(r.uint32())))
	case KindBytes:
		raw := r.next(int(r.uint32()))
		bs := make([]byte, len(raw))
		copy(bs, raw)
		v = bs
	default:
		return nil, fmt.Errorf("%w: kind %d", ErrUnsupportedType, kind)
	}
	return v, r.err
}
