// Package serializer converts a snapshot of the store (map[string]any) to bytes and back.
// It is the first stage of the persistence pipeline: serializer -> encrypter -> storer.
//
// Key Components:
//
//   - ISerializer: Core interface that all serializer implementations must satisfy.
//     Deserialize of empty input yields an empty, non-nil map.
//
//   - Kind, Classify, Elements, Assemble: The tagged value model shared by the
//     self-describing formats. Supported are the scalars bool, int, int32, int64,
//     uint64, float32, float64, string and []byte, and a list ([]T) of each of them.
//
//   - gobSerializerImpl: Go's gob encoding. The only format that also handles
//     application types, as long as they are registered with gob.Register.
//     This is the default serializer of the store.
//
//   - jsonSerializerImpl: JSON with a small envelope per entry ({"t","l","v"}) so
//     numbers come back with their exact type. Human readable.
//
//   - binarySerializerImpl: Custom big endian format with a magic header. Smallest
//     and fastest of the formats.
//
//   - protobufSerializerImpl: Protobuf wire format written with protowire, readable by
//     any protobuf implementation with the schema documented on NewProtobufSerializer.
//
//   - Gzip and Base64 wrappers: Decorate any serializer, e.g. to compress large
//     snapshots or to store them in text-only backends.
//
// Type fidelity:
//
//	For all supported kinds, Deserialize(Serialize(m)) returns values of the same
//	dynamic Go type. Serializing a value outside of the kind model fails with
//	ErrUnsupportedType (except for gob with registered types).
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
package serializer
