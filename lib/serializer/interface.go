package serializer

// ISerializer is the interface for all snapshot serializers.
// A snapshot is the full content of a store as a map from key to value.
// Nil and empty lists are not distinguished: both decode as empty, non-nil slices.
type ISerializer interface {
	// Serialize encodes a snapshot into a byte array.
	// It returns an error if a value has a type the serializer does not support.
	Serialize(data map[string]any) ([]byte, error)
	// Deserialize decodes a byte array created by Serialize back into a snapshot.
	// An empty byte array must decode to an empty (non-nil) map.
	Deserialize(b []byte) (map[string]any, error)
}
