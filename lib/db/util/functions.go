package util

import "hash/maphash"

// UintKey is the hashed representation of a string key, used to pick a shard
type UintKey uint64

// ShardHasher maps keys to shard positions.
// Every hasher draws its own random seed, so two entry maps spread the same keys differently.
type ShardHasher struct {
	seed maphash.Seed
}

// NewShardHasher creates a hasher with a fresh random seed
func NewShardHasher() ShardHasher {
	return ShardHasher{seed: maphash.MakeSeed()}
}

// Hash returns the hash of key. Equal keys always hash equally for the same hasher.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (h ShardHasher) Hash(key string) UintKey {
	return UintKey(maphash.String(h.seed, key))
}

// Position returns the shard index in [0, shards) for key
func (h ShardHasher) Position(key string, shards int) int {
	// the high bits of maphash are as good as the low ones, skip the lowest byte anyway
	return int((uint64(h.Hash(key)) >> 7) % uint64(shards))
}
