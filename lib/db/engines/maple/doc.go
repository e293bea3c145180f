// Package maple implements a sharded, concurrent in-memory entry map. It provides
// the default implementation of the db.IEntryMap interface used by the local store.
//
// The package focuses on:
//   - Optimized concurrent access through sharding and lock-free hash maps
//   - Opaque value storage: values are stored and returned without copying or inspection
//   - Cheap point-in-time copies of the whole content for the persistence pipeline
//   - Statistics about the distribution of entries across shards
//
// Key Components:
//
//   - mapleImpl: The central structure implementing db.IEntryMap. It owns the shards,
//     routes every key to its shard and aggregates size, key and snapshot queries
//     across all shards.
//
//   - Shard: A partition of the entry map that manages a subset of the key space.
//     Each shard wraps an xsync.MapOf, which allows lock-free reads and fine-grained
//     locking on writes. Keys are distributed across shards using a seeded hash
//     (see util.ShardHasher) so that the distribution differs between instances.
//
// Thread Safety:
//
//	All methods can be called concurrently. Operations spanning all shards (Keys, Size,
//	Snapshot, Clear) are not atomic with respect to concurrent writers: a write racing
//	with them may or may not be reflected. The local store serializes its writers, so
//	it always observes consistent snapshots.
//
// Usage Example:
//
//	m := maple.NewMapleDB(maple.DefaultOptions())
//	m.Set("theme", "dark")
//	value, ok := m.Get("theme")
//	snapshot := m.Snapshot()
package maple
