package maple

import (
	"github.com/ValentinKolb/satchel/lib/db"
	"github.com/ValentinKolb/satchel/lib/db/engines/maple/internal"
	"github.com/ValentinKolb/satchel/lib/db/util"
	"runtime"
)

// --------------------------------------------------------------------------
// Core Maple entry map structure
// --------------------------------------------------------------------------

// mapleImpl implements a sharded concurrent entry map
type mapleImpl struct {
	numShards int               // Number of shards
	hasher    util.ShardHasher  // Seeded key hash
	shards    []*internal.Shard // Array of shards
}

// DBOptions configures the mapleImpl behavior during initialization
type DBOptions struct {
	NumShards int // Number of shards (0 = auto)
}

// DefaultOptions returns the default mapleImpl options
func DefaultOptions() *DBOptions {
	return &DBOptions{
		NumShards: runtime.NumCPU(), // Auto-determine based on CPU count
	}
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// NewMapleDB creates a new maple entry map with the specified options (optional)
func NewMapleDB(opts *DBOptions) db.IEntryMap {

	// Generate default options if not provided
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.NumShards <= 0 {
		opts.NumShards = runtime.NumCPU()
	}

	// Create shards
	shards := make([]*internal.Shard, opts.NumShards)
	for i := 0; i < opts.NumShards; i++ {
		shards[i] = internal.NewShard()
	}

	return &mapleImpl{
		numShards: opts.NumShards,
		hasher:    util.NewShardHasher(),
		shards:    shards,
	}
}

// shard returns the shard responsible for the key
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (maple *mapleImpl) shard(key string) *internal.Shard {
	return maple.shards[maple.hasher.Position(key, len(maple.shards))]
}

// --------------------------------------------------------------------------
// IEntryMap Interface Methods - Write Operations
// --------------------------------------------------------------------------

// Set inserts or updates the value for a key.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (maple *mapleImpl) Set(key string, value any) {
	maple.shard(key).Data.Store(key, value)
}

// Remove deletes the entry for a key and reports whether it existed.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (maple *mapleImpl) Remove(key string) bool {
	_, loaded := maple.shard(key).Data.LoadAndDelete(key)
	return loaded
}

// Clear removes all entries shard by shard.
// Entries written to an already cleared shard while Clear is running are kept.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (maple *mapleImpl) Clear() {
	for _, shard := range maple.shards {
		shard.Data.Clear()
	}
}

// Load replaces the content of the entry map with the given entries.
//
// Thread-safety: This method is thread-safe, but concurrent writes may be lost or kept.
func (maple *mapleImpl) Load(entries map[string]any) {
	maple.Clear()
	for key, value := range entries {
		maple.Set(key, value)
	}
}

// --------------------------------------------------------------------------
// IEntryMap Interface Methods - Read Operations
// --------------------------------------------------------------------------

// Get retrieves the value for a key.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (maple *mapleImpl) Get(key string) (any, bool) {
	return maple.shard(key).Data.Load(key)
}

// Has checks if a key exists.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (maple *mapleImpl) Has(key string) bool {
	_, ok := maple.shard(key).Data.Load(key)
	return ok
}

// Keys returns all keys of all shards.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (maple *mapleImpl) Keys() []string {
	keys := make([]string, 0, maple.Size())
	for _, shard := range maple.shards {
		shard.Data.Range(func(key string, _ any) bool {
			keys = append(keys, key)
			return true
		})
	}
	return keys
}

// Size returns the number of entries.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (maple *mapleImpl) Size() int {
	size := 0
	for _, shard := range maple.shards {
		size += shard.Data.Size()
	}
	return size
}

// IsEmpty returns whether the entry map has no entries.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (maple *mapleImpl) IsEmpty() bool {
	for _, shard := range maple.shards {
		if shard.Data.Size() > 0 {
			return false
		}
	}
	return true
}

// Snapshot copies all entries into a new map.
//
// Thread-safety: This function allows concurrent operations with all other functions.
// It does not block modifications, so concurrent writes may or may not be reflected.
func (maple *mapleImpl) Snapshot() map[string]any {
	entries := make(map[string]any, maple.Size())
	for _, shard := range maple.shards {
		shard.Data.Range(func(key string, value any) bool {
			entries[key] = value
			return true
		})
	}
	return entries
}

// --------------------------------------------------------------------------
// IEntryMap Interface Implementation - Metadata
// --------------------------------------------------------------------------

// GetInfo returns statistics about the entry map
func (maple *mapleImpl) GetInfo() db.DatabaseInfo {
	shardSizes := make([]int, len(maple.shards))
	total := 0
	for i, shard := range maple.shards {
		shardSizes[i] = shard.Data.Size()
		total += shardSizes[i]
	}

	// Metadata for this specific implementation
	meta := &struct {
		ShardCount        int                    `json:"shard_count"`
		ShardDistribution util.ShardDistribution `json:"shard_distribution"`
	}{
		ShardCount:        len(maple.shards),
		ShardDistribution: util.NewShardDistribution(shardSizes),
	}

	return db.DatabaseInfo{
		Entries:  total,
		DbType:   db.ImplMaple,
		Metadata: meta,
	}
}
