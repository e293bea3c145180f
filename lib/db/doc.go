// Package db defines the in-memory entry map underneath the satchel store.
// It provides the IEntryMap interface that allows the store to work with
// different concurrent map implementations while abstracting their details.
//
// The package focuses on:
//   - A unified interface for the map operations the store needs
//   - Opaque value handling: implementations never inspect values
//   - Point-in-time copies (Snapshot) and bulk replacement (Load) for persistence
//   - Metadata reporting
//
// Key Components:
//
//   - IEntryMap Interface: The core interface that all entry map implementations must satisfy.
//     It provides methods for basic operations (Set, Get, Has, Remove, Clear),
//     queries over the whole content (Keys, Size, IsEmpty, Snapshot), bulk loading
//     (Load) and metadata retrieval (GetInfo). Remove reports whether the key existed,
//     which lets the store skip saves and events for no-op removes.
//
//   - Implementation Identifiers: The Implementation type provides string constants
//     for different entry map backends (currently "maple").
//
//   - Database Information: The DatabaseInfo structure reports the number of entries,
//     the implementation type and implementation-specific metadata.
//
// Related Packages:
//
// The engines/maple package (github.com/ValentinKolb/satchel/lib/db/engines/maple) provides a
// sharded implementation of the IEntryMap interface on top of xsync.MapOf.
//
// The util package (github.com/ValentinKolb/satchel/lib/db/util) provides complementary
// tools:
//   - ShardDistribution: summary statistics for shard fill levels
//   - LockFreeMPSC: A lock-free multi-producer single-consumer queue
//   - ShardHasher: seeded key hashing for shard routing
//
// The testing package (github.com/ValentinKolb/satchel/lib/db/testing) provides
// standardized tests and benchmarks for implementations of the IEntryMap interface.
//   - RunEntryMapTests: Runs a standardized test suite to validate implementations
//   - RunEntryMapBenchmarks: Provides performance benchmarks for comparing implementations
package db
