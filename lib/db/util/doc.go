// Package util provides utility components for
// entry map implementations that satisfy the db.IEntryMap interface
// and for the asynchronous parts of the store.
//
// The package contains:
//   - statistics: ShardDistribution, describing how evenly entries spread across shards
//   - functions: ShardHasher, the seeded key hash used for shard routing
//   - lockfreempsc: A lock-free Multi-Producer Single-Consumer (MPSC) queue implementation build for high throughput and low latency,
//     used by the event bus to decouple mutating callers from event delivery
//
// This package is particularly useful for:
//   - Developers implementing the IEntryMap interface
//   - Components that need an unbounded, non-blocking hand-off between many producers and one consumer
package util
