// Package events provides the change notifications of a store and the bus delivering them.
//
// A store publishes EntrySet, EntryRemoved and Cleared after every applied mutation, and
// LoadFailed or SaveFailed when the persistence pipeline fails. Events are not persisted
// and not replayed to listeners registered later.
//
// Delivery:
//
//   - asynchronous: Publish only enqueues, one dispatcher goroutine calls the listeners
//   - ordered: events published under a common lock arrive in publish order
//   - isolated: a panicking listener is logged and skipped, the others still get the event
//   - lossy without listeners: events published while nobody listens are dropped
package events
