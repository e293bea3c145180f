// Package store defines the interface of satchel, an embedded key-value store that keeps
// every entry in memory and persists full snapshots in the background.
//
// Key Components:
//
//   - IStore Interface: Synchronous reads and writes against memory, background persistence
//     and change events. Implemented by the lstore package.
//
//   - Error System: A structured error type with return codes. ErrClosed is returned by
//     writes on a closed store and matches every RetCStoreClosed error with errors.Is.
//
//   - Typed Accessors: Get, GetOrDefault, GetOrElse and GetOrSet read values with a checked
//     type assertion. A value of the wrong type is treated like a missing one.
//
// Persistence model:
//
//	Every mutation requests a save. Requests are coalesced, so a burst of writes results
//	in few physical writes, and the last one always contains the latest state. Durability
//	is eventual: when a mutating call returns, the change is in memory, not yet on disk.
//	Close flushes what is pending.
//
// Example:
//
//	s, err := lstore.NewLocalStore(lstore.Options{Storer: storer.NewFileStorer("settings.bin")})
//	if err != nil { ... }
//	defer s.Close()
//
//	_ = s.Set("volume", 7)
//	volume := store.GetOrDefault(s, "volume", 5)
package store
