// Package lstore implements store.IStore for a single process: all entries live in a
// db.IEntryMap (maple by default), full snapshots are persisted in the background through
// the persist pipeline, and changes are announced on an events.Bus.
//
// Lifecycle:
//
//   - NewLocalStore registers the listeners from Options, then loads the persisted snapshot.
//     A failed load is logged and published as events.LoadFailed, the store starts empty.
//   - Every applied mutation requests a save. Saves run on one background goroutine and are
//     coalesced, each run persists a fresh snapshot.
//   - Close rejects further mutations with store.ErrClosed, waits for a running save, flushes
//     a pending one and delivers all queued events. Reads keep working.
//
// Implementation Details:
//
//   - Ordering: Set, Remove and Clear hold the store's write lock while they update the
//     entry map, request the save and publish the event. Events therefore reach listeners in
//     the order the mutations were applied, and a snapshot never sees half of a mutation.
//
//   - Collaborators: storer, serializer and encrypter are only called from the save goroutine
//     (and once during construction), never concurrently. The store does not close them.
//
//   - Metrics: every store owns a VictoriaMetrics set (counters for mutations, save triggers,
//     saves and failures, a save duration histogram and an entry gauge, all labeled with the
//     store name). WriteMetrics exposes the sets of all open stores in Prometheus format.
//     Sampled payload sizes and save latencies are part of GetInfo.
//
// Thread Safety:
//
//	All methods are safe for concurrent use. SetIfAbsent is a check followed by a Set and is
//	not atomic: concurrent callers on the same absent key may both write, the later one wins.
//
// Usage Example:
//
//	s, err := lstore.NewLocalStore(lstore.Options{
//		Name:       "settings",
//		Storer:     storer.NewFileStorer("settings.json"),
//		Serializer: serializer.NewJSONSerializer(),
//		Listeners:  []events.Listener{func(e events.Event) { log.Println(e) }},
//	})
//	if err != nil { ... }
//	defer s.Close()
//
//	_ = s.Set("theme", "dark")
//	theme := store.GetOrDefault(s, "theme", "light")
package lstore
