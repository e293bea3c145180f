package events

import (
	"sync"
	"sync/atomic"

	"github.com/ValentinKolb/satchel/lib/db/util"
)

type registration struct {
	id       ListenerID
	listener Listener
}

// Bus delivers events asynchronously to the registered listeners.
//
// Events are handed from Publish to a single dispatcher goroutine through a lock-free
// MPSC queue, so publishing never blocks on listeners. Events published by one goroutine
// (or under a common lock) reach every listener in publish order.
//
// Thread-safety: All methods are safe for concurrent use. Listener registration is
// copy-on-write, the dispatcher reads the current list without locking.
type Bus struct {
	queue     *util.LockFreeMPSC[Event]
	listeners atomic.Pointer[[]registration]
	mu        sync.Mutex // serializes writers of listeners
	nextID    atomic.Uint64
	closeOnce sync.Once
	done      chan struct{}
}

// NewBus creates a bus and starts its dispatcher
func NewBus() *Bus {
	b := &Bus{
		queue: util.NewLockFreeMPSC[Event](),
		done:  make(chan struct{}),
	}
	empty := make([]registration, 0)
	b.listeners.Store(&empty)
	go b.dispatch()
	return b
}

// --------------------------------------------------------------------------
// Listener management
// --------------------------------------------------------------------------

// Subscribe registers listener and returns its id. The same function may be registered
// more than once, each registration receives every event.
func (b *Bus) Subscribe(listener Listener) ListenerID {
	id := ListenerID(b.nextID.Add(1))

	b.mu.Lock()
	defer b.mu.Unlock()
	old := *b.listeners.Load()
	updated := make([]registration, len(old), len(old)+1)
	copy(updated, old)
	updated = append(updated, registration{id: id, listener: listener})
	b.listeners.Store(&updated)
	return id
}

// Unsubscribe removes the listener with the given id. Returns false if there was none.
func (b *Bus) Unsubscribe(id ListenerID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	old := *b.listeners.Load()
	for i, reg := range old {
		if reg.id == id {
			updated := make([]registration, 0, len(old)-1)
			updated = append(updated, old[:i]...)
			updated = append(updated, old[i+1:]...)
			b.listeners.Store(&updated)
			return true
		}
	}
	return false
}

// UnsubscribeAll removes every listener
func (b *Bus) UnsubscribeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	empty := make([]registration, 0)
	b.listeners.Store(&empty)
}

// ListenerCount returns the number of registered listeners
func (b *Bus) ListenerCount() int {
	return len(*b.listeners.Load())
}

// --------------------------------------------------------------------------
// Publishing
// --------------------------------------------------------------------------

// Publish queues the event for delivery and returns immediately. The event is dropped
// if no listener is registered or the bus is closed. Returns whether it was queued.
func (b *Bus) Publish(event Event) bool {
	if b.ListenerCount() == 0 {
		return false
	}
	return b.queue.Push(&event)
}

// Close stops accepting events, delivers all queued events and waits for the dispatcher
// to exit. Idempotent.
func (b *Bus) Close() {
	b.closeOnce.Do(func() {
		b.queue.Close()
	})
	<-b.done
}

// dispatch runs until the queue is closed and drained
func (b *Bus) dispatch() {
	defer close(b.done)
	for event := range b.queue.Recv() {
		for _, reg := range *b.listeners.Load() {
			deliver(reg, *event)
		}
	}
}

// deliver calls one listener and contains its panics
func deliver(reg registration, event Event) {
	defer func() {
		if r := recover(); r != nil {
			Logger.Errorf("listener %d panicked on %s: %v", reg.id, event, r)
		}
	}()
	reg.listener(event)
}
