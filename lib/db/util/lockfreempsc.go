package util

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// node is one queued item. The queue always starts with an empty sentinel node.
type node[T any] struct {
	value *T
	next  atomic.Pointer[node[T]]
}

// LockFreeMPSC is an unbounded multi-producer single-consumer queue.
//
// Producers append to a linked list with compare-and-swap and never block on each other
// or on the consumer. An internal goroutine walks the list and hands every item to the
// channel returned by Recv.
//
// Ordering: pushes that the caller serializes (e.g. while holding a lock) are received in
// push order. Concurrent pushes are received in the order their append succeeded.
type LockFreeMPSC[T any] struct {
	head    atomic.Pointer[node[T]]
	tail    atomic.Pointer[node[T]]
	out     chan *T
	closed  atomic.Bool
	pushing atomic.Int32 // pushes between their closed check and their wake

	// wakes the internal goroutine when the list is empty
	mu   sync.Mutex
	cond *sync.Cond
}

// NewLockFreeMPSC creates a queue and starts its internal goroutine.
// The goroutine exits after Close once every pushed item was received.
func NewLockFreeMPSC[T any]() *LockFreeMPSC[T] {
	q := &LockFreeMPSC[T]{out: make(chan *T)}
	q.cond = sync.NewCond(&q.mu)

	sentinel := &node[T]{}
	q.head.Store(sentinel)
	q.tail.Store(sentinel)

	go q.forward()
	return q
}

// Push appends an item. It returns false for nil items and after Close.
// An item for which Push returned true is always delivered, even if Close runs concurrently.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (q *LockFreeMPSC[T]) Push(value *T) bool {
	if value == nil {
		return false
	}
	q.pushing.Add(1)
	defer q.pushed()
	if q.closed.Load() {
		return false
	}

	n := &node[T]{value: value}
	var retries uint8
	for {
		tail := q.tail.Load()
		next := tail.next.Load()
		if next != nil {
			// another producer appended but has not moved the tail yet
			q.tail.CompareAndSwap(tail, next)
		} else if tail.next.CompareAndSwap(nil, n) {
			q.tail.CompareAndSwap(tail, n)
			return true
		}

		// exponential backoff under contention
		if retries < 10 {
			retries++
			for i := 0; i < 1<<retries; i++ {
				runtime.Gosched()
			}
		}
		runtime.Gosched()
	}
}

// Recv returns the channel the items are delivered on.
// It is closed after Close once the queue is drained.
func (q *LockFreeMPSC[T]) Recv() <-chan *T {
	return q.out
}

// Close rejects further pushes. Items pushed before still reach Recv.
func (q *LockFreeMPSC[T]) Close() {
	q.closed.Store(true)
	q.wake()
}

func (q *LockFreeMPSC[T]) pushed() {
	q.pushing.Add(-1)
	q.wake()
}

// wake signals the internal goroutine. Signalling under the lock keeps the signal from
// falling between the goroutine's emptiness check and its Wait.
func (q *LockFreeMPSC[T]) wake() {
	q.mu.Lock()
	q.cond.Signal()
	q.mu.Unlock()
}

// forward moves items from the list to the out channel
func (q *LockFreeMPSC[T]) forward() {
	defer close(q.out)

	for {
		for {
			head := q.head.Load()
			next := head.next.Load()
			if next == nil {
				break
			}
			value := next.value
			q.head.Store(next)
			q.out <- value
			next.value = nil // next is the new sentinel, release the item
		}

		q.mu.Lock()
		if q.head.Load().next.Load() == nil {
			if q.closed.Load() && q.pushing.Load() == 0 {
				q.mu.Unlock()
				return
			}
			q.cond.Wait()
		}
		q.mu.Unlock()
	}
}
