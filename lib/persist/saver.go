package persist

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// SaverOptions configures a Saver
type SaverOptions struct {
	// Pipeline writes the snapshots
	Pipeline Pipeline
	// Snapshot returns a point-in-time copy of the data, it is called once per run
	Snapshot func() map[string]any
	// OnSaved is called after each successful run with the payload size and the duration. Optional.
	OnSaved func(size int, took time.Duration)
	// OnError is called with the cause of each failed run. Optional.
	OnError func(err error)
}

// Saver writes snapshots in the background with coalescing.
//
// A trigger only marks that a save is needed: it fills a single slot that the background
// goroutine consumes. Any number of triggers arriving while a save is running collapse into
// exactly one follow-up run, which takes a fresh snapshot and therefore includes all of them.
//
// Thread-safety: Trigger and Close are safe for concurrent use. At most one write is in
// flight at any time.
type Saver struct {
	opts    SaverOptions
	trigger chan struct{}
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex // held for the whole run, guarantees a single writer

	closed    atomic.Bool
	closeOnce sync.Once
	runs      atomic.Uint64
}

// NewSaver creates a saver and starts its background goroutine
func NewSaver(opts SaverOptions) *Saver {
	s := &Saver{
		opts:    opts,
		trigger: make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.loop()
	return s
}

// Trigger requests a save and never blocks. Returns false if the request was merged into an
// already pending one or the saver is closed.
func (s *Saver) Trigger() bool {
	if s.closed.Load() {
		return false
	}
	select {
	case s.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Close stops the background goroutine. A running write is completed and a pending trigger is
// flushed as one final run before Close returns. Later triggers are ignored. Idempotent.
func (s *Saver) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.stop)
	})
	<-s.done
}

// Runs returns the number of completed runs, successful or not
func (s *Saver) Runs() uint64 {
	return s.runs.Load()
}

// --------------------------------------------------------------------------
// Background processing
// --------------------------------------------------------------------------

func (s *Saver) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.trigger:
			s.run()
		case <-s.stop:
			select {
			case <-s.trigger:
				Logger.Debugf("flushing pending save on close")
				s.run()
			default:
			}
			return
		}
	}
}

// run performs a single save. Writes use a context that is never canceled, so closing
// the store can not interrupt a write half way.
func (s *Saver) run() {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.runs.Add(1)

	start := time.Now()
	size, err := s.opts.Pipeline.Save(context.Background(), s.opts.Snapshot())
	if err != nil {
		Logger.Errorf("save failed: %v", err)
		if s.opts.OnError != nil {
			s.opts.OnError(err)
		}
		return
	}

	took := time.Since(start)
	Logger.Debugf("saved %d bytes in %v", size, took)
	if s.opts.OnSaved != nil {
		s.opts.OnSaved(size, took)
	}
}
