package storer

import (
	"context"
	"sync"
)

// MemoryStorer keeps the payload in process memory. It is meant for ephemeral stores and
// tests, and counts how often Store was called.
type MemoryStorer struct {
	mu     sync.Mutex
	data   []byte
	writes int
}

// NewMemoryStorer creates an empty memory storer
func NewMemoryStorer() *MemoryStorer {
	return &MemoryStorer{}
}

// NewMemoryStorerWith creates a memory storer that already holds data
func NewMemoryStorerWith(data []byte) *MemoryStorer {
	return &MemoryStorer{data: clone(data)}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see storer.IStorer)
// --------------------------------------------------------------------------

func (m *MemoryStorer) Store(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = clone(data)
	m.writes++
	return nil
}

func (m *MemoryStorer) Retrieve() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.data), nil
}

// --------------------------------------------------------------------------
// Inspection
// --------------------------------------------------------------------------

// Writes returns the number of successful Store calls
func (m *MemoryStorer) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
