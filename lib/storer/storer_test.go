package storer

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStorers creates one fresh instance of every storer
func testStorers(t *testing.T) map[string]IStorer {
	t.Helper()

	onDisk, err := NewBadgerStorer(BadgerOptions{Dir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = onDisk.Close() })

	inMem, err := NewBadgerStorer(BadgerOptions{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = inMem.Close() })

	return map[string]IStorer{
		"File":           NewFileStorer(filepath.Join(t.TempDir(), "nested", "store.bin")),
		"Badger":         onDisk,
		"BadgerInMemory": inMem,
		"Memory":         NewMemoryStorer(),
	}
}

func TestStorers(t *testing.T) {
	for name, s := range testStorers(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("EmptyBeforeFirstStore", func(t *testing.T) {
				data, err := s.Retrieve()
				require.NoError(t, err)
				assert.NotNil(t, data)
				assert.Empty(t, data)
			})

			t.Run("StoreRetrieve", func(t *testing.T) {
				require.NoError(t, s.Store(context.Background(), []byte("first")))
				data, err := s.Retrieve()
				require.NoError(t, err)
				assert.Equal(t, []byte("first"), data)
			})

			t.Run("Replace", func(t *testing.T) {
				require.NoError(t, s.Store(context.Background(), []byte("second, longer payload")))
				require.NoError(t, s.Store(context.Background(), []byte("third")))
				data, err := s.Retrieve()
				require.NoError(t, err)
				assert.Equal(t, []byte("third"), data)
			})

			t.Run("CanceledContext", func(t *testing.T) {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				assert.ErrorIs(t, s.Store(ctx, []byte("never")), context.Canceled)

				data, err := s.Retrieve()
				require.NoError(t, err)
				assert.Equal(t, []byte("third"), data)
			})

			t.Run("ConcurrentStores", func(t *testing.T) {
				var wg sync.WaitGroup
				for i := 0; i < 8; i++ {
					wg.Add(1)
					go func(i int) {
						defer wg.Done()
						assert.NoError(t, s.Store(context.Background(), []byte{byte(i)}))
					}(i)
				}
				wg.Wait()

				data, err := s.Retrieve()
				require.NoError(t, err)
				assert.Len(t, data, 1)
			})
		})
	}
}

func TestFileStorerLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStorer(filepath.Join(dir, "store.bin"))

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Store(context.Background(), []byte("payload")))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "store.bin", entries[0].Name())
}

func TestFileStorerReadError(t *testing.T) {
	// a directory at the target path can not be read as a file
	dir := t.TempDir()
	s := NewFileStorer(dir)
	_, err := s.Retrieve()
	assert.Error(t, err)
}

func TestBadgerStorerPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	key := make([]byte, 32)

	s, err := NewBadgerStorer(BadgerOptions{Dir: dir, Key: key})
	require.NoError(t, err)
	require.NoError(t, s.Store(context.Background(), []byte("durable")))
	require.NoError(t, s.Close())

	s, err = NewBadgerStorer(BadgerOptions{Dir: dir, Key: key})
	require.NoError(t, err)
	defer s.Close()

	data, err := s.Retrieve()
	require.NoError(t, err)
	assert.Equal(t, []byte("durable"), data)
}

func TestBadgerStorerNeedsDir(t *testing.T) {
	_, err := NewBadgerStorer(BadgerOptions{})
	assert.Error(t, err)
}

func TestMemoryStorerCountsWrites(t *testing.T) {
	m := NewMemoryStorerWith([]byte("seed"))
	data, err := m.Retrieve()
	require.NoError(t, err)
	assert.Equal(t, []byte("seed"), data)
	assert.Equal(t, 0, m.Writes())

	require.NoError(t, m.Store(context.Background(), []byte("a")))
	require.NoError(t, m.Store(context.Background(), []byte("b")))
	assert.Equal(t, 2, m.Writes())

	// returned slices are copies
	data, _ = m.Retrieve()
	data[0] = 'x'
	data, _ = m.Retrieve()
	assert.Equal(t, []byte("b"), data)
}
