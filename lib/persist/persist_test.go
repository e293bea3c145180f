package persist

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ValentinKolb/satchel/lib/encrypter"
	"github.com/ValentinKolb/satchel/lib/serializer"
	"github.com/ValentinKolb/satchel/lib/storer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedStorer blocks every Store until the gate is opened and tracks concurrency
type gatedStorer struct {
	gate    chan struct{}
	started chan struct{}

	mu       sync.Mutex
	data     []byte
	writes   int
	inFlight int
	maxSeen  int
	failNext error
}

func newGatedStorer() *gatedStorer {
	return &gatedStorer{gate: make(chan struct{}), started: make(chan struct{}, 100)}
}

func (g *gatedStorer) Store(_ context.Context, data []byte) error {
	g.mu.Lock()
	g.inFlight++
	if g.inFlight > g.maxSeen {
		g.maxSeen = g.inFlight
	}
	g.mu.Unlock()

	g.started <- struct{}{}
	<-g.gate

	g.mu.Lock()
	defer g.mu.Unlock()
	g.inFlight--
	if err := g.failNext; err != nil {
		g.failNext = nil
		return err
	}
	g.data = append([]byte(nil), data...)
	g.writes++
	return nil
}

func (g *gatedStorer) Retrieve() ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]byte{}, g.data...), nil
}

func (g *gatedStorer) stats() (writes, maxSeen int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.writes, g.maxSeen
}

func testPipeline(s storer.IStorer) Pipeline {
	return Pipeline{
		Serializer: serializer.NewJSONSerializer(),
		Encrypter:  encrypter.NewNoneEncrypter(),
		Storer:     s,
	}
}

// --------------------------------------------------------------------------
// Pipeline
// --------------------------------------------------------------------------

func TestPipelineRoundTrip(t *testing.T) {
	key, err := encrypter.GenerateKey(32)
	require.NoError(t, err)
	enc, err := encrypter.NewChaCha20Encrypter(key, []byte("test"))
	require.NoError(t, err)

	p := Pipeline{
		Serializer: serializer.NewGzipSerializer(serializer.NewBinarySerializer()),
		Encrypter:  enc,
		Storer:     storer.NewMemoryStorer(),
	}

	loaded, err := p.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)

	size, err := p.Save(context.Background(), map[string]any{"volume": 7, "tags": []string{"a"}})
	require.NoError(t, err)
	assert.Greater(t, size, 0)

	loaded, err = p.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"volume": 7, "tags": []string{"a"}}, loaded)
}

func TestPipelineStageErrors(t *testing.T) {
	key, _ := encrypter.GenerateKey(32)
	otherKey, _ := encrypter.GenerateKey(32)
	encA, _ := encrypter.NewAESGCMEncrypter(key, nil)
	encB, _ := encrypter.NewAESGCMEncrypter(otherKey, nil)

	mem := storer.NewMemoryStorer()
	_, err := Pipeline{serializer.NewJSONSerializer(), encA, mem}.Save(context.Background(), map[string]any{"a": "b"})
	require.NoError(t, err)

	t.Run("Decrypt", func(t *testing.T) {
		_, err := Pipeline{serializer.NewJSONSerializer(), encB, mem}.Load()
		assert.ErrorIs(t, err, encrypter.ErrDecryptionFailed)
		assert.Contains(t, err.Error(), "decrypt")
	})

	t.Run("Deserialize", func(t *testing.T) {
		corrupt := storer.NewMemoryStorerWith([]byte("{not json"))
		_, err := testPipeline(corrupt).Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "deserialize")
	})

	t.Run("Serialize", func(t *testing.T) {
		_, err := testPipeline(storer.NewMemoryStorer()).Save(context.Background(), map[string]any{"ch": make(chan int)})
		assert.ErrorIs(t, err, serializer.ErrUnsupportedType)
		assert.Contains(t, err.Error(), "serialize")
	})

	t.Run("Store", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := testPipeline(storer.NewMemoryStorer()).Save(ctx, map[string]any{})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Contains(t, err.Error(), "store")
	})
}

// --------------------------------------------------------------------------
// Saver
// --------------------------------------------------------------------------

func TestSaverCoalesces(t *testing.T) {
	gs := newGatedStorer()
	var version atomic.Int64

	s := NewSaver(SaverOptions{
		Pipeline: testPipeline(gs),
		Snapshot: func() map[string]any { return map[string]any{"v": version.Load()} },
	})

	version.Store(1)
	require.True(t, s.Trigger())
	<-gs.started // first run is writing now

	// a burst during the write collapses into one follow-up
	for i := 2; i <= 100; i++ {
		version.Store(int64(i))
		s.Trigger()
	}

	close(gs.gate)
	require.Eventually(t, func() bool { return s.Runs() == 2 }, 5*time.Second, time.Millisecond)
	s.Close()

	writes, maxSeen := gs.stats()
	assert.Equal(t, 2, writes)
	assert.Equal(t, 1, maxSeen, "writes must never overlap")

	loaded, err := testPipeline(gs).Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"v": int64(100)}, loaded)
}

func TestSaverContinuesAfterFailure(t *testing.T) {
	gs := newGatedStorer()
	close(gs.gate)
	gs.failNext = errors.New("disk full")

	var failures atomic.Int32
	var saved atomic.Int32
	s := NewSaver(SaverOptions{
		Pipeline: testPipeline(gs),
		Snapshot: func() map[string]any { return map[string]any{"k": "v"} },
		OnError: func(err error) {
			assert.Contains(t, err.Error(), "disk full")
			failures.Add(1)
		},
		OnSaved: func(size int, _ time.Duration) {
			assert.Greater(t, size, 0)
			saved.Add(1)
		},
	})
	defer s.Close()

	s.Trigger()
	require.Eventually(t, func() bool { return failures.Load() == 1 }, time.Second, time.Millisecond)

	s.Trigger()
	require.Eventually(t, func() bool { return saved.Load() == 1 }, time.Second, time.Millisecond)
	writes, _ := gs.stats()
	assert.Equal(t, 1, writes)
}

func TestSaverCloseFlushesPendingTrigger(t *testing.T) {
	gs := newGatedStorer()
	var version atomic.Int64
	s := NewSaver(SaverOptions{
		Pipeline: testPipeline(gs),
		Snapshot: func() map[string]any { return map[string]any{"v": version.Load()} },
	})

	version.Store(1)
	s.Trigger()
	<-gs.started
	version.Store(2)
	s.Trigger() // pending while the first write blocks

	closed := make(chan struct{})
	go func() {
		s.Close()
		close(closed)
	}()

	// Close has to wait for the running write
	select {
	case <-closed:
		t.Fatal("close returned while a write was in flight")
	case <-time.After(20 * time.Millisecond):
	}

	close(gs.gate)
	<-closed

	writes, _ := gs.stats()
	assert.Equal(t, 2, writes)
	loaded, err := testPipeline(gs).Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"v": int64(2)}, loaded)

	// triggers after close are ignored
	assert.False(t, s.Trigger())
	s.Close()
}

func TestSaverCloseWithoutTrigger(t *testing.T) {
	mem := storer.NewMemoryStorer()
	s := NewSaver(SaverOptions{
		Pipeline: testPipeline(mem),
		Snapshot: func() map[string]any { return map[string]any{} },
	})
	s.Close()
	assert.Equal(t, 0, mem.Writes())
	assert.Equal(t, uint64(0), s.Runs())
}
