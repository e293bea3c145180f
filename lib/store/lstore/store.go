package lstore

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/ValentinKolb/satchel/lib/db"
	"github.com/ValentinKolb/satchel/lib/db/engines/maple"
	"github.com/ValentinKolb/satchel/lib/encrypter"
	"github.com/ValentinKolb/satchel/lib/events"
	"github.com/ValentinKolb/satchel/lib/persist"
	"github.com/ValentinKolb/satchel/lib/serializer"
	"github.com/ValentinKolb/satchel/lib/store"
	"github.com/ValentinKolb/satchel/lib/storer"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("store")

// Options configures NewLocalStore. Only Storer is required in practice, all other fields
// have defaults.
type Options struct {
	// Name identifies the store in logs and metrics (default "default")
	Name string
	// Storer persists the snapshots (default: a new storer.MemoryStorer)
	Storer storer.IStorer
	// Serializer converts snapshots to bytes (default: gob)
	Serializer serializer.ISerializer
	// Encrypter transforms the serialized bytes (default: none)
	Encrypter encrypter.IEncrypter
	// Listeners are registered before the initial load, so they also receive events.LoadFailed
	Listeners []events.Listener
	// EntryMapFactory creates the in-memory container (default: maple with default options)
	EntryMapFactory db.EntryMapFactory
}

func (o *Options) withDefaults() {
	if o.Name == "" {
		o.Name = "default"
	}
	if o.Storer == nil {
		o.Storer = storer.NewMemoryStorer()
	}
	if o.Serializer == nil {
		o.Serializer = serializer.NewGOBSerializer()
	}
	if o.Encrypter == nil {
		o.Encrypter = encrypter.NewNoneEncrypter()
	}
	if o.EntryMapFactory == nil {
		o.EntryMapFactory = func() db.IEntryMap { return maple.NewMapleDB(nil) }
	}
}

// storeImpl is the local store.
//
// Thread-safety: Reads go straight to the entry map. Mutations hold mu while they change
// the entry map, request a save and publish their event, so events are published in the
// order the mutations were applied. Snapshots for saves are taken under mu as well.
type storeImpl struct {
	name    string
	entries db.IEntryMap
	bus     *events.Bus
	saver   *persist.Saver
	metrics *storeMetrics

	mu        sync.Mutex
	closed    atomic.Bool
	closeOnce sync.Once
}

// NewLocalStore creates a store and loads the persisted snapshot through
// storer -> encrypter -> serializer. A failing load does not fail the construction: the
// store starts empty and events.LoadFailed is published to the listeners in opts.
// The returned error is reserved for invalid options.
//
// The store does not own the storer. Closing the store does not close e.g. a badger storer.
func NewLocalStore(opts Options) (store.IStore, error) {
	opts.withDefaults()

	s := &storeImpl{
		name:    opts.Name,
		entries: opts.EntryMapFactory(),
		bus:     events.NewBus(),
	}
	if s.entries == nil {
		s.bus.Close()
		return nil, store.NewError(store.RetCInvalidOperation, "entry map factory returned nil")
	}
	s.metrics = newStoreMetrics(s.name, s.entries.Size)

	for _, listener := range opts.Listeners {
		if listener != nil {
			s.bus.Subscribe(listener)
		}
	}

	pipeline := persist.Pipeline{
		Serializer: opts.Serializer,
		Encrypter:  opts.Encrypter,
		Storer:     opts.Storer,
	}

	loaded, err := pipeline.Load()
	if err != nil {
		Logger.Errorf("store %s: load failed, starting empty: %v", s.name, err)
		s.metrics.loadErrors.Inc()
		s.bus.Publish(events.LoadFailed(err))
	} else {
		s.entries.Load(loaded)
		Logger.Infof("store %s: loaded %d entries", s.name, len(loaded))
	}

	s.saver = persist.NewSaver(persist.SaverOptions{
		Pipeline: pipeline,
		Snapshot: s.snapshot,
		OnSaved:  s.metrics.saved,
		OnError: func(err error) {
			s.metrics.saveErrors.Inc()
			s.bus.Publish(events.SaveFailed(err))
		},
	})

	register(s.metrics)
	return s, nil
}

// snapshot is called by the saver for every run
func (s *storeImpl) snapshot() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.Snapshot()
}

// changed records an applied mutation and requests a save.
// Must be called with mu held.
func (s *storeImpl) changed() {
	s.metrics.mutations.Inc()
	if s.saver.Trigger() {
		s.metrics.saveTriggers.Inc()
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Get(key string) (any, bool) {
	return s.entries.Get(key)
}

func (s *storeImpl) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return store.ErrClosed
	}
	if value == nil {
		return store.NewError(store.RetCInvalidOperation, "nil values can not be stored")
	}

	s.entries.Set(key, value)
	s.changed()
	s.bus.Publish(events.EntrySet(key))
	return nil
}

func (s *storeImpl) SetIfAbsent(key string, value any) (bool, error) {
	if s.closed.Load() {
		return false, store.ErrClosed
	}
	if s.Has(key) {
		return false, nil
	}
	if err := s.Set(key, value); err != nil {
		return false, err
	}
	return true, nil
}

func (s *storeImpl) Remove(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return false, store.ErrClosed
	}

	if !s.entries.Remove(key) {
		return false, nil
	}
	s.changed()
	s.bus.Publish(events.EntryRemoved(key))
	return true, nil
}

func (s *storeImpl) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return store.ErrClosed
	}

	s.entries.Clear()
	s.changed()
	s.bus.Publish(events.Cleared())
	return nil
}

func (s *storeImpl) Has(key string) bool {
	return s.entries.Has(key)
}

func (s *storeImpl) Keys() []string {
	keys := s.entries.Keys()
	sort.Strings(keys)
	return keys
}

func (s *storeImpl) Size() int {
	return s.entries.Size()
}

func (s *storeImpl) IsEmpty() bool {
	return s.entries.IsEmpty()
}

func (s *storeImpl) IsClosed() bool {
	return s.closed.Load()
}

func (s *storeImpl) AddListener(listener events.Listener) events.ListenerID {
	return s.bus.Subscribe(listener)
}

func (s *storeImpl) RemoveListener(id events.ListenerID) bool {
	return s.bus.Unsubscribe(id)
}

func (s *storeImpl) ClearListeners() {
	s.bus.UnsubscribeAll()
}

func (s *storeImpl) Close() error {
	s.closeOnce.Do(func() {
		// after this no mutation can trigger a save or publish an event
		s.mu.Lock()
		s.closed.Store(true)
		s.mu.Unlock()

		s.saver.Close()
		s.bus.Close()
		unregister(s.metrics)
		Logger.Infof("store %s: closed after %d save runs", s.name, s.saver.Runs())
	})
	return nil
}

func (s *storeImpl) GetInfo() db.DatabaseInfo {
	info := s.entries.GetInfo()
	info.Metadata = &Metadata{
		EntryMap: info.Metadata,
		Store:    s.metrics.info(s.IsClosed(), s.bus.ListenerCount()),
	}
	return info
}
