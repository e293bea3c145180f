package testing

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ValentinKolb/satchel/lib/db"
)

// EntryMapFactory is a function that creates a new instance of an IEntryMap implementation
type EntryMapFactory func() db.IEntryMap

// RunEntryMapTests runs a comprehensive test suite for an IEntryMap implementation.
func RunEntryMapTests(t *testing.T, name string, factory EntryMapFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory())
		})

		t.Run("Remove", func(t *testing.T) {
			testRemove(t, factory())
		})

		t.Run("Has", func(t *testing.T) {
			testHas(t, factory())
		})

		t.Run("Clear", func(t *testing.T) {
			testClear(t, factory())
		})

		t.Run("SizeKeysEmpty", func(t *testing.T) {
			testSizeKeysEmpty(t, factory())
		})

		t.Run("SnapshotLoad", func(t *testing.T) {
			testSnapshotLoad(t, factory)
		})

		t.Run("OpaqueValues", func(t *testing.T) {
			testOpaqueValues(t, factory())
		})

		t.Run("ConcurrentAccess", func(t *testing.T) {
			testConcurrentAccess(t, factory())
		})

		t.Run("Info", func(t *testing.T) {
			testInfo(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// requireConsistentSize checks that IsEmpty, Size and Keys agree with each other
func requireConsistentSize(t testing.TB, m db.IEntryMap, expected int) {
	t.Helper()

	if size := m.Size(); size != expected {
		t.Errorf("Expected size %d, got %d", expected, size)
	}
	if keys := m.Keys(); len(keys) != expected {
		t.Errorf("Expected %d keys, got %d", expected, len(keys))
	}
	if empty := m.IsEmpty(); empty != (expected == 0) {
		t.Errorf("Expected IsEmpty()=%t for size %d", expected == 0, expected)
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, m db.IEntryMap) {
	testKey := "test-key"

	m.Set(testKey, "test-value1")

	result, exists := m.Get(testKey)
	if !exists {
		t.Errorf("Expected key %s to exist after Set", testKey)
	}
	if result != "test-value1" {
		t.Errorf("Expected value %v, got %v", "test-value1", result)
	}

	m.Set(testKey, "test-value2")

	result, exists = m.Get(testKey)
	if !exists {
		t.Errorf("Expected key %s to exist after Set", testKey)
	}
	if result != "test-value2" {
		t.Errorf("Expected value %v, got %v", "test-value2", result)
	}

	if _, exists = m.Get("nonexistent-key"); exists {
		t.Errorf("Expected nonexistent key to return exists=false")
	}

	// empty keys are valid keys
	m.Set("", 42)
	if result, exists = m.Get(""); !exists || result != 42 {
		t.Errorf("Expected empty key to hold 42, got %v (exists=%t)", result, exists)
	}
}

func testRemove(t *testing.T, m db.IEntryMap) {
	m.Set("key", "value")

	if removed := m.Remove("key"); !removed {
		t.Errorf("Expected Remove to report an existing key as removed")
	}
	if _, exists := m.Get("key"); exists {
		t.Errorf("Expected key to be gone after Remove")
	}
	if removed := m.Remove("key"); removed {
		t.Errorf("Expected Remove of a missing key to report false")
	}
	if removed := m.Remove("never-set"); removed {
		t.Errorf("Expected Remove of an unknown key to report false")
	}
}

func testHas(t *testing.T, m db.IEntryMap) {
	if m.Has("key") {
		t.Errorf("Expected Has to be false before Set")
	}
	m.Set("key", false)
	if !m.Has("key") {
		t.Errorf("Expected Has to be true after Set")
	}
	m.Remove("key")
	if m.Has("key") {
		t.Errorf("Expected Has to be false after Remove")
	}
}

func testClear(t *testing.T, m db.IEntryMap) {
	// clearing an empty map is allowed
	m.Clear()
	requireConsistentSize(t, m, 0)

	for i := 0; i < 100; i++ {
		m.Set(fmt.Sprintf("key-%d", i), i)
	}
	requireConsistentSize(t, m, 100)

	m.Clear()
	requireConsistentSize(t, m, 0)

	if _, exists := m.Get("key-1"); exists {
		t.Errorf("Expected no entries after Clear")
	}
}

func testSizeKeysEmpty(t *testing.T, m db.IEntryMap) {
	requireConsistentSize(t, m, 0)

	expected := []string{"a", "b", "c"}
	for _, key := range expected {
		m.Set(key, key)
	}
	// overwriting must not create duplicates
	m.Set("a", "again")
	requireConsistentSize(t, m, 3)

	keys := m.Keys()
	sort.Strings(keys)
	for i := range expected {
		if keys[i] != expected[i] {
			t.Errorf("Expected keys %v, got %v", expected, keys)
			break
		}
	}
}

func testSnapshotLoad(t *testing.T, factory EntryMapFactory) {
	source := factory()
	for i := 0; i < 50; i++ {
		source.Set(fmt.Sprintf("key-%d", i), i)
	}

	snapshot := source.Snapshot()
	if len(snapshot) != 50 {
		t.Fatalf("Expected snapshot with 50 entries, got %d", len(snapshot))
	}

	// the snapshot is a copy
	source.Set("key-0", "changed")
	source.Set("new", true)
	if snapshot["key-0"] != 0 {
		t.Errorf("Expected snapshot to be unaffected by later writes")
	}
	if _, ok := snapshot["new"]; ok {
		t.Errorf("Expected snapshot to be unaffected by later writes")
	}

	target := factory()
	target.Set("stale", "value")
	target.Load(snapshot)

	requireConsistentSize(t, target, 50)
	if target.Has("stale") {
		t.Errorf("Expected Load to replace the previous content")
	}
	for key, value := range snapshot {
		if got, ok := target.Get(key); !ok || got != value {
			t.Errorf("Expected %s=%v after Load, got %v", key, value, got)
		}
	}

	target.Load(map[string]any{})
	requireConsistentSize(t, target, 0)
}

func testOpaqueValues(t *testing.T, m db.IEntryMap) {
	type record struct {
		Name string
	}
	list := []string{"a", "b"}
	ptr := &record{Name: "ptr"}

	m.Set("list", list)
	m.Set("struct", record{Name: "value"})
	m.Set("ptr", ptr)

	if got, _ := m.Get("list"); len(got.([]string)) != 2 {
		t.Errorf("Expected list value to be returned unchanged, got %v", got)
	}
	if got, _ := m.Get("struct"); got.(record).Name != "value" {
		t.Errorf("Expected struct value to be returned unchanged, got %v", got)
	}
	if got, _ := m.Get("ptr"); got.(*record) != ptr {
		t.Errorf("Expected the identical pointer to be returned")
	}
}

func testConcurrentAccess(t *testing.T, m db.IEntryMap) {
	const (
		numWorkers   = 16
		opsPerWorker = 1000
	)

	var (
		wg      sync.WaitGroup
		removed atomic.Int64
	)
	wg.Add(numWorkers)

	for w := 0; w < numWorkers; w++ {
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < opsPerWorker; i++ {
				key := fmt.Sprintf("w%d-k%d", worker, i)
				m.Set(key, i)
				if v, ok := m.Get(key); !ok || v != i {
					t.Errorf("Expected %s=%d, got %v", key, i, v)
					return
				}
				if i%2 == 0 && m.Remove(key) {
					removed.Add(1)
				}
				_ = m.Size()
				_ = m.Has(key)
			}
		}(w)
	}
	wg.Wait()

	expected := numWorkers*opsPerWorker - int(removed.Load())
	requireConsistentSize(t, m, expected)
}

func testInfo(t *testing.T, m db.IEntryMap) {
	for i := 0; i < 10; i++ {
		m.Set(fmt.Sprintf("key-%d", i), i)
	}
	info := m.GetInfo()
	if info.Entries != 10 {
		t.Errorf("Expected info to report 10 entries, got %d", info.Entries)
	}
	if info.DbType == "" {
		t.Errorf("Expected info to report the implementation")
	}
}
