package db

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

type Implementation string

const (
	ImplMaple Implementation = "maple"
)

// DatabaseInfo describes the current state of an entry map.
// All fields may be estimates, they are not guaranteed to be up-to-date.
type DatabaseInfo struct {
	Entries  int            `json:"entries"`
	DbType   Implementation `json:"db_type"`
	Metadata interface{}    `json:"metadata"`
}

// --------------------------------------------------------------------------
// Entry Map Interface
// --------------------------------------------------------------------------

// IEntryMap defines an interface for the in-memory container backing a store.
// It maps string keys to opaque values. Values are stored and returned as is,
// implementations must never inspect or copy them.
//
// All methods must be safe for an unbounded number of concurrent callers.
type IEntryMap interface {

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// Set inserts or updates the value for a key.
	Set(key string, value any)

	// Remove deletes the entry for a key.
	// The return value reports whether the key was present before the call.
	Remove(key string) (removed bool)

	// Clear removes all entries.
	Clear()

	// Load replaces the current content with the given entries.
	Load(entries map[string]any)

	// --------------------------------------------------------------------------
	// Query Operations
	// --------------------------------------------------------------------------

	// Get retrieves the value for a key.
	// The boolean return value indicates whether a value for the key was found.
	Get(key string) (value any, loaded bool)

	// Has checks whether a key exists.
	Has(key string) (loaded bool)

	// Keys returns all keys. Every key is contained exactly once, the order is unspecified.
	Keys() (keys []string)

	// Size returns the number of entries.
	Size() (size int)

	// IsEmpty returns true iff Size() == 0.
	IsEmpty() (empty bool)

	// Snapshot returns a copy of all entries.
	// Writes that run concurrently with Snapshot may or may not be reflected.
	Snapshot() (entries map[string]any)

	// GetInfo returns information about the entry map.
	GetInfo() (info DatabaseInfo)
}

// EntryMapFactory creates a new, empty entry map.
type EntryMapFactory func() IEntryMap
