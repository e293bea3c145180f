package store

import (
	"fmt"

	"github.com/ValentinKolb/satchel/lib/db"
	"github.com/ValentinKolb/satchel/lib/events"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IStore is the interface of an embedded key-value store whose entries live in memory
// and are persisted in the background.
//
// Reads are served from memory and never block on persistence. Writes are applied to
// memory synchronously, then a coalesced background save is requested and an event is
// published. Persistence failures never surface as errors of the mutating call; they are
// reported as events.SaveFailed.
//
// Write operations return a *Error on misuse (nil on success), e.g. ErrClosed after Close.
type IStore interface {
	// Get returns the value for a key. The boolean return value indicates whether a value for the key was found.
	Get(key string) (value any, loaded bool)
	// Set inserts or updates a key–value pair. A nil value is rejected with RetCInvalidOperation.
	Set(key string, value any) (err error)
	// SetIfAbsent sets the value only if the key does not exist at call time and reports whether it did.
	// The check and the write are not one atomic step: two concurrent callers on the same
	// absent key may both succeed, the later write wins.
	SetIfAbsent(key string, value any) (set bool, err error)
	// Remove deletes a key–value pair and reports whether the key existed.
	// Nothing is saved and no event is published for an absent key.
	Remove(key string) (removed bool, err error)
	// Clear removes all entries. It always saves and publishes events.Cleared, even on an empty store.
	Clear() (err error)
	// Has returns whether a key exists in the store.
	Has(key string) bool
	// Keys returns all keys in ascending order.
	Keys() []string
	// Size returns the number of entries.
	Size() int
	// IsEmpty returns whether the store has no entries.
	IsEmpty() bool
	// IsClosed returns whether Close was called.
	IsClosed() bool
	// AddListener registers a listener for change and failure events.
	AddListener(listener events.Listener) events.ListenerID
	// RemoveListener removes a listener. Returns false if the id is unknown.
	RemoveListener(id events.ListenerID) bool
	// ClearListeners removes all listeners.
	ClearListeners()
	// Close stops background processing. The running save is completed and a pending one is
	// flushed, then all queued events are delivered. Reads keep working afterwards. Idempotent.
	Close() (err error)
	// GetInfo returns metadata about the store and its entry map.
	// It is not guaranteed that all fields are filled in or that the information is up-to-date!
	GetInfo() (info db.DatabaseInfo)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("StoreError (code %s): %s", e.Code, e.Msg)
}

// Is reports whether target is a *Error with the same code, so that
// errors.Is(err, ErrClosed) matches every closed-store error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// NewError creates a new StoreError with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// ErrClosed is returned by write operations on a closed store
var ErrClosed = NewError(RetCStoreClosed, "store is closed")

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Command executed successfully.
	RetCInternalError                       // 1: Command failed due to an internal error.
	RetCUnsupportedOperation                // 2: Operation is not supported by the store.
	RetCInvalidOperation                    // 3: Invalid operation.
	RetCStoreClosed                         // 4: The store is closed.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCUnsupportedOperation:
		return "UnsupportedOperation"
	case RetCInvalidOperation:
		return "InvalidOperation"
	case RetCStoreClosed:
		return "StoreClosed"
	default:
		return "Unknown"
	}
}
