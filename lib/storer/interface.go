package storer

import (
	"context"

	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("storer")

// IStorer is the last stage of the persistence pipeline. It holds exactly one payload:
// the most recent snapshot, as produced by serializer and encrypter.
//
// Thread-safety: The store calls Store from a single goroutine only, and never
// concurrently with itself. Retrieve is called once before the first Store.
// Implementations here are nevertheless safe for concurrent use.
type IStorer interface {
	// Store replaces the persisted payload with data. The context is never canceled
	// by the store, but callers using a storer directly may do so.
	Store(ctx context.Context, data []byte) error

	// Retrieve returns the persisted payload, or an empty slice if nothing was
	// stored yet.
	Retrieve() ([]byte, error)
}
