package storer

import (
	"context"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v3"
)

// snapshotKey is the single badger key holding the payload
var snapshotKey = []byte("satchel/snapshot")

// BadgerOptions configures NewBadgerStorer
type BadgerOptions struct {
	// Dir is the badger data directory. Ignored when InMemory is set.
	Dir string
	// InMemory keeps all data in memory, useful for tests
	InMemory bool
	// Key enables badger's encryption at rest (16, 24 or 32 bytes). Optional.
	Key []byte
}

// BadgerStorer keeps the payload under a single key of an embedded badger database.
// It is up to the caller to close the database with Close().
type BadgerStorer struct {
	db *badger.DB
}

// NewBadgerStorer opens (or creates) the badger database described by opts
func NewBadgerStorer(opts BadgerOptions) (*BadgerStorer, error) {
	var bOpts badger.Options
	if opts.InMemory {
		bOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Dir == "" {
			return nil, errors.New("badger storer: no directory given")
		}
		bOpts = badger.DefaultOptions(opts.Dir)
	}
	if len(opts.Key) > 0 {
		// badger requires an index cache when encryption is enabled
		bOpts = bOpts.WithEncryptionKey(opts.Key).WithIndexCacheSize(16 << 20)
	}
	bOpts = bOpts.WithLogger(Logger)

	db, err := badger.Open(bOpts)
	if err != nil {
		return nil, fmt.Errorf("badger storer: can't open the db: %w", err)
	}
	return &BadgerStorer{db: db}, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see storer.IStorer)
// --------------------------------------------------------------------------

func (b *BadgerStorer) Store(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(snapshotKey, data)
	})
	if err != nil {
		return fmt.Errorf("badger storer: transaction failed: %w", err)
	}
	return nil
}

func (b *BadgerStorer) Retrieve() ([]byte, error) {
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(snapshotKey)
		if err != nil {
			return err
		}
		// item values are only valid inside the transaction
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return []byte{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("badger storer: can't read the snapshot: %w", err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

// Close closes the underlying database
func (b *BadgerStorer) Close() error {
	return b.db.Close()
}
