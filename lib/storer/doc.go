// Package storer provides the last stage of the persistence pipeline
// (serializer -> encrypter -> storer): somewhere to keep one opaque payload.
//
// Implementations:
//
//   - NewFileStorer: a single file, replaced atomically through a uniquely named
//     temporary file, fsync and rename.
//   - NewBadgerStorer: a single key in an embedded badger database, on disk or in
//     memory, optionally with badger's encryption at rest. Must be closed by the caller.
//   - NewMemoryStorer: process memory, counts writes. For tests and ephemeral stores.
//
// A storer that never received a payload returns an empty slice from Retrieve, which the
// load pipeline treats as an empty store.
package storer
