// Package encrypter provides the second stage of the persistence pipeline
// (serializer -> encrypter -> storer). Encrypters are byte to byte transforms.
//
// Implementations:
//
//   - NewNoneEncrypter: pass-through, the default of the store.
//   - NewAESGCMEncrypter: AES-GCM with 128/192/256 bit keys.
//   - NewChaCha20Encrypter: XChaCha20-Poly1305 with a 256 bit key.
//   - NewPassphraseEncrypter: one of the above with an argon2id key derived from a
//     passphrase. The salt is stored in the payload.
//
// All AEAD encrypters prepend a random nonce and accept optional associated data, which
// is authenticated on Decrypt but never stored. A wrong key, wrong associated data or any
// modified byte yields ErrDecryptionFailed.
//
// Keys can be created with GenerateKey or derived from a master secret with DeriveKey (HKDF).
//
// Thread Safety:
//
//	All encrypters are safe for concurrent use.
package encrypter
