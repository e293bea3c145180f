package encrypter

import (
	"errors"
)

var (
	// ErrInvalidKey is returned when a key has the wrong length for the cipher
	ErrInvalidKey = errors.New("encrypter: invalid key")
	// ErrDecryptionFailed is returned for a wrong key, wrong associated data or corrupted data
	ErrDecryptionFailed = errors.New("encrypter: decryption failed, wrong key or corrupted data")
)

// IEncrypter is the second stage of the persistence pipeline. It transforms serialized
// bytes before they are handed to the storer, and back after they were retrieved.
//
// Both methods map empty input to empty output, so a store that never saved anything
// can be loaded with any encrypter.
type IEncrypter interface {
	// Encrypt returns the ciphertext of plaintext
	Encrypt(plaintext []byte) ([]byte, error)

	// Decrypt reverses Encrypt. Authentication failures are reported as ErrDecryptionFailed
	Decrypt(ciphertext []byte) ([]byte, error)
}

// Algorithm names an AEAD cipher
type Algorithm string

const (
	AlgAESGCM   Algorithm = "aes-gcm"
	AlgChaCha20 Algorithm = "chacha20"
)

// NewEncrypter creates an AEAD encrypter of the given algorithm with a raw key
func NewEncrypter(alg Algorithm, key, associatedData []byte) (IEncrypter, error) {
	switch alg {
	case AlgAESGCM:
		return NewAESGCMEncrypter(key, associatedData)
	case AlgChaCha20:
		return NewChaCha20Encrypter(key, associatedData)
	default:
		return nil, errors.New("encrypter: unknown algorithm " + string(alg))
	}
}

// NewNoneEncrypter returns an encrypter that passes data through unchanged
func NewNoneEncrypter() IEncrypter {
	return noneEncrypterImpl{}
}

type noneEncrypterImpl struct{}

func (noneEncrypterImpl) Encrypt(plaintext []byte) ([]byte, error) {
	return plaintext, nil
}

func (noneEncrypterImpl) Decrypt(ciphertext []byte) ([]byte, error) {
	return ciphertext, nil
}
