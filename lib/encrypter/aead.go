package encrypter

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// NewAESGCMEncrypter creates an AES-GCM encrypter. The key must be 16, 24 or 32 bytes
// long (AES-128/192/256). Every Encrypt uses a fresh random nonce that is prepended to
// the ciphertext. associatedData is authenticated but not stored, it may be nil.
func NewAESGCMEncrypter(key, associatedData []byte) (IEncrypter, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: AES-GCM needs 16, 24 or 32 bytes, got %d", ErrInvalidKey, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &aeadEncrypterImpl{aead: aead, ad: associatedData}, nil
}

// NewChaCha20Encrypter creates an XChaCha20-Poly1305 encrypter with a 32 byte key.
// The extended 24 byte nonce is safe to choose at random for any number of saves.
func NewChaCha20Encrypter(key, associatedData []byte) (IEncrypter, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("%w: XChaCha20-Poly1305 needs %d bytes, got %d",
			ErrInvalidKey, chacha20poly1305.KeySize, len(key))
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return &aeadEncrypterImpl{aead: aead, ad: associatedData}, nil
}

// aeadEncrypterImpl seals data as nonce || ciphertext || tag
//
// Thread-safety: cipher.AEAD implementations are safe for concurrent use.
type aeadEncrypterImpl struct {
	aead cipher.AEAD
	ad   []byte
}

// --------------------------------------------------------------------------
// Interface Methods (docu see encrypter.IEncrypter)
// --------------------------------------------------------------------------

func (e *aeadEncrypterImpl) Encrypt(plaintext []byte) ([]byte, error) {
	if len(plaintext) == 0 {
		return []byte{}, nil
	}

	nonce := make([]byte, e.aead.NonceSize(), e.aead.NonceSize()+len(plaintext)+e.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return e.aead.Seal(nonce, nonce, plaintext, e.ad), nil
}

func (e *aeadEncrypterImpl) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 {
		return []byte{}, nil
	}
	if len(ciphertext) < e.aead.NonceSize()+e.aead.Overhead() {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrDecryptionFailed)
	}

	nonce, sealed := ciphertext[:e.aead.NonceSize()], ciphertext[e.aead.NonceSize():]
	plaintext, err := e.aead.Open(nil, nonce, sealed, e.ad)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}
