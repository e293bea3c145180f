package encrypter

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
)

// GenerateKey returns length random bytes from crypto/rand
func GenerateKey(length int) ([]byte, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidKey, length)
	}
	key := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// DeriveKey expands a master secret into a key of the given length with HKDF-SHA256.
// Different info values yield independent keys, e.g. one per store name.
func DeriveKey(master, info []byte, length int) ([]byte, error) {
	if len(master) == 0 {
		return nil, fmt.Errorf("%w: empty master secret", ErrInvalidKey)
	}
	if length <= 0 {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidKey, length)
	}
	key := make([]byte, length)
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, info), key); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return key, nil
}

// Argon2id parameters for passphrase keys
const (
	saltLength    = 16
	argon2Time    = 3
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32

	// MinPassphraseLength is the shortest passphrase NewPassphraseEncrypter accepts
	MinPassphraseLength = 8
)

// NewPassphraseEncrypter encrypts with a key derived from passphrase by argon2id.
// Each Encrypt picks a new random salt and writes it in front of the AEAD payload:
//
//	salt (16 bytes) | nonce | ciphertext | tag
//
// so the data can be decrypted with nothing but the passphrase. Deriving a key takes
// tens of milliseconds, which is fine for snapshot saves but not for hot paths.
func NewPassphraseEncrypter(passphrase []byte, alg Algorithm) (IEncrypter, error) {
	if len(passphrase) < MinPassphraseLength {
		return nil, fmt.Errorf("%w: passphrase shorter than %d characters", ErrInvalidKey, MinPassphraseLength)
	}
	if alg == "" {
		alg = AlgChaCha20
	}
	if _, err := NewEncrypter(alg, make([]byte, argon2KeyLen), nil); err != nil {
		return nil, err
	}

	p := make([]byte, len(passphrase))
	copy(p, passphrase)
	return &passphraseEncrypterImpl{passphrase: p, alg: alg}, nil
}

type passphraseEncrypterImpl struct {
	passphrase []byte
	alg        Algorithm
}

func (p *passphraseEncrypterImpl) inner(salt []byte) (IEncrypter, error) {
	key := argon2.IDKey(p.passphrase, salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
	// the salt doubles as associated data, binding it to the payload
	return NewEncrypter(p.alg, key, salt)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see encrypter.IEncrypter)
// --------------------------------------------------------------------------

func (p *passphraseEncrypterImpl) Encrypt(plaintext []byte) ([]byte, error) {
	if len(plaintext) == 0 {
		return []byte{}, nil
	}

	salt, err := GenerateKey(saltLength)
	if err != nil {
		return nil, err
	}
	enc, err := p.inner(salt)
	if err != nil {
		return nil, err
	}
	sealed, err := enc.Encrypt(plaintext)
	if err != nil {
		return nil, err
	}
	return append(salt, sealed...), nil
}

func (p *passphraseEncrypterImpl) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 {
		return []byte{}, nil
	}
	if len(ciphertext) <= saltLength {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrDecryptionFailed)
	}

	salt := ciphertext[:saltLength]
	enc, err := p.inner(salt)
	if err != nil {
		return nil, err
	}
	return enc.Decrypt(ciphertext[saltLength:])
}
