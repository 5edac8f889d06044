package snapshot

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// Encryption errors.
var (
	ErrPassphraseTooWeak = errors.New("snapshot: passphrase too weak (minimum 8 characters)")
	ErrPassphraseMissing = errors.New("snapshot: archive is encrypted but no passphrase is configured")
	ErrDecryptionFailed  = errors.New("snapshot: decryption failed - wrong passphrase or corrupted data")
)

const (
	// MinPassphraseLength is the minimum passphrase length.
	MinPassphraseLength = 8

	// SaltLength is the salt length used in key derivation.
	SaltLength = 16

	// Argon2 parameters for key derivation from passphrase.
	argon2Time    = 3
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32

	subkeyInfo = "filecabinet snapshot data v1"
)

// ValidatePassphrase checks an optional passphrase. An empty one disables encryption.
func ValidatePassphrase(passphrase []byte) error {
	if len(passphrase) > 0 && len(passphrase) < MinPassphraseLength {
		return ErrPassphraseTooWeak
	}
	return nil
}

// NewSalt returns a random salt for one archive.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("snapshot: generate salt: %w", err)
	}
	return salt, nil
}

// sealer encrypts and decrypts one archive's data block.
type sealer struct {
	aead cipher.AEAD
}

// newSealer derives the data key for passphrase and salt.
func newSealer(passphrase, salt []byte) (*sealer, error) {
	if len(salt) != SaltLength {
		return nil, fmt.Errorf("snapshot: invalid salt length %d", len(salt))
	}

	master := argon2.IDKey(passphrase, salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
	defer ZeroKey(master)

	key, err := deriveSubkey(master, subkeyInfo, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	defer ZeroKey(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("snapshot: init cipher: %w", err)
	}
	return &sealer{aead: aead}, nil
}

// seal returns nonce || ciphertext. The header bytes are bound as additional data.
func (s *sealer) seal(plain, header []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plain)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("snapshot: generate nonce: %w", err)
	}
	return s.aead.Seal(nonce, nonce, plain, header), nil
}

func (s *sealer) open(data, header []byte) ([]byte, error) {
	n := s.aead.NonceSize()
	if len(data) < n+s.aead.Overhead() {
		return nil, ErrDecryptionFailed
	}
	plain, err := s.aead.Open(nil, data[:n], data[n:], header)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plain, nil
}

func deriveSubkey(master []byte, info string, length int) ([]byte, error) {
	reader := hkdf.New(sha256.New, master, nil, []byte(info))
	key := make([]byte, length)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("snapshot: derive subkey: %w", err)
	}
	return key, nil
}

// ZeroKey zeros a key in memory.
func ZeroKey(key []byte) {
	for i := range key {
		key[i] = 0
	}
}
