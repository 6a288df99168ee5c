// Package securestore persists line-oriented records as encrypted blobs.
package securestore

import (
	"crypto/rand"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	// ErrCorruptData indicates that a blob failed authenticated decryption.
	// It is distinct from an absent blob, which reads as empty.
	ErrCorruptData = errors.New("corrupt data")
	// ErrInvalidKeySize indicates that the encryption key is not 256 bits.
	ErrInvalidKeySize = errors.New("invalid key size")
)

// KeySize is the required encryption key size in bytes.
const KeySize = chacha20poly1305.KeySize

// Store reads and writes named blobs of line records. A missing blob is an
// empty sequence of records, not an error, to support first-run bootstrap.
type Store interface {
	ReadRecords(key string) ([]string, error)
	WriteRecords(key string, lines []string) error
	AppendRecord(key string, line string) error
	Exists(key string) bool
}

// LoadOrCreateKey returns the encryption key stored at path, generating and
// persisting a fresh random key on first run.
func LoadOrCreateKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil {
		if len(key) != KeySize {
			return nil, ErrInvalidKeySize
		}

		return key, nil
	}

	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	key = make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, err
	}

	return key, nil
}
