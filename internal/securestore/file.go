package securestore

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// FileStore keeps each blob in its own file under a root directory,
// encrypted with ChaCha20-Poly1305. The on-disk layout of a blob is
// nonce || ciphertext+tag, with a fresh random nonce for every write.
// Writes go through a temp file and rename so a crash mid-write never
// leaves a partially written blob behind.
type FileStore struct {
	dir  string
	aead cipher.AEAD
}

// NewFileStore returns a file store rooted at dir using the given 256-bit key.
func NewFileStore(dir string, key []byte) (*FileStore, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}

	return &FileStore{dir: dir, aead: aead}, nil
}

// ReadRecords decrypts the blob stored under key and returns its lines.
// A missing blob yields no lines and no error.
func (s *FileStore) ReadRecords(key string) ([]string, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, err
	}

	if len(data) < s.aead.NonceSize()+s.aead.Overhead() {
		return nil, ErrCorruptData
	}

	nonce, ciphertext := data[:s.aead.NonceSize()], data[s.aead.NonceSize():]

	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrCorruptData
	}

	return splitLines(string(plaintext)), nil
}

// WriteRecords encrypts lines and replaces the blob stored under key.
func (s *FileStore) WriteRecords(key string, lines []string) error {
	var plaintext string
	if len(lines) > 0 {
		plaintext = strings.Join(lines, "\n") + "\n"
	}

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return err
	}

	blob := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)

	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o600); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

// AppendRecord appends a single line to the blob stored under key.
// It is a read-modify-write; callers must serialize appends to the same key.
func (s *FileStore) AppendRecord(key string, line string) error {
	lines, err := s.ReadRecords(key)
	if err != nil {
		return err
	}

	return s.WriteRecords(key, append(lines, line))
}

// Exists reports whether a blob is stored under key.
func (s *FileStore) Exists(key string) bool {
	_, err := os.Stat(s.path(key))
	return err == nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, filepath.FromSlash(key))
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}

	return lines
}
