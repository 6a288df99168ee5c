package securestore

import "sync"

// Memory is an in-memory Store for tests of the layers above, so they can
// run without touching disk or encryption.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]string)}
}

// ReadRecords returns the lines stored under key, or nothing if absent.
func (m *Memory) ReadRecords(key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lines, ok := m.blobs[key]
	if !ok {
		return nil, nil
	}

	out := make([]string, len(lines))
	copy(out, lines)

	return out, nil
}

// WriteRecords replaces the lines stored under key.
func (m *Memory) WriteRecords(key string, lines []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]string, len(lines))
	copy(stored, lines)
	m.blobs[key] = stored

	return nil
}

// AppendRecord appends a single line to the blob stored under key.
func (m *Memory) AppendRecord(key string, line string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blobs[key] = append(m.blobs[key], line)

	return nil
}

// Exists reports whether a blob is stored under key.
func (m *Memory) Exists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.blobs[key]

	return ok
}
