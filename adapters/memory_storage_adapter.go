package adapters

import "sync"

// MemoryStorageAdapter keeps persisted entries in process memory.
// Useful in tests and on hosts that manage durability themselves.
type MemoryStorageAdapter struct {
	mu      sync.Mutex
	entries []string
}

// Ensure MemoryStorageAdapter implements StorageAdapter interface
var _ StorageAdapter = (*MemoryStorageAdapter)(nil)

// NewMemoryStorageAdapter creates a new MemoryStorageAdapter instance.
func NewMemoryStorageAdapter() *MemoryStorageAdapter {
	return &MemoryStorageAdapter{}
}

// Save overwrites the stored entries with a copy of the given slice.
func (m *MemoryStorageAdapter) Save(entries []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append([]string(nil), entries...)
	return nil
}

// Load returns a copy of the stored entries.
func (m *MemoryStorageAdapter) Load() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.entries...), nil
}

// Clear removes all stored entries.
func (m *MemoryStorageAdapter) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	return nil
}
