package adapters

import "sync"

// MemoryStorageAdapter is an in-memory storage adapter. State does not
// survive the process; it is the fallback backend when nothing durable is
// available, and the backend of choice in tests.
type MemoryStorageAdapter struct {
	mu     sync.RWMutex
	values map[string]string
}

// Ensure MemoryStorageAdapter implements StorageAdapter interface
var _ StorageAdapter = (*MemoryStorageAdapter)(nil)

// NewMemoryStorageAdapter creates a new MemoryStorageAdapter instance.
func NewMemoryStorageAdapter() *MemoryStorageAdapter {
	return &MemoryStorageAdapter{values: make(map[string]string)}
}

// Get retrieves a value from memory.
func (m *MemoryStorageAdapter) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key], nil
}

// Set stores a value in memory.
func (m *MemoryStorageAdapter) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Delete removes a key from memory.
func (m *MemoryStorageAdapter) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
