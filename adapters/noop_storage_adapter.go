package adapters

// NoOpStorageAdapter is a storage adapter that performs no operations.
// Useful for scenarios where state persistence is not required or not
// permitted.
type NoOpStorageAdapter struct{}

// NewNoOpStorageAdapter creates a new NoOpStorageAdapter instance.
func NewNoOpStorageAdapter() *NoOpStorageAdapter {
	return &NoOpStorageAdapter{}
}

// Get always reports the key as absent.
func (n *NoOpStorageAdapter) Get(key string) (string, error) {
	return "", nil
}

// Set does nothing and always returns nil.
func (n *NoOpStorageAdapter) Set(key, value string) error {
	return nil
}

// Delete does nothing and always returns nil.
func (n *NoOpStorageAdapter) Delete(key string) error {
	return nil
}
