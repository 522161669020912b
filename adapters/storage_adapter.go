package adapters

// StorageAdapter is an interface for persisting small pieces of SDK state
// (the consent decision and the visitor identity).
// Implement this interface to use custom storage backends (file, Redis,
// browser-style cookie jars, etc.).
type StorageAdapter interface {
	// Get retrieves the value stored under key.
	//
	// Returns an empty string with a nil error when the key is absent;
	// a non-nil error indicates the backend itself is unavailable.
	Get(key string) (string, error)

	// Set stores value under key.
	Set(key, value string) error

	// Delete removes the key from storage.
	// Deleting an absent key is not an error.
	Delete(key string) error
}
