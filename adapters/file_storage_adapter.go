package adapters

import (
	"encoding/json"
	"os"
)

// FileStorageAdapter is the default storage adapter implementation using the
// file system. State is stored as a JSON object of key/value pairs.
type FileStorageAdapter struct {
	filepath string
}

// Ensure FileStorageAdapter implements StorageAdapter interface
var _ StorageAdapter = (*FileStorageAdapter)(nil)

// NewFileStorageAdapter creates a new FileStorageAdapter instance.
//
// Parameters:
//   - filepath: Path to the file where state will be stored
func NewFileStorageAdapter(filepath string) StorageAdapter {
	return &FileStorageAdapter{filepath: filepath}
}

func (f *FileStorageAdapter) read() (map[string]string, error) {
	data, err := os.ReadFile(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return values, nil
}

func (f *FileStorageAdapter) write(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return os.WriteFile(f.filepath, data, 0644)
}

// Get retrieves a value from the JSON file.
// Returns an empty string if the file or key does not exist.
func (f *FileStorageAdapter) Get(key string) (string, error) {
	values, err := f.read()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

// Set stores a value in the JSON file, preserving other keys.
func (f *FileStorageAdapter) Set(key, value string) error {
	values, err := f.read()
	if err != nil {
		return err
	}
	values[key] = value
	return f.write(values)
}

// Delete removes a key from the JSON file.
func (f *FileStorageAdapter) Delete(key string) error {
	values, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return f.write(values)
}
