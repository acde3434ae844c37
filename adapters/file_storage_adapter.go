package adapters

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
)

// FileStorageAdapter is the default storage adapter implementation using
// the file system. Entries are stored as a gzip-compressed JSON array so
// large archives stay small on constrained devices.
type FileStorageAdapter struct {
	filepath string
}

// Ensure FileStorageAdapter implements StorageAdapter interface
var _ StorageAdapter = (*FileStorageAdapter)(nil)

// NewFileStorageAdapter creates a new FileStorageAdapter instance.
//
// Parameters:
//   - filepath: Path to the file where entries will be stored
func NewFileStorageAdapter(filepath string) StorageAdapter {
	return &FileStorageAdapter{filepath: filepath}
}

// Save persists entries to a gzip-compressed JSON file.
func (f *FileStorageAdapter) Save(entries []string) error {
	var buf bytes.Buffer
	gz, err := gzip.NewWriterLevel(&buf, gzip.BestSpeed)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(gz).Encode(entries); err != nil {
		gz.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}
	if dir := filepath.Dir(f.filepath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return os.WriteFile(f.filepath, buf.Bytes(), 0o600)
}

// Load retrieves entries from the file.
// Returns an empty slice if the file doesn't exist.
func (f *FileStorageAdapter) Load() ([]string, error) {
	file, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	data, err := io.ReadAll(gz)
	if err != nil {
		return nil, err
	}

	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Clear removes the storage file. A missing file is not an error.
func (f *FileStorageAdapter) Clear() error {
	err := os.Remove(f.filepath)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
