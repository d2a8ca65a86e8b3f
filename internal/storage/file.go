package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// FileStore persists each key as a file under a single directory.
// Writes go through a temp file and rename so a crash mid-write never
// leaves a torn document behind.
type FileStore struct {
	dir      string
	compress bool
}

// NewFileStore creates a file-backed store rooted at dir.
func NewFileStore(dir string, compress bool) *FileStore {
	return &FileStore{dir: dir, compress: compress}
}

// Get reads the value stored under key.
func (s *FileStore) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(s.keyPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	// Sniff rather than trust the compress flag so documents written
	// before a config change still read back.
	if isGzip(data) {
		return gunzip(data)
	}
	return data, nil
}

// Set writes value under key atomically.
func (s *FileStore) Set(key string, value []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create storage dir: %w", err)
	}

	if s.compress {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(value); err != nil {
			return fmt.Errorf("failed to compress %s: %w", key, err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("failed to compress %s: %w", key, err)
		}
		value = buf.Bytes()
	}

	path := s.keyPath(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to commit %s: %w", key, err)
	}
	return nil
}

// Remove deletes the value stored under key. Removing a missing key is
// not an error.
func (s *FileStore) Remove(key string) error {
	if err := os.Remove(s.keyPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Available probes the directory for writability.
func (s *FileStore) Available() bool {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return false
	}
	probe := filepath.Join(s.dir, ".probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return false
	}
	os.Remove(probe)
	return true
}

// Kind returns the storage mechanism name.
func (s *FileStore) Kind() string { return "file" }

// keyPath maps a storage key to a filename. Keys contain dots but no
// separators; anything unexpected is flattened.
func (s *FileStore) keyPath(key string) string {
	safe := strings.ReplaceAll(key, string(os.PathSeparator), "_")
	return filepath.Join(s.dir, safe+".json")
}

func isGzip(data []byte) bool {
	return len(data) > 2 && data[0] == 0x1f && data[1] == 0x8b
}

func gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	return out, nil
}
