package storage

import "sync"

// MemStore is a map-backed store. It satisfies the same contract as the
// file store but survives only for the life of the process.
type MemStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemStore creates an in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string][]byte)}
}

// Get reads the value stored under key.
func (s *MemStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set writes value under key.
func (s *MemStore) Set(key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	s.mu.Lock()
	s.values[key] = stored
	s.mu.Unlock()
	return nil
}

// Remove deletes the value stored under key.
func (s *MemStore) Remove(key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

// Available always reports true for the memory store.
func (s *MemStore) Available() bool { return true }

// Kind returns the storage mechanism name.
func (s *MemStore) Kind() string { return "memory" }
