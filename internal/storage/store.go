package storage

import "errors"

// Storage keys for the two independent persistence streams. The live
// session state and the recovery snapshot must never share a key.
const (
	SessionKey  = "mrTimely.globalTimer.v1"
	RecoveryKey = "mr-timely-current-session"
)

var (
	// ErrNotFound is returned when a key has no stored value.
	ErrNotFound = errors.New("storage: key not found")
	// ErrUnavailable is returned when the backing store cannot be used.
	ErrUnavailable = errors.New("storage: unavailable")
)

// Store is a durable key-value store. All operations are fallible;
// callers treat failures as best-effort degradation, not fatal errors.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error

	// Available reports whether the backing mechanism is usable.
	Available() bool
	// Kind names the storage mechanism ("file", "memory", "none").
	Kind() string
}

// New returns the best available store: the file store when its directory
// is writable, a memory store otherwise, and a no-op store as the terminal
// fallback.
func New(dir string, compress bool) Store {
	fs := NewFileStore(dir, compress)
	if fs.Available() {
		return fs
	}
	ms := NewMemStore()
	if ms.Available() {
		return ms
	}
	return Nop()
}

// nop accepts writes and returns nothing.
type nop struct{}

// Nop returns a store that silently drops everything.
func Nop() Store { return nop{} }

func (nop) Get(string) ([]byte, error) { return nil, ErrNotFound }
func (nop) Set(string, []byte) error   { return nil }
func (nop) Remove(string) error        { return nil }
func (nop) Available() bool            { return false }
func (nop) Kind() string               { return "none" }
