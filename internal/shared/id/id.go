// Package id provides centralized ID generation for the backend.
//
// Session IDs use the best available secure randomness source (UUIDv4) and
// degrade to a timestamp+random fallback if entropy is unavailable.
// Uniqueness is required only within the lifetime of a running process.
//
// Timeline and snapshot IDs are prefixed ULIDs: lexicographically sortable,
// so timeline queries need no extra timestamps, and readable in logs.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// SessionID identifies one continuous timer run
type SessionID string

// EntryID identifies a timeline entry
type EntryID string

// SnapshotID identifies a recovery snapshot
type SnapshotID string

const (
	EntryPrefix    = "tl"
	SnapshotPrefix = "session"
)

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator with custom entropy source.
// Useful for testing with deterministic entropy.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewSessionID generates a session ID from the secure randomness source,
// falling back to timestamp+random when entropy is exhausted.
func NewSessionID() SessionID {
	u, err := uuid.NewRandom()
	if err != nil {
		return SessionID(fallbackID())
	}
	return SessionID(u.String())
}

// NewEntryID generates a timeline entry ID
func NewEntryID() EntryID {
	return EntryID(Default().GenerateWithPrefix(EntryPrefix))
}

// NewSnapshotID generates a recovery snapshot ID
func NewSnapshotID() SnapshotID {
	return SnapshotID(fmt.Sprintf("%s-%d", SnapshotPrefix, time.Now().UnixMilli()))
}

// NewRequestID generates an ID for request tracing
func NewRequestID() string {
	return Default().Generate().String()
}

func (id SessionID) String() string  { return string(id) }
func (id EntryID) String() string    { return string(id) }
func (id SnapshotID) String() string { return string(id) }

// IsValid checks if an ID string is a valid UUID
func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// fallbackID builds a reasonably unique id without secure entropy
func fallbackID() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1<<62))
	if err != nil {
		// Entropy fully unavailable; timestamp alone still satisfies
		// per-process uniqueness for interactive use.
		return fmt.Sprintf("%x-%x", time.Now().UnixNano(), time.Now().UnixMilli())
	}
	return fmt.Sprintf("%x-%x", time.Now().UnixNano(), n)
}
