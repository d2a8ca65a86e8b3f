// Package storage provides the durable key-value store shared by the
// session store and the recovery snapshot manager.
//
// Both components write to the same store but under distinct keys, so
// there is no write contention between them. Within a single key, only
// the owning component ever writes.
//
// Backends:
//   - FileStore: one file per key, atomic write-then-rename, optional gzip
//   - MemStore: map-backed, for tests and degraded operation
//   - Nop: accepts writes and returns nothing; the terminal fallback
//
// Selection mirrors the client's storage ladder (durable store first,
// memory next, no-op last) via New.
package storage
