// Package memstore implements the storage client contract on an
// in-memory map.
//
// It exists to prove the contract is backend-agnostic and to give the
// driver a deterministic backend for tests: no filesystem, no external
// latency. Reads and deletes of missing keys fail just like the
// filesystem adapter, so the tombstone check behaves identically.
//
// # Thread Safety
//
// The map is guarded by a RWMutex, allowing concurrent reads while
// serializing writes. Handlers share the store and are safe to use
// from any number of goroutines.
package memstore
