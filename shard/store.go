package shard

import (
	"maps"
	"sync/atomic"

	"github.com/krisalay/memory-cacher/types"
)

// ShardStore is the interface used by a shard to store and retrieve cache entries.
type ShardStore interface {

	// Get retrieves an entry by key.
	Get(string) (*types.CacheEntry, bool)

	// Put inserts or replaces an entry.
	Put(string, *types.CacheEntry)

	// Delete removes an entry.
	Delete(string)

	// DeleteMany removes a batch of entries in one step.
	DeleteMany([]string)

	// Snapshot returns a consistent, read-only view of all entries.
	Snapshot() map[string]*types.CacheEntry

	// Size returns how many entries are stored.
	Size() int64
}

/*
cowStore is a Copy-On-Write implementation of ShardStore.

  - Readers always see an immutable map.
  - Writers build a NEW map and swap it in atomically.

Reads never lock, and Snapshot costs nothing: it is just the current map.
That is what lets the expiration sweep and eviction scan a shard without
blocking writers for the duration of the scan. Writers pay for it with a
copy, so batch removals go through DeleteMany to copy once.

Writers must be serialized by the caller (the shard lock).
*/
type cowStore struct {
	data atomic.Pointer[map[string]*types.CacheEntry]
}

func NewCOWStore() *cowStore {
	s := &cowStore{}
	m := make(map[string]*types.CacheEntry)
	s.data.Store(&m)
	return s
}

func (s *cowStore) load() map[string]*types.CacheEntry {
	return *s.data.Load()
}

func (s *cowStore) Get(key string) (*types.CacheEntry, bool) {
	ent, ok := s.load()[key]
	return ent, ok
}

func (s *cowStore) Put(key string, ent *types.CacheEntry) {
	old := s.load()
	n := make(map[string]*types.CacheEntry, len(old)+1)
	maps.Copy(n, old)
	n[key] = ent
	s.data.Store(&n)
}

func (s *cowStore) Delete(key string) {
	s.DeleteMany([]string{key})
}

func (s *cowStore) DeleteMany(keys []string) {
	old := s.load()

	present := 0
	for _, k := range keys {
		if _, ok := old[k]; ok {
			present++
		}
	}
	if present == 0 {
		return
	}

	n := maps.Clone(old)
	for _, k := range keys {
		delete(n, k)
	}
	s.data.Store(&n)
}

func (s *cowStore) Snapshot() map[string]*types.CacheEntry {
	return s.load()
}

func (s *cowStore) Size() int64 {
	return int64(len(s.load()))
}
