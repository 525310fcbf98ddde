package cache

import (
	"fmt"
	"time"

	"github.com/krisalay/memory-cacher/api"
	"github.com/krisalay/memory-cacher/types"
)

/*
MemoryCacher is the Cache Facade: the public API most callers want.

It adds two things on top of the Entry Store:
  - duration-only overloads, where the duration is a SLIDING window
    ("drop after this much idle time"), never a wall-clock offset;
  - RetrieveOrElse, the compute-on-miss helper.
*/
type MemoryCacher struct {
	store *ShardedCache
}

var _ api.Cacher = (*MemoryCacher)(nil)

// New builds a store from cfg and wraps it. Call Close when done.
func New(cfg Config) (*MemoryCacher, error) {
	store, err := NewShardedCache(cfg)
	if err != nil {
		return nil, err
	}
	return NewMemoryCacher(store), nil
}

// NewMemoryCacher wraps an existing store.
func NewMemoryCacher(store *ShardedCache) *MemoryCacher {
	return &MemoryCacher{store: store}
}

// Store exposes the underlying Entry Store.
func (m *MemoryCacher) Store() *ShardedCache { return m.store }

// Add stores value under key with a sliding expiration window, unless a live
// entry already exists. A zero window means the entry never expires.
func (m *MemoryCacher) Add(key string, value any, expiration time.Duration) (bool, error) {
	return m.store.Add(key, value, types.SlidingPolicy(expiration))
}

// AddWithPolicy is Add with full control over expiration and priority.
func (m *MemoryCacher) AddWithPolicy(key string, value any, p types.Policy) (bool, error) {
	return m.store.Add(key, value, p)
}

// Set replaces whatever is stored under key, with a sliding expiration window.
func (m *MemoryCacher) Set(key string, value any, expiration time.Duration) error {
	return m.store.Set(key, value, types.SlidingPolicy(expiration))
}

// SetWithPolicy is Set with full control over expiration and priority.
func (m *MemoryCacher) SetWithPolicy(key string, value any, p types.Policy) error {
	return m.store.Set(key, value, p)
}

// Retrieve returns the live value for key. The bool distinguishes "missing"
// from "present with a nil or zero value".
func (m *MemoryCacher) Retrieve(key string) (any, bool) {
	return m.store.Get(key)
}

func (m *MemoryCacher) Contains(key string) bool {
	return m.store.Contains(key)
}

func (m *MemoryCacher) Remove(key string) {
	m.store.Remove(key)
}

// RetrieveOrElse returns the cached value, or calls producer and caches its
// result under a sliding window on a miss.
func (m *MemoryCacher) RetrieveOrElse(key string, expiration time.Duration, producer types.Producer) (any, error) {
	return m.RetrieveOrElseWithPolicy(key, types.SlidingPolicy(expiration), producer)
}

/*
RetrieveOrElseWithPolicy returns the cached value for key. On a miss it calls
producer on the calling goroutine, stores the result with Add and returns it.

Concurrent misses on one key are NOT coalesced: every caller that misses runs
its own producer. Because the store-back is an Add, the first value stored
wins and later ones are dropped, yet each caller still gets back the value its
own producer computed. A producer error is returned and nothing is cached.
*/
func (m *MemoryCacher) RetrieveOrElseWithPolicy(key string, p types.Policy, producer types.Producer) (any, error) {
	if v, ok := m.store.Get(key); ok {
		return v, nil
	}

	v, err := producer()
	if err != nil {
		return nil, fmt.Errorf("produce %q: %w", key, err)
	}
	if _, err := m.store.Add(key, v, p); err != nil {
		return nil, err
	}
	return v, nil
}

// Close stops background expiration. See ShardedCache.Close.
func (m *MemoryCacher) Close() {
	m.store.Close()
}
