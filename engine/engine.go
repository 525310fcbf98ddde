package engine

import (
	"log"
	"time"

	"github.com/krisalay/memory-cacher/clock"
	"github.com/krisalay/memory-cacher/expiration"
	"github.com/krisalay/memory-cacher/removal"
	"github.com/krisalay/memory-cacher/types"
)

/*
CacheEngine is the "brain" of the cache system.
It is responsible for the "behavior" of the cache, NOT storage.

It decides:
- What time it is
- When data is expired
- How deadlines move on reads and writes
- Who hears about removals
- How metrics are recorded

It does NOT:
- Store data
- Handle sharding
- Handle locking
- Decide eviction order
*/
type CacheEngine struct {

	// Expiration decides when an entry is "too old".
	// The default applies each entry's own sliding/absolute policy.
	Expiration expiration.Strategy

	// Clock is the time source every deadline is computed against.
	Clock clock.Clock

	// OnRemove, if set, hears about every entry that leaves the cache.
	OnRemove removal.Hook

	// Metrics records hits, misses, evictions, expirations and rejections.
	Metrics types.Metrics

	// Logger receives warnings from the cache and its sweeper.
	Logger *log.Logger
}

// Removal is one entry that left the cache, queued for the removal hook.
type Removal struct {
	Entry  *types.CacheEntry
	Reason removal.Reason
}

/*
NewCacheEngine creates a CacheEngine. Nil arguments fall back to working
defaults so the rest of the code never has to nil-check them.
*/
func NewCacheEngine(
	exp expiration.Strategy,
	clk clock.Clock,
	onRemove removal.Hook,
	metrics types.Metrics,
	logger *log.Logger,
) *CacheEngine {
	if exp == nil {
		exp = expiration.PolicyStrategy{}
	}
	if clk == nil {
		clk = clock.System{}
	}
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}
	if logger == nil {
		logger = log.New(log.Writer(), "memory-cacher: ", log.LstdFlags)
	}

	return &CacheEngine{
		Expiration: exp,
		Clock:      clk,
		OnRemove:   onRemove,
		Metrics:    metrics,
		Logger:     logger,
	}
}

// Now reads the engine clock.
func (e *CacheEngine) Now() time.Time {
	return e.Clock.Now()
}

// IsExpired checks whether a cache entry is expired at now.
func (e *CacheEngine) IsExpired(ent *types.CacheEntry, now time.Time) bool {
	return e.Expiration.IsExpired(ent, now)
}

// OnRead is called every time the cache successfully returns a value.
// It refreshes lastAccess and, for sliding entries, the deadline.
func (e *CacheEngine) OnRead(ent *types.CacheEntry, now time.Time) {
	e.Expiration.OnAccess(ent, now)
}

// OnWrite is called once for every new entry before it becomes visible.
func (e *CacheEngine) OnWrite(ent *types.CacheEntry, now time.Time) {
	e.Expiration.OnWrite(ent, now)
}

/*
Notify records metrics for removed entries and runs the removal hook.

It must be called after the shard lock is released: the hook is user code
and may call back into the cache.
*/
func (e *CacheEngine) Notify(removed []Removal) {
	for _, r := range removed {
		switch r.Reason {
		case removal.Expired:
			e.Metrics.Expire()
		case removal.Evicted:
			e.Metrics.Eviction()
		}
		if e.OnRemove != nil {
			e.OnRemove.OnRemove(r.Entry.Key, r.Entry.Value, r.Reason)
		}
	}
}
