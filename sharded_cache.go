package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/krisalay/memory-cacher/engine"
	"github.com/krisalay/memory-cacher/eviction"
	"github.com/krisalay/memory-cacher/expiration"
	"github.com/krisalay/memory-cacher/removal"
	"github.com/krisalay/memory-cacher/shard"
	"github.com/krisalay/memory-cacher/types"
)

// purgeEvery is the least clock time between two full expired scans made on
// behalf of an insert. The sweeper covers whatever expires in between.
const purgeEvery = 100 * time.Millisecond

/*
ShardedCache is the Entry Store.

This struct is the orchestrator that connects:
- shards (storage and per-shard locking)
- eviction (who goes when the cache is over its bound)
- the engine (time, expiration rules, metrics, removal hooks)
- the sweeper (background expiration)

Reads and writes of a key take only that key's shard lock, so work on keys in
different shards never contends. Capacity and MaxBytes bound the whole cache:
totals are kept in atomics, and only an insert that pushes a total over its
bound pays for a cache-wide eviction round.
*/
type ShardedCache struct {
	shards   []*shard.Shard
	engine   *engine.CacheEngine
	selector shard.Selector

	capacity     int64
	maxBytes     int64
	batchPercent int
	ordering     eviction.PolicyType
	sizer        func(any) int64
	pressure     eviction.Pressure

	sweeper *expiration.Sweeper

	// entries and bytes are cache-wide totals, expired-but-unswept included.
	// An insert reserves its share here before it reaches a shard.
	entries atomic.Int64
	bytes   atomic.Int64

	// seq orders writes and reads across all shards.
	seq atomic.Uint64

	// evictMu serializes eviction rounds. It is never taken while holding a
	// shard lock.
	evictMu   sync.Mutex
	lastPurge time.Time // guarded by evictMu

	closed atomic.Bool
}

var _ expiration.Target = (*ShardedCache)(nil)

// NewShardedCache builds the store and starts its sweeper.
func NewShardedCache(cfg Config) (*ShardedCache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	eng := engine.NewCacheEngine(nil, cfg.Clock, cfg.OnRemove, cfg.Metrics, cfg.Logger)

	s := make([]*shard.Shard, cfg.Shards)
	for i := range s {
		// Each shard gets its own eviction policy instance
		s[i] = shard.NewShard(eviction.NewEvictionPolicy(cfg.Ordering))
	}

	c := &ShardedCache{
		shards:       s,
		engine:       eng,
		selector:     shard.HashSelector{},
		capacity:     int64(cfg.Capacity),
		maxBytes:     cfg.MaxBytes,
		batchPercent: cfg.EvictionBatchPercent,
		ordering:     cfg.Ordering,
		sizer:        cfg.Sizer,
		pressure:     cfg.Pressure,
	}

	c.sweeper = expiration.NewSweeper(c, eng.Clock, cfg.SweepInterval, cfg.SweepConcurrency, eng.Logger)
	c.sweeper.Start()
	return c, nil
}

/*
Add inserts the entry only if no live entry exists for key.

A duplicate is not an error: Add returns false and leaves the existing entry
untouched. An expired entry does not count as live and is replaced.
*/
func (c *ShardedCache) Add(key string, value any, p types.Policy) (bool, error) {
	return c.insert(key, value, p, false)
}

// Set removes any existing entry for key and inserts the new one.
func (c *ShardedCache) Set(key string, value any, p types.Policy) error {
	_, err := c.insert(key, value, p, true)
	return err
}

/*
insert runs in three steps, never holding more than one lock at a time:

 1. Clear the key's slot under the shard lock (or stop, for an Add that
    finds a live entry).
 2. Reserve one entry and the value's size in the cache-wide totals. If that
    breaks a bound, or memory is under pressure, run an eviction round.
 3. Commit the entry under the shard lock. A writer that got in between
    steps 1 and 3 is handled the same way as in step 1.
*/
func (c *ShardedCache) insert(key string, value any, p types.Policy, replace bool) (bool, error) {
	if c.closed.Load() {
		return false, ErrClosed
	}
	if p.SlidingExpiration < 0 {
		return false, fmt.Errorf("%w: negative sliding expiration %s", ErrInvalidPolicy, p.SlidingExpiration)
	}

	ent := types.NewEntry(key, value, p)
	ent.Size = c.sizer(value)
	if c.maxBytes > 0 && ent.Size > c.maxBytes {
		return false, c.reject(key, nil, fmt.Errorf("%w: entry of %d bytes is over the %d byte bound",
			ErrCapacityExhausted, ent.Size, c.maxBytes))
	}

	sh := c.selector.Select(key, c.shards)

	removed, live := c.clearSlot(sh, key, replace)
	if live {
		return false, nil
	}

	count := c.entries.Add(1)
	bytes := c.bytes.Add(ent.Size)

	pressured := c.pressure != nil && c.pressure.UnderPressure()
	if pressured || c.over(count, bytes) {
		evicted, err := c.makeRoom(pressured)
		removed = append(removed, evicted...)
		if err != nil {
			c.release(ent.Size)
			return false, c.reject(key, removed, err)
		}
	}

	inserted, dropped := c.commit(sh, ent, replace)
	removed = append(removed, dropped...)
	if !inserted {
		c.release(ent.Size)
	}

	c.finish(removed, inserted)
	return inserted, nil
}

// clearSlot empties key's slot ahead of an insert. live reports an Add that
// must leave an existing live entry alone.
func (c *ShardedCache) clearSlot(sh *shard.Shard, key string, replace bool) (removed []engine.Removal, live bool) {
	sh.Mu.Lock()
	defer sh.Mu.Unlock()
	return c.vacateLocked(sh, key, c.engine.Now(), replace)
}

func (c *ShardedCache) commit(sh *shard.Shard, ent *types.CacheEntry, replace bool) (bool, []engine.Removal) {
	sh.Mu.Lock()
	defer sh.Mu.Unlock()

	now := c.engine.Now()
	removed, live := c.vacateLocked(sh, ent.Key, now, replace)
	if live {
		return false, removed
	}

	c.engine.OnWrite(ent, now)
	ent.InsertSeq = c.seq.Add(1)
	ent.MarkAccess(ent.InsertSeq)

	sh.Store.Put(ent.Key, ent)
	sh.Eviction.OnPut(ent.Key, ent.Priority)
	return true, removed
}

func (c *ShardedCache) vacateLocked(sh *shard.Shard, key string, now time.Time, replace bool) ([]engine.Removal, bool) {
	old, ok := sh.Store.Get(key)
	if !ok {
		return nil, false
	}

	switch {
	case c.engine.IsExpired(old, now):
		c.dropLocked(sh, old)
		return []engine.Removal{{Entry: old, Reason: removal.Expired}}, false
	case !replace:
		return nil, true
	default:
		c.dropLocked(sh, old)
		return []engine.Removal{{Entry: old, Reason: removal.Replaced}}, false
	}
}

// release gives back a reservation that was never committed.
func (c *ShardedCache) release(size int64) {
	c.entries.Add(-1)
	c.bytes.Add(-size)
}

func (c *ShardedCache) reject(key string, removed []engine.Removal, err error) error {
	c.engine.Metrics.Reject()
	c.engine.Logger.Printf("Warning: insert of %q rejected: %v", key, err)
	c.finish(removed, false)
	return fmt.Errorf("insert %q: %w", key, err)
}

// finish reports the outcome of a mutation once every shard lock is released.
func (c *ShardedCache) finish(removed []engine.Removal, changed bool) {
	if changed || len(removed) > 0 {
		c.engine.Metrics.Entries(c.entries.Load())
	}
	c.engine.Notify(removed)
}

/*
makeRoom brings the cache-wide totals back under their bounds.

 1. Expired entries are already dead, so they go first.
 2. Under memory pressure one batch is evicted even if the bounds still hold.
 3. While over a bound, victims are taken one at a time, best first across
    all shards, into a batch of at most batchSize; the bound is checked
    again after every batch.
 4. If no shard has anything left to give and the cache is still over, the
    insert is refused with ErrCapacityExhausted. NotRemovable entries are
    never touched.
*/
func (c *ShardedCache) makeRoom(pressured bool) ([]engine.Removal, error) {
	c.evictMu.Lock()
	defer c.evictMu.Unlock()

	now := c.engine.Now()

	var removed []engine.Removal
	if c.overNow() && c.purgeDue(now) {
		for _, sh := range c.shards {
			removed = append(removed, c.reap(sh, now)...)
		}
	}

	if pressured {
		removed = append(removed, c.evictBatch(now, true)...)
	}

	for c.overNow() {
		batch := c.evictBatch(now, false)
		if len(batch) == 0 {
			return removed, ErrCapacityExhausted
		}
		removed = append(removed, batch...)
	}
	return removed, nil
}

// purgeDue reports whether a full expired scan should run at now. Caller
// holds evictMu.
func (c *ShardedCache) purgeDue(now time.Time) bool {
	if d := now.Sub(c.lastPurge); !c.lastPurge.IsZero() && d >= 0 && d < purgeEvery {
		return false
	}
	c.lastPurge = now
	return true
}

// candidate is one shard's eviction head together with its entry.
// A nil ent means the shard has nothing evictable.
type candidate struct {
	eviction.Candidate
	ent *types.CacheEntry
}

// evictBatch removes up to one batch of victims. With force set it fills the
// whole batch regardless of the bounds. Expired heads met on the way are
// removed as expired and do not count against the batch.
func (c *ShardedCache) evictBatch(now time.Time, force bool) []engine.Removal {
	heads := make([]candidate, len(c.shards))
	for i, sh := range c.shards {
		heads[i] = c.peek(sh)
	}

	limit := c.batchSize()
	var removed []engine.Removal
	for victims := 0; victims < limit && (force || c.overNow()); {
		i := c.best(heads)
		if i < 0 {
			break
		}
		r, ok := c.evictHead(c.shards[i], heads[i], now)
		heads[i] = c.peek(c.shards[i])
		if !ok {
			continue
		}
		removed = append(removed, r)
		if r.Reason == removal.Evicted {
			victims++
		}
	}
	return removed
}

func (c *ShardedCache) peek(sh *shard.Shard) candidate {
	sh.Mu.Lock()
	defer sh.Mu.Unlock()

	for {
		head, ok := sh.Eviction.Peek()
		if !ok {
			return candidate{}
		}
		if ent, ok := sh.Store.Get(head.Key); ok {
			return candidate{Candidate: head, ent: ent}
		}
		sh.Eviction.Remove(head.Key)
	}
}

// best returns the index of the head that should go first, or -1.
func (c *ShardedCache) best(heads []candidate) int {
	bi := -1
	for i, h := range heads {
		if h.ent == nil {
			continue
		}
		if bi < 0 || c.less(h, heads[bi]) {
			bi = i
		}
	}
	return bi
}

// less ranks a before b: priority ascending, then access count (LFU only),
// then the cache-wide order the configured ordering follows.
func (c *ShardedCache) less(a, b candidate) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	if a.Weight != b.Weight {
		return a.Weight < b.Weight
	}
	return c.rank(a.ent) < c.rank(b.ent)
}

func (c *ShardedCache) rank(ent *types.CacheEntry) uint64 {
	if c.ordering == eviction.FIFO {
		return ent.InsertSeq
	}
	return ent.AccessSeq()
}

// evictHead removes want if it is still the head of its shard. A false
// return means the shard changed since it was peeked.
func (c *ShardedCache) evictHead(sh *shard.Shard, want candidate, now time.Time) (engine.Removal, bool) {
	sh.Mu.Lock()
	defer sh.Mu.Unlock()

	head, ok := sh.Eviction.Peek()
	if !ok || head.Key != want.Key {
		return engine.Removal{}, false
	}
	ent, ok := sh.Store.Get(head.Key)
	if !ok || ent != want.ent {
		return engine.Removal{}, false
	}

	reason := removal.Evicted
	if c.engine.IsExpired(ent, now) {
		reason = removal.Expired
	}
	c.dropLocked(sh, ent)
	return engine.Removal{Entry: ent, Reason: reason}, true
}

// over reports whether the given totals break a bound.
func (c *ShardedCache) over(count, bytes int64) bool {
	if c.capacity > 0 && count > c.capacity {
		return true
	}
	return c.maxBytes > 0 && bytes > c.maxBytes
}

func (c *ShardedCache) overNow() bool {
	return c.over(c.entries.Load(), c.bytes.Load())
}

func (c *ShardedCache) batchSize() int {
	base := c.capacity
	if base == 0 {
		base = c.entries.Load()
	}
	return max(1, int(base)*c.batchPercent/100)
}

/*
reap removes the expired entries of one shard.

The expired set is found on a snapshot without the shard lock. The lock is
then taken only to remove them, and each candidate is checked again in case a
Set replaced it in the meantime.
*/
func (c *ShardedCache) reap(sh *shard.Shard, now time.Time) []engine.Removal {
	var dead []*types.CacheEntry
	for _, ent := range sh.Store.Snapshot() {
		if ent.Mode != types.None && c.engine.IsExpired(ent, now) {
			dead = append(dead, ent)
		}
	}
	if len(dead) == 0 {
		return nil
	}

	removed := make([]engine.Removal, 0, len(dead))
	keys := make([]string, 0, len(dead))

	sh.Mu.Lock()
	defer sh.Mu.Unlock()

	var freed int64
	for _, ent := range dead {
		cur, ok := sh.Store.Get(ent.Key)
		if !ok || cur != ent || !c.engine.IsExpired(cur, now) {
			continue
		}
		keys = append(keys, ent.Key)
		freed += ent.Size
		sh.Eviction.Remove(ent.Key)
		removed = append(removed, engine.Removal{Entry: ent, Reason: removal.Expired})
	}
	sh.Store.DeleteMany(keys)
	c.entries.Add(-int64(len(keys)))
	c.bytes.Add(-freed)
	return removed
}

// dropLocked removes one entry from the shard's store and bookkeeping.
func (c *ShardedCache) dropLocked(sh *shard.Shard, ent *types.CacheEntry) {
	sh.Store.Delete(ent.Key)
	sh.Eviction.Remove(ent.Key)
	c.entries.Add(-1)
	c.bytes.Add(-ent.Size)
}

/*
Get returns the value of the live entry for key.

On a hit the entry's lastAccess is refreshed and, for a sliding entry, its
deadline moves to now + window. An expired entry is removed on the spot and
reported as a miss.
*/
func (c *ShardedCache) Get(key string) (any, bool) {
	sh := c.selector.Select(key, c.shards)

	sh.Mu.Lock()
	ent, ok := sh.Store.Get(key)
	if !ok {
		sh.Mu.Unlock()
		c.engine.Metrics.Miss()
		return nil, false
	}

	now := c.engine.Now()
	if c.engine.IsExpired(ent, now) {
		c.dropLocked(sh, ent)
		sh.Mu.Unlock()

		c.engine.Metrics.Miss()
		c.finish([]engine.Removal{{Entry: ent, Reason: removal.Expired}}, false)
		return nil, false
	}

	c.engine.OnRead(ent, now)
	ent.MarkAccess(c.seq.Add(1))
	sh.Eviction.OnGet(key)
	sh.Mu.Unlock()

	c.engine.Metrics.Hit()
	return ent.Value, true
}

// Contains reports whether a live entry exists for key. It does not count
// as an access: sliding deadlines and recency are left alone.
func (c *ShardedCache) Contains(key string) bool {
	sh := c.selector.Select(key, c.shards)
	ent, ok := sh.Store.Get(key)
	return ok && !c.engine.IsExpired(ent, c.engine.Now())
}

// Remove deletes key. Removing a missing key is a no-op.
func (c *ShardedCache) Remove(key string) {
	sh := c.selector.Select(key, c.shards)

	sh.Mu.Lock()
	ent, ok := sh.Store.Get(key)
	if ok {
		c.dropLocked(sh, ent)
	}
	sh.Mu.Unlock()

	if ok {
		c.finish([]engine.Removal{{Entry: ent, Reason: removal.Removed}}, false)
	}
}

// Len returns the number of stored entries. Entries that have expired but
// were not yet swept or read are still counted, as are inserts in flight.
func (c *ShardedCache) Len() int {
	return int(c.entries.Load())
}

// Bytes returns the estimated footprint of the stored entries.
func (c *ShardedCache) Bytes() int64 {
	return c.bytes.Load()
}

// Keys returns the keys of all live entries at roughly this moment.
func (c *ShardedCache) Keys() []string {
	now := c.engine.Now()
	var out []string
	for _, sh := range c.shards {
		for k, ent := range sh.Store.Snapshot() {
			if !c.engine.IsExpired(ent, now) {
				out = append(out, k)
			}
		}
	}
	return out
}

// Partitions implements expiration.Target.
func (c *ShardedCache) Partitions() int {
	return len(c.shards)
}

// SweepPartition implements expiration.Target.
func (c *ShardedCache) SweepPartition(i int, now time.Time) (int, error) {
	if i < 0 || i >= len(c.shards) {
		return 0, fmt.Errorf("no partition %d", i)
	}

	removed := c.reap(c.shards[i], now)
	c.finish(removed, false)
	return len(removed), nil
}

// Sweep runs one expiration cycle now and returns how many entries it removed.
func (c *ShardedCache) Sweep() (int, error) {
	return c.sweeper.RunOnce(context.Background())
}

/*
Close stops the sweeper. Inserts after Close fail with ErrClosed; reads and
removals keep working on whatever is left. Close is safe to call more than once.
*/
func (c *ShardedCache) Close() {
	if !c.closed.CompareAndSwap(false, true) {
		return
	}
	c.sweeper.Stop()
}
