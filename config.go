package cache

import (
	"fmt"
	"log"
	"time"

	"github.com/krisalay/memory-cacher/clock"
	"github.com/krisalay/memory-cacher/eviction"
	"github.com/krisalay/memory-cacher/expiration"
	"github.com/krisalay/memory-cacher/removal"
	"github.com/krisalay/memory-cacher/types"
)

const (
	DefaultShards               = 16
	DefaultEvictionBatchPercent = 10
	DefaultSweepConcurrency     = 4
)

/*
Config is everything a cache instance needs, passed in at construction.

Zero values pick sensible defaults:
  - Shards: 16
  - Capacity / MaxBytes: cache-wide bounds; 0 means unbounded on that axis
  - Sizer: nil means every entry weighs 1 byte
  - EvictionBatchPercent: 10
  - Ordering: LRU
  - SweepInterval: 5s; a negative value turns the sweeper off
  - SweepConcurrency: 4 shards swept at once
  - Clock: wall clock
  - Metrics: no-op
  - Logger: standard logger with a "memory-cacher: " prefix
*/
type Config struct {
	Shards   int
	Capacity int
	MaxBytes int64
	Sizer    func(value any) int64

	// EvictionBatchPercent caps how many entries one eviction round removes,
	// as a percentage of Capacity.
	EvictionBatchPercent int

	// Ordering ranks keys inside one priority tier.
	Ordering eviction.PolicyType

	// Pressure, when set, forces one eviction batch per insert while it reports true.
	Pressure eviction.Pressure

	SweepInterval    time.Duration
	SweepConcurrency int

	Clock    clock.Clock
	Metrics  types.Metrics
	Logger   *log.Logger
	OnRemove removal.Hook
}

// Validate rejects configurations that cannot be honored.
func (c Config) Validate() error {
	switch {
	case c.Shards < 0:
		return fmt.Errorf("%w: negative shard count %d", ErrInvalidConfig, c.Shards)
	case c.Capacity < 0:
		return fmt.Errorf("%w: negative capacity %d", ErrInvalidConfig, c.Capacity)
	case c.MaxBytes < 0:
		return fmt.Errorf("%w: negative byte bound %d", ErrInvalidConfig, c.MaxBytes)
	case c.EvictionBatchPercent < 0 || c.EvictionBatchPercent > 100:
		return fmt.Errorf("%w: eviction batch percent %d out of [0,100]", ErrInvalidConfig, c.EvictionBatchPercent)
	case c.SweepConcurrency < 0:
		return fmt.Errorf("%w: negative sweep concurrency %d", ErrInvalidConfig, c.SweepConcurrency)
	case c.Ordering != "" && !c.Ordering.Valid():
		return fmt.Errorf("%w: unknown eviction ordering %q", ErrInvalidConfig, c.Ordering)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.Shards == 0 {
		c.Shards = DefaultShards
	}
	if c.EvictionBatchPercent == 0 {
		c.EvictionBatchPercent = DefaultEvictionBatchPercent
	}
	if c.Ordering == "" {
		c.Ordering = eviction.LRU
	}
	if c.SweepInterval == 0 {
		c.SweepInterval = expiration.DefaultSweepInterval
	}
	if c.SweepConcurrency == 0 {
		c.SweepConcurrency = DefaultSweepConcurrency
	}
	if c.Sizer == nil {
		c.Sizer = func(any) int64 { return 1 }
	}
	return c
}
