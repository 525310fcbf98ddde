package types

// This file defines how the cache reports what it is doing.

/*
Metrics is an interface that defines what the cache wants to measure.
Each method represents an event in the cache lifecycle. The cache will call these methods whenever something happens.
*/
type Metrics interface {

	// Hit is called when the cache successfully returns a value.
	Hit()

	// Miss is called when the cache does NOT find a live entry for a key.
	Miss()

	// Eviction is called when a key is removed because the cache is over its bound and needs space.
	Eviction()

	// Expire is called when a key is removed because its deadline has passed.
	Expire()

	// Reject is called when an insert is refused because nothing evictable is left.
	Reject()

	// Entries reports the current number of stored entries after a mutation.
	Entries(n int64)
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

We don't want to force every user of the cache to implement metrics, and
we don't want nil checks all over the hot path, so the engine falls back to
this when no Metrics is configured.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()          {}
func (NoopMetrics) Miss()         {}
func (NoopMetrics) Eviction()     {}
func (NoopMetrics) Expire()       {}
func (NoopMetrics) Reject()       {}
func (NoopMetrics) Entries(int64) {}
