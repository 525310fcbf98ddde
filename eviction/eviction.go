package eviction

import (
	"fmt"

	"github.com/krisalay/memory-cacher/types"
)

/*
This file defines how the cache decides what to remove when it runs over its bound.
*/

/*
Policy is the interface the shard talks to. It tracks every key together with its
priority and hands out victims on demand.

Victims are ranked by (priority ascending, ordering within the priority). With the
default LRU ordering that is exactly "lowest priority first, least recently used
first". NotRemovable keys are never tracked, so they can never be returned.

A Policy is not safe for concurrent use: the owning shard serializes calls under
its lock.
*/
type Policy interface {

	// OnGet is called whenever a key is read from the cache.
	OnGet(string)

	// OnPut is called whenever a key is inserted with the given priority.
	OnPut(string, types.Priority)

	// Remove is called when a key leaves the cache for any reason other than
	// being returned from Evict.
	Remove(string)

	// Peek returns the best victim without removing it.
	Peek() (Candidate, bool)

	// Evict picks up to n victims, best candidates first, and stops tracking them.
	// It returns fewer than n (possibly none) when fewer evictable keys exist.
	Evict(n int) []string

	// Len returns the number of evictable keys being tracked.
	Len() int
}

/*
Candidate is one shard's best victim, in a form that can be ranked against
the candidates of other shards.

Weight is the access count under LFU and zero otherwise. Ties on priority and
weight are broken by the caller using the entries' cache-wide sequence numbers.
*/
type Candidate struct {
	Key      string
	Priority types.Priority
	Weight   int
}

// PolicyType identifies how keys are ordered inside one priority tier.
type PolicyType string

const (
	// LRU (Least Recently Used): Evicts the key that has NOT been accessed for the longest time.
	LRU PolicyType = "LRU"

	// LFU (Least Frequently Used): Evicts the key that has been accessed the fewest times.
	// This works well when:
	// - Some keys are consistently hot
	// - Some keys are rarely used
	LFU PolicyType = "LFU"

	// FIFO (First In First Out): Evicts the oldest inserted key, regardless of access.
	FIFO PolicyType = "FIFO"
)

// Valid reports whether t names a known ordering.
func (t PolicyType) Valid() bool {
	switch t {
	case LRU, LFU, FIFO:
		return true
	}
	return false
}

// ordering is one tier's notion of "who goes first".
type ordering interface {
	OnGet(string)
	OnPut(string)
	Remove(string)
	Evict() (string, bool)
	Peek() (key string, weight int, ok bool)
	Len() int
}

func newOrdering(t PolicyType) ordering {
	switch t {
	case LFU:
		return newLFU()
	case FIFO:
		return newFIFO()
	default:
		return newLRU()
	}
}

// NewEvictionPolicy is a small factory function.
// Given a PolicyType, it creates a priority-tiered policy using that ordering inside each tier.
func NewEvictionPolicy(t PolicyType) Policy {
	if t == "" {
		t = LRU
	}
	if !t.Valid() {
		panic(fmt.Sprintf("unknown eviction policy %q", t))
	}
	return newTiered(t)
}
