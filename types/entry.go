package types

import (
	"sync/atomic"
	"time"
)

// ExpirationMode says which deadline rule governs an entry.
type ExpirationMode int

const (
	// None entries never expire. The sweeper skips them.
	None ExpirationMode = iota

	// Absolute entries expire at a fixed wall-clock deadline.
	Absolute

	// Sliding entries expire after a continuous idle window.
	Sliding
)

func (m ExpirationMode) String() string {
	switch m {
	case Absolute:
		return "absolute"
	case Sliding:
		return "sliding"
	default:
		return "none"
	}
}

/*
CacheEntry is one stored value plus everything the cache needs to decide
when it dies.

Everything except lastAccess, accessSeq and deadline is fixed at
construction. Those move on every read, so they are atomics: a reader on
another goroutine never sees half of an update, and the entry can be shared by
a shard snapshot and the read path at the same time.

The deadline is kept as a full time.Time rather than UnixNano, which cannot
represent times past the year 2262.
*/
type CacheEntry struct {
	Key   string
	Value any

	Mode             ExpirationMode
	AbsoluteDeadline time.Time     // zero => no absolute deadline
	SlidingWindow    time.Duration // zero => no sliding window
	Priority         Priority

	// Size is the estimated footprint used by the byte bound.
	Size int64

	CreatedAt time.Time

	// InsertSeq is the cache-wide write order of this entry.
	InsertSeq uint64

	lastAccess atomic.Int64              // UnixNano
	accessSeq  atomic.Uint64             // cache-wide access order
	deadline   atomic.Pointer[time.Time] // nil => never
}

// NewEntry builds an entry from a policy. Timestamps are left for the
// expiration strategy to stamp in OnWrite.
func NewEntry(key string, value any, p Policy) *CacheEntry {
	return &CacheEntry{
		Key:              key,
		Value:            value,
		Mode:             p.Mode(),
		AbsoluteDeadline: p.AbsoluteExpiration,
		SlidingWindow:    p.SlidingExpiration,
		Priority:         p.Priority,
	}
}

// LastAccess returns the time of the last successful read (or the write).
func (e *CacheEntry) LastAccess() time.Time {
	return time.Unix(0, e.lastAccess.Load())
}

// Touch records an access at now.
func (e *CacheEntry) Touch(now time.Time) {
	e.lastAccess.Store(now.UnixNano())
}

// AccessSeq returns the position of the last access in the cache-wide order.
// Lower means longer ago, across every shard.
func (e *CacheEntry) AccessSeq() uint64 {
	return e.accessSeq.Load()
}

// MarkAccess records seq as the entry's last position in the access order.
func (e *CacheEntry) MarkAccess(seq uint64) {
	e.accessSeq.Store(seq)
}

// Deadline returns the effective deadline and whether there is one.
func (e *CacheEntry) Deadline() (time.Time, bool) {
	d := e.deadline.Load()
	if d == nil {
		return time.Time{}, false
	}
	return *d, true
}

// SetDeadline stores the effective deadline. A zero time clears it.
func (e *CacheEntry) SetDeadline(t time.Time) {
	if t.IsZero() {
		e.deadline.Store(nil)
		return
	}
	e.deadline.Store(&t)
}
