package expiration

import (
	"time"

	"github.com/krisalay/memory-cacher/types"
)

/*
PolicyStrategy expires each entry according to the policy it was stored with.

  - Sliding window: every successful read pushes the deadline to now + window.
    As long as the entry keeps getting read it stays alive.
  - Absolute deadline: fixed. Reads do not move it.
  - Both present: they apply independently and the earlier one wins, so a
    sliding entry can never outlive its absolute deadline.
  - Neither: the entry never expires.

An entry is expired at or after its deadline.
*/
type PolicyStrategy struct{}

// IsExpired checks whether the entry is expired at this moment.
func (PolicyStrategy) IsExpired(ent *types.CacheEntry, now time.Time) bool {
	d, ok := ent.Deadline()
	return ok && !now.Before(d)
}

// OnAccess records the read and slides the deadline forward.
func (s PolicyStrategy) OnAccess(ent *types.CacheEntry, now time.Time) {
	ent.Touch(now)
	if ent.SlidingWindow > 0 {
		ent.SetDeadline(effectiveDeadline(ent, now))
	}
}

// OnWrite stamps creation and access times and computes the first deadline.
func (s PolicyStrategy) OnWrite(ent *types.CacheEntry, now time.Time) {
	ent.CreatedAt = now
	ent.Touch(now)
	ent.SetDeadline(effectiveDeadline(ent, now))
}

func effectiveDeadline(ent *types.CacheEntry, now time.Time) time.Time {
	var d time.Time
	if ent.SlidingWindow > 0 {
		d = now.Add(ent.SlidingWindow)
	}
	if abs := ent.AbsoluteDeadline; !abs.IsZero() && (d.IsZero() || abs.Before(d)) {
		d = abs
	}
	return d
}
