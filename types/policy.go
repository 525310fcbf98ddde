package types

import "time"

// Priority ranks entries for eviction. It never affects expiration.
// The zero value is Default.
type Priority int

const (
	Low Priority = iota - 2
	BelowNormal
	Default
	AboveNormal
	High

	// NotRemovable entries are never chosen for eviction.
	// They can still expire.
	NotRemovable
)

// Evictable reports whether the eviction policy may ever pick this priority.
func (p Priority) Evictable() bool {
	return p != NotRemovable
}

func (p Priority) String() string {
	switch p {
	case Low:
		return "low"
	case BelowNormal:
		return "below-normal"
	case Default:
		return "default"
	case AboveNormal:
		return "above-normal"
	case High:
		return "high"
	case NotRemovable:
		return "not-removable"
	default:
		return "unknown"
	}
}

/*
Policy is the per-entry configuration record passed to Add and Set.

A zero SlidingExpiration means "no sliding window" and a zero
AbsoluteExpiration means "no absolute deadline". When both are present they
apply independently: the entry dies at whichever deadline comes first.
*/
type Policy struct {
	SlidingExpiration  time.Duration
	AbsoluteExpiration time.Time
	Priority           Priority
}

// SlidingPolicy is the policy behind the duration-only Add/Set overloads:
// the duration is an idle window, not a wall-clock offset.
func SlidingPolicy(window time.Duration) Policy {
	return Policy{SlidingExpiration: window}
}

// Mode reports the governing expiration mode. Sliding wins over Absolute.
func (p Policy) Mode() ExpirationMode {
	switch {
	case p.SlidingExpiration > 0:
		return Sliding
	case !p.AbsoluteExpiration.IsZero():
		return Absolute
	default:
		return None
	}
}
