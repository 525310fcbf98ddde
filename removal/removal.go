// Package removal defines the callback the cache fires when an entry leaves it.
package removal

// Reason says why an entry left the cache.
type Reason int

const (
	// Removed means an explicit Remove call.
	Removed Reason = iota

	// Replaced means Set overwrote the entry.
	Replaced

	// Expired means the entry's deadline passed.
	Expired

	// Evicted means the eviction policy picked it to get back under the bound.
	Evicted
)

func (r Reason) String() string {
	switch r {
	case Removed:
		return "removed"
	case Replaced:
		return "replaced"
	case Expired:
		return "expired"
	case Evicted:
		return "evicted"
	default:
		return "unknown"
	}
}

/*
Hook is called once for every entry that leaves the cache.

The cache never holds a shard lock while calling it, so a hook may call back
into the cache. It does run on the goroutine that caused the removal (a caller
or the sweeper), so it should be quick.
*/
type Hook interface {
	OnRemove(key string, value any, reason Reason)
}

// HookFunc adapts a plain function to Hook.
type HookFunc func(key string, value any, reason Reason)

func (f HookFunc) OnRemove(key string, value any, reason Reason) { f(key, value, reason) }
