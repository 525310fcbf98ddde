package eviction

import (
	"runtime"
	"sync"
	"time"
)

/*
Pressure is the optional process-wide memory-pressure signal.

When it reports true the shard treats itself as over its bound and evicts
one batch before every insert, even if the count and byte budgets still have
room.
*/
type Pressure interface {
	UnderPressure() bool
}

// PressureFunc adapts a plain function to Pressure.
type PressureFunc func() bool

func (f PressureFunc) UnderPressure() bool { return f() }

/*
HeapPressure reports pressure when the Go heap is above Limit bytes.

runtime.ReadMemStats stops the world, so the reading is cached and refreshed
at most once per Every (default one second).
*/
type HeapPressure struct {
	Limit uint64
	Every time.Duration

	mu      sync.Mutex
	checked time.Time
	over    bool
}

func (h *HeapPressure) UnderPressure() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	every := h.Every
	if every <= 0 {
		every = time.Second
	}
	if time.Since(h.checked) < every {
		return h.over
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	h.over = h.Limit > 0 && ms.HeapAlloc > h.Limit
	h.checked = time.Now()
	return h.over
}
