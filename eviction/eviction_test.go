package eviction

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/krisalay/memory-cacher/types"
)

//
// ================= PRIORITY TIERS =================
//

func TestEvictLowestPriorityFirst(t *testing.T) {
	p := NewEvictionPolicy(LRU)

	p.OnPut("high", types.High)
	p.OnPut("low", types.Low)
	p.OnPut("default", types.Default)
	p.OnPut("pinned", types.NotRemovable)

	require.Equal(t, 3, p.Len())
	require.Equal(t, []string{"low", "default", "high"}, p.Evict(10))
	require.Empty(t, p.Evict(10), "NotRemovable must never be a victim")
}

func TestEvictRespectsRecencyInsideTier(t *testing.T) {
	p := NewEvictionPolicy(LRU)

	p.OnPut("a", types.Default)
	p.OnPut("b", types.Default)
	p.OnPut("c", types.Default)

	// a becomes most recently used, b is now the oldest.
	p.OnGet("a")

	require.Equal(t, []string{"b"}, p.Evict(1))
	require.Equal(t, []string{"c", "a"}, p.Evict(2))
}

func TestRemoveStopsTracking(t *testing.T) {
	p := NewEvictionPolicy(LRU)

	p.OnPut("a", types.Low)
	p.OnPut("b", types.Low)
	p.Remove("a")
	p.Remove("missing")

	require.Equal(t, 1, p.Len())
	require.Equal(t, []string{"b"}, p.Evict(5))
}

func TestRePutMovesTier(t *testing.T) {
	p := NewEvictionPolicy(LRU)

	p.OnPut("k", types.Low)
	p.OnPut("other", types.Default)
	p.OnPut("k", types.NotRemovable)

	require.Equal(t, []string{"other"}, p.Evict(5))
}

func TestEmptyStringKeyIsEvictable(t *testing.T) {
	p := NewEvictionPolicy(FIFO)
	p.OnPut("", types.Default)
	require.Equal(t, []string{""}, p.Evict(1))
}

func TestPeekDoesNotRemove(t *testing.T) {
	p := NewEvictionPolicy(LRU)

	_, ok := p.Peek()
	require.False(t, ok)

	p.OnPut("high", types.High)
	p.OnPut("low", types.Low)
	p.OnPut("pinned", types.NotRemovable)

	c, ok := p.Peek()
	require.True(t, ok)
	require.Equal(t, Candidate{Key: "low", Priority: types.Low}, c)
	require.Equal(t, 2, p.Len())

	p.Remove("low")
	c, ok = p.Peek()
	require.True(t, ok)
	require.Equal(t, "high", c.Key)
	require.Equal(t, types.High, c.Priority)
}

func TestPeekMatchesEvict(t *testing.T) {
	for _, kind := range []PolicyType{LRU, LFU, FIFO} {
		p := NewEvictionPolicy(kind)
		p.OnPut("a", types.Default)
		p.OnPut("b", types.Default)
		p.OnPut("c", types.Default)
		p.OnGet("a")

		for p.Len() > 0 {
			c, ok := p.Peek()
			require.True(t, ok, kind)
			require.Equal(t, []string{c.Key}, p.Evict(1), kind)
		}
	}
}

func TestLFUPeekReportsFrequency(t *testing.T) {
	p := NewEvictionPolicy(LFU)

	p.OnPut("a", types.Default)
	p.OnGet("a")
	p.OnGet("a")

	c, ok := p.Peek()
	require.True(t, ok)
	require.Equal(t, 3, c.Weight)
}

//
// ================= ORDERINGS =================
//

func TestLFUOrdering(t *testing.T) {
	p := NewEvictionPolicy(LFU)

	p.OnPut("hot", types.Default)
	p.OnPut("warm", types.Default)
	p.OnPut("cold", types.Default)

	p.OnGet("hot")
	p.OnGet("hot")
	p.OnGet("warm")

	require.Equal(t, []string{"cold", "warm", "hot"}, p.Evict(3))
}

func TestLFURecoversMinFrequencyAfterRemove(t *testing.T) {
	p := NewEvictionPolicy(LFU)

	p.OnPut("a", types.Default)
	p.OnPut("b", types.Default)
	p.OnGet("b")
	p.Remove("a")

	require.Equal(t, []string{"b"}, p.Evict(1))
}

func TestFIFOIgnoresReads(t *testing.T) {
	p := NewEvictionPolicy(FIFO)

	p.OnPut("first", types.Default)
	p.OnPut("second", types.Default)
	p.OnGet("first")

	require.Equal(t, []string{"first", "second"}, p.Evict(2))
}

func TestUnknownPolicyPanics(t *testing.T) {
	require.False(t, PolicyType("MRU").Valid())
	require.Panics(t, func() { NewEvictionPolicy("MRU") })
}

//
// ================= PRESSURE =================
//

func TestPressureFunc(t *testing.T) {
	on := false
	var p Pressure = PressureFunc(func() bool { return on })
	require.False(t, p.UnderPressure())
	on = true
	require.True(t, p.UnderPressure())
}

func TestHeapPressureLimit(t *testing.T) {
	require.True(t, (&HeapPressure{Limit: 1}).UnderPressure())
	require.False(t, (&HeapPressure{}).UnderPressure())
}
