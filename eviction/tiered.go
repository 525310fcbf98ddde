package eviction

import (
	"slices"

	"github.com/krisalay/memory-cacher/types"
)

// tiered keeps one ordering per priority level and drains the lowest levels first.
type tiered struct {
	kind PolicyType

	// tiers holds one ordering per evictable priority.
	tiers map[types.Priority]ordering

	// levels is the sorted list of priorities currently present in tiers.
	levels []types.Priority

	// prio remembers each tracked key's tier.
	prio map[string]types.Priority
}

func newTiered(kind PolicyType) *tiered {
	return &tiered{
		kind:  kind,
		tiers: make(map[types.Priority]ordering),
		prio:  make(map[string]types.Priority),
	}
}

func (t *tiered) OnGet(k string) {
	if p, ok := t.prio[k]; ok {
		t.tiers[p].OnGet(k)
	}
}

// OnPut tracks k. A key that is re-put with a new priority moves tiers.
// NotRemovable keys are only forgotten, never tracked.
func (t *tiered) OnPut(k string, p types.Priority) {
	if old, ok := t.prio[k]; ok {
		if old == p {
			t.tiers[p].OnGet(k)
			return
		}
		t.Remove(k)
	}
	if !p.Evictable() {
		return
	}

	tier, ok := t.tiers[p]
	if !ok {
		tier = newOrdering(t.kind)
		t.tiers[p] = tier
		i, _ := slices.BinarySearch(t.levels, p)
		t.levels = slices.Insert(t.levels, i, p)
	}
	tier.OnPut(k)
	t.prio[k] = p
}

func (t *tiered) Remove(k string) {
	p, ok := t.prio[k]
	if !ok {
		return
	}
	delete(t.prio, k)
	t.tiers[p].Remove(k)
}

func (t *tiered) Evict(n int) []string {
	var out []string
	for _, p := range t.levels {
		tier := t.tiers[p]
		for len(out) < n {
			k, ok := tier.Evict()
			if !ok {
				break
			}
			delete(t.prio, k)
			out = append(out, k)
		}
		if len(out) >= n {
			break
		}
	}
	return out
}

// Peek looks at the lowest non-empty tier only.
func (t *tiered) Peek() (Candidate, bool) {
	for _, p := range t.levels {
		if k, w, ok := t.tiers[p].Peek(); ok {
			return Candidate{Key: k, Priority: p, Weight: w}, true
		}
	}
	return Candidate{}, false
}

func (t *tiered) Len() int {
	return len(t.prio)
}
