// This file implements LFU ordering inside one priority tier.

package eviction

// lfuNode represents one key tracked by LFU.
type lfuNode struct {
	key  string
	freq int // reads plus the initial insert
	seq  uint64
}

/*
lfu orders a tier by access count.

Keys are bucketed by frequency and minFreq points at the smallest non-empty
bucket. Ties inside a bucket go to the key that entered the bucket first,
which keeps eviction deterministic.
*/
type lfu struct {
	nodes   map[string]*lfuNode
	freqMap map[int]map[string]*lfuNode
	minFreq int
	seq     uint64
}

func newLFU() *lfu {
	return &lfu{
		nodes:   make(map[string]*lfuNode),
		freqMap: make(map[int]map[string]*lfuNode),
	}
}

func (l *lfu) OnGet(k string) {
	n, ok := l.nodes[k]
	if !ok {
		return
	}
	l.unbucket(n)
	n.freq++
	l.bucket(n)
}

func (l *lfu) OnPut(k string) {
	if _, ok := l.nodes[k]; ok {
		return
	}
	n := &lfuNode{key: k, freq: 1}
	l.nodes[k] = n
	l.bucket(n)
	l.minFreq = 1
}

// Evict removes the oldest key of the lowest-frequency bucket.
func (l *lfu) Evict() (string, bool) {
	victim := l.victim()
	if victim == nil {
		return "", false
	}
	l.unbucket(victim)
	delete(l.nodes, victim.key)
	return victim.key, true
}

func (l *lfu) Peek() (string, int, bool) {
	victim := l.victim()
	if victim == nil {
		return "", 0, false
	}
	return victim.key, victim.freq, true
}

func (l *lfu) victim() *lfuNode {
	if len(l.nodes) == 0 {
		return nil
	}
	if len(l.freqMap[l.minFreq]) == 0 {
		l.recomputeMin()
	}

	var victim *lfuNode
	for _, n := range l.freqMap[l.minFreq] {
		if victim == nil || n.seq < victim.seq {
			victim = n
		}
	}
	return victim
}

func (l *lfu) Remove(k string) {
	n, ok := l.nodes[k]
	if !ok {
		return
	}
	l.unbucket(n)
	delete(l.nodes, k)
}

func (l *lfu) Len() int { return len(l.nodes) }

func (l *lfu) bucket(n *lfuNode) {
	l.seq++
	n.seq = l.seq
	b := l.freqMap[n.freq]
	if b == nil {
		b = make(map[string]*lfuNode)
		l.freqMap[n.freq] = b
	}
	b[n.key] = n
}

func (l *lfu) unbucket(n *lfuNode) {
	b := l.freqMap[n.freq]
	delete(b, n.key)
	if len(b) == 0 {
		delete(l.freqMap, n.freq)
		if l.minFreq == n.freq {
			l.minFreq++
		}
	}
}

// recomputeMin finds the smallest frequency after removals left minFreq stale.
func (l *lfu) recomputeMin() {
	l.minFreq = 0
	for f := range l.freqMap {
		if l.minFreq == 0 || f < l.minFreq {
			l.minFreq = f
		}
	}
}
