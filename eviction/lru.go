// This file implements LRU ordering inside one priority tier.

package eviction

// lruNode is one key in the recency list.
type lruNode struct {
	key string

	// prev is the node read just after this one (towards head).
	prev *lruNode

	// next is the node read just before this one (towards tail).
	next *lruNode
}

/*
lru orders a tier by recency of use.

A map gives O(1) lookup of a key's node, and a doubly-linked list keeps
the order: head is the most recently used key, tail the least. Because the
shard calls OnGet on every successful read, tail order is lastAccess order.
*/
type lru struct {
	nodes map[string]*lruNode
	head  *lruNode
	tail  *lruNode
}

func newLRU() *lru {
	return &lru{nodes: make(map[string]*lruNode)}
}

// OnGet marks k as just used by moving it to the head.
func (l *lru) OnGet(k string) {
	if n, ok := l.nodes[k]; ok {
		l.unlink(n)
		l.pushFront(n)
	}
}

// OnPut starts tracking k as the most recently used key. Known keys are left alone.
func (l *lru) OnPut(k string) {
	if _, ok := l.nodes[k]; ok {
		return
	}
	n := &lruNode{key: k}
	l.nodes[k] = n
	l.pushFront(n)
}

// Evict pops the least recently used key from the tail.
func (l *lru) Evict() (string, bool) {
	n := l.tail
	if n == nil {
		return "", false
	}
	l.unlink(n)
	delete(l.nodes, n.key)
	return n.key, true
}

func (l *lru) Peek() (string, int, bool) {
	if l.tail == nil {
		return "", 0, false
	}
	return l.tail.key, 0, true
}

func (l *lru) Remove(k string) {
	if n, ok := l.nodes[k]; ok {
		l.unlink(n)
		delete(l.nodes, k)
	}
}

func (l *lru) Len() int { return len(l.nodes) }

func (l *lru) pushFront(n *lruNode) {
	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
}

// unlink detaches n, fixing head and tail when n sits at either end.
func (l *lru) unlink(n *lruNode) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev, n.next = nil, nil
}
