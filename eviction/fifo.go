// This file implements FIFO ordering inside one priority tier.

package eviction

import "container/list"

// fifo evicts in insertion order and ignores reads completely.
type fifo struct {
	queue *list.List // front is the oldest key
	elems map[string]*list.Element
}

func newFIFO() *fifo {
	return &fifo{
		queue: list.New(),
		elems: make(map[string]*list.Element),
	}
}

func (f *fifo) OnGet(string) {}

// OnPut appends k to the queue. FIFO only cares about the first insertion.
func (f *fifo) OnPut(k string) {
	if _, ok := f.elems[k]; ok {
		return
	}
	f.elems[k] = f.queue.PushBack(k)
}

func (f *fifo) Evict() (string, bool) {
	e := f.queue.Front()
	if e == nil {
		return "", false
	}
	k := f.queue.Remove(e).(string)
	delete(f.elems, k)
	return k, true
}

func (f *fifo) Peek() (string, int, bool) {
	e := f.queue.Front()
	if e == nil {
		return "", 0, false
	}
	return e.Value.(string), 0, true
}

func (f *fifo) Remove(k string) {
	if e, ok := f.elems[k]; ok {
		f.queue.Remove(e)
		delete(f.elems, k)
	}
}

func (f *fifo) Len() int { return len(f.elems) }
