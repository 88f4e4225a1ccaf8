// Package heapq implements a generic hash-heap: a binary min-heap, built on
// container/heap, paired with a handle->index map so that remove and
// reprioritize are O(log n) instead of O(n).
//
// Handles are monotonically assigned and remain valid across reheapification;
// they are never reused within the lifetime of a Heap.
package heapq

import (
	"container/heap"
	"sort"

	"golang.org/x/exp/constraints"
)

// Handle is a stable identifier for an enqueued item, returned by Enqueue
// and accepted by Remove and Reprioritize.
type Handle uint64

// Keys is the sort key triple items are ordered by: Primary dominates (e.g.
// simulation time), Priority breaks Primary ties in descending order (higher
// Priority drains first), and Secondary (an insertion-order tiebreaker)
// breaks Priority ties ascending, so equal-Primary-and-Priority items drain
// FIFO. Callers that only need priority+insertion ordering (no separate
// Primary dimension, e.g. resource waiter queues) leave Primary at its zero
// value.
type Keys[K constraints.Ordered] struct {
	Primary   K
	Priority  int64
	Secondary int64
}

func (a Keys[K]) less(b Keys[K]) bool {
	if a.Primary != b.Primary {
		return a.Primary < b.Primary
	}
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.Secondary < b.Secondary
}

type entry[K constraints.Ordered, V any] struct {
	handle Handle
	keys   Keys[K]
	value  V
	index  int
}

// Heap is a min-heap of V, ordered by Keys[K], with O(log n) Remove and
// Reprioritize by Handle. A Heap is not safe for concurrent use; callers in
// this module only ever touch a Heap from the single goroutine currently
// holding the simulation baton.
type Heap[K constraints.Ordered, V any] struct {
	items    []*entry[K, V]
	index    map[Handle]*entry[K, V]
	nextID   Handle
	tiebreak int64
}

// New constructs an empty Heap.
func New[K constraints.Ordered, V any]() *Heap[K, V] {
	return &Heap[K, V]{
		index: make(map[Handle]*entry[K, V]),
	}
}

// NextTiebreaker returns a fresh monotonically increasing insertion-order
// counter value, for callers (e.g. the event scheduler) that need to stamp
// Keys.Secondary themselves before calling Enqueue.
func (h *Heap[K, V]) NextTiebreaker() int64 {
	h.tiebreak++
	return h.tiebreak
}

// Enqueue inserts value under the given keys and returns its handle.
func (h *Heap[K, V]) Enqueue(keys Keys[K], value V) Handle {
	h.nextID++
	e := &entry[K, V]{handle: h.nextID, keys: keys, value: value}
	h.index[e.handle] = e
	heap.Push((*innerHeap[K, V])(h), e)
	return e.handle
}

// Len returns the number of items currently queued.
func (h *Heap[K, V]) Len() int { return len(h.items) }

// PeekMin returns the minimum item without removing it.
func (h *Heap[K, V]) PeekMin() (value V, handle Handle, ok bool) {
	if len(h.items) == 0 {
		return value, 0, false
	}
	e := h.items[0]
	return e.value, e.handle, true
}

// DequeueMin removes and returns the minimum item.
func (h *Heap[K, V]) DequeueMin() (value V, handle Handle, ok bool) {
	if len(h.items) == 0 {
		return value, 0, false
	}
	e := heap.Pop((*innerHeap[K, V])(h)).(*entry[K, V])
	delete(h.index, e.handle)
	return e.value, e.handle, true
}

// Remove removes the item with the given handle, reporting whether it was
// found.
func (h *Heap[K, V]) Remove(handle Handle) bool {
	e, ok := h.index[handle]
	if !ok {
		return false
	}
	heap.Remove((*innerHeap[K, V])(h), e.index)
	delete(h.index, handle)
	return true
}

// Reprioritize changes the sort keys of the item with the given handle and
// restores the heap invariant, reporting whether the handle was found.
func (h *Heap[K, V]) Reprioritize(handle Handle, keys Keys[K]) bool {
	e, ok := h.index[handle]
	if !ok {
		return false
	}
	e.keys = keys
	heap.Fix((*innerHeap[K, V])(h), e.index)
	return true
}

// Value returns the value currently stored under handle, if present.
func (h *Heap[K, V]) Value(handle Handle) (value V, ok bool) {
	e, ok := h.index[handle]
	if !ok {
		return value, false
	}
	return e.value, true
}

// KeysOf returns the sort keys currently stored under handle, if present.
func (h *Heap[K, V]) KeysOf(handle Handle) (keys Keys[K], ok bool) {
	e, ok := h.index[handle]
	if !ok {
		return keys, false
	}
	return e.keys, true
}

// Item is one entry of a Snapshot.
type Item[V any] struct {
	Handle Handle
	Value  V
}

// Snapshot returns every queued item in ascending sort-key order (the order
// DequeueMin would produce) without removing anything. It is O(n log n);
// callers needing a priority-ordered read without disturbing the heap (e.g.
// ResourceGuard.Signal deciding which waiters to admit) use this instead of
// repeated dequeue/re-enqueue, which would mint fresh handles.
func (h *Heap[K, V]) Snapshot() []Item[V] {
	out := make([]Item[V], len(h.items))
	for i, e := range h.items {
		out[i] = Item[V]{Handle: e.handle, Value: e.value}
	}
	sort.Slice(out, func(i, j int) bool {
		ei, ej := h.index[out[i].Handle], h.index[out[j].Handle]
		return ei.keys.less(ej.keys)
	})
	return out
}

// innerHeap adapts Heap to container/heap.Interface. It is defined as a
// distinct type (rather than methods directly on Heap) so the public API
// above never exposes Len/Less/Swap/Push/Pop to callers.
type innerHeap[K constraints.Ordered, V any] Heap[K, V]

func (h *innerHeap[K, V]) Len() int { return len(h.items) }

func (h *innerHeap[K, V]) Less(i, j int) bool {
	return h.items[i].keys.less(h.items[j].keys)
}

func (h *innerHeap[K, V]) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].index = i
	h.items[j].index = j
}

func (h *innerHeap[K, V]) Push(x any) {
	e := x.(*entry[K, V])
	e.index = len(h.items)
	h.items = append(h.items, e)
}

func (h *innerHeap[K, V]) Pop() any {
	old := h.items
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	h.items = old[:n-1]
	e.index = -1
	return e
}
