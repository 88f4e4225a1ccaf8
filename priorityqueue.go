package desim

import "github.com/joeycumines/go-desim/internal/heapq"

// PriorityQueue is a bounded queue of objects each carrying its own
// priority: Get always dequeues the highest-priority object present,
// ties broken FIFO by put order. Unlike ObjectQueue it hands back a Handle
// per Put, so a caller can Cancel a still-queued object or Reprioritize it
// before it is dequeued.
type PriorityQueue struct {
	ResourceBase
	queue    *EventQueue
	capacity uint64
	items    *heapq.Heap[int64, any]
	front    *ResourceGuard // getters wait here while empty
	rear     *ResourceGuard // putters wait here while full
	levelRecorder
}

// NewPriorityQueue constructs an empty PriorityQueue bounded at capacity
// (use Unlimited for no bound).
func NewPriorityQueue(q *EventQueue, name string, capacity uint64) *PriorityQueue {
	pq := &PriorityQueue{
		queue:         q,
		capacity:      capacity,
		items:         heapq.New[int64, any](),
		front:         NewResourceGuard(q, name+".front"),
		rear:          NewResourceGuard(q, name+".rear"),
		levelRecorder: newLevelRecorder(q),
	}
	pq.ResourceBase = NewResourceBase(name, nil, nil)
	return pq
}

// Len returns the number of objects currently queued.
func (pq *PriorityQueue) Len() int { return pq.items.Len() }

// Capacity returns the queue's bound.
func (pq *PriorityQueue) Capacity() uint64 { return pq.capacity }

// FrontGuard is the guard signaled whenever an object is put; getters wait
// on it.
func (pq *PriorityQueue) FrontGuard() *ResourceGuard { return pq.front }

// RearGuard is the guard signaled whenever an object is removed; putters
// wait on it.
func (pq *PriorityQueue) RearGuard() *ResourceGuard { return pq.rear }

// itemKeys orders queued objects highest-priority-first, FIFO among ties:
// Priority sorts descending, Secondary (insertion order) breaks ties
// ascending.
func (pq *PriorityQueue) itemKeys(priority int64) heapq.Keys[int64] {
	return heapq.Keys[int64]{Priority: priority, Secondary: pq.items.NextTiebreaker()}
}

// Put enqueues object at the given priority, waiting on the rear guard
// first if the queue is at capacity. Returns a Handle usable with Cancel
// or Reprioritize and Success once queued, or a zero Handle and the
// interrupt Signal if interrupted while waiting; on interrupt the object
// is never queued, leaving it with the caller.
func (pq *PriorityQueue) Put(object any, priority int64) (Handle, Signal) {
	for uint64(pq.items.Len()) >= pq.capacity {
		sig := pq.rear.Wait(func(ctx any) bool {
			return uint64(pq.items.Len()) < pq.capacity
		}, nil)
		if sig != Success {
			return 0, sig
		}
	}
	h := pq.items.Enqueue(pq.itemKeys(priority), object)
	pq.sample(float64(pq.items.Len()))
	pq.front.Signal()
	return h, Success
}

// Get removes and returns the highest-priority object, waiting on the
// front guard first if the queue is empty. Returns the zero value and the
// interrupt Signal if interrupted while waiting.
func (pq *PriorityQueue) Get() (any, Signal) {
	for pq.items.Len() == 0 {
		sig := pq.front.Wait(func(ctx any) bool {
			return pq.items.Len() > 0
		}, nil)
		if sig != Success {
			return nil, sig
		}
	}
	object, _, _ := pq.items.DequeueMin()
	pq.sample(float64(pq.items.Len()))
	pq.rear.Signal()
	return object, Success
}

// Cancel removes a still-queued object by Handle, reporting whether it was
// found (it may already have been dequeued by a concurrent Get).
func (pq *PriorityQueue) Cancel(h Handle) bool {
	removed := pq.items.Remove(h)
	if removed {
		pq.sample(float64(pq.items.Len()))
		pq.rear.Signal()
	}
	return removed
}

// Reprioritize changes a still-queued object's priority, reporting whether
// it was found.
func (pq *PriorityQueue) Reprioritize(h Handle, priority int64) bool {
	keys, ok := pq.items.KeysOf(h)
	if !ok {
		return false
	}
	keys.Priority = priority
	return pq.items.Reprioritize(h, keys)
}
