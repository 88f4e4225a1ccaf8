package desim

import "github.com/joeycumines/go-desim/internal/heapq"

// ResourcePool is a counting semaphore supporting partial acquisition,
// release, and strict-priority preemption: a higher-priority acquirer may
// reclaim capacity held by a strictly-lower-priority holder instead of
// waiting for it to be released voluntarily.
type ResourcePool struct {
	ResourceBase
	queue    *EventQueue
	capacity uint64
	inUse    uint64
	guard    *ResourceGuard
	holders  *heapq.Heap[int64, *holding]
	levelRecorder
}

// holding is one process's current grant against the pool.
type holding struct {
	process *Process
	amount  uint64
}

// NewResourcePool constructs a ResourcePool with the given total capacity
// (use Unlimited for no bound).
func NewResourcePool(q *EventQueue, name string, capacity uint64) *ResourcePool {
	pool := &ResourcePool{
		queue:         q,
		capacity:      capacity,
		holders:       heapq.New[int64, *holding](),
		levelRecorder: newLevelRecorder(q),
	}
	pool.guard = NewResourceGuard(q, name+".guard")
	pool.ResourceBase = NewResourceBase(name, pool.dropHolderProcess, pool.reprioHolderProcess)
	return pool
}

// Capacity returns the pool's total capacity.
func (r *ResourcePool) Capacity() uint64 { return r.capacity }

// InUse returns the amount currently granted across all holders.
func (r *ResourcePool) InUse() uint64 { return r.inUse }

// Available returns the amount that could be granted right now without
// preemption.
func (r *ResourcePool) Available() uint64 { return r.capacity - r.inUse }

// holderKeys order holders "most preemptable first": lowest priority
// (Primary ascending), then latest entry order (Priority field, which
// heapq sorts descending, so the most recently granted holder of equal
// priority is preempted first).
func (r *ResourcePool) holderKeys(p *Process, tiebreak int64) heapq.Keys[int64] {
	return heapq.Keys[int64]{Primary: p.priority, Priority: tiebreak}
}

// Acquire greedily grants amount of the pool's capacity to the current
// process, waiting on the pool's front guard between rounds as capacity
// frees up. Returns Success with the full amount granted, or an interrupt
// Signal with zero held (any partial provisional grant is rolled back).
func (r *ResourcePool) Acquire(amount uint64) (Signal, uint64) {
	return r.acquire(amount, false)
}

// Preempt behaves like Acquire, but before waiting it steals capacity from
// holders with strictly lower priority than the current process, in
// most-preemptable-first order, signaling each victim with Preempted.
func (r *ResourcePool) Preempt(amount uint64) (Signal, uint64) {
	return r.acquire(amount, true)
}

func (r *ResourcePool) acquire(amount uint64, preempt bool) (Signal, uint64) {
	if amount > r.capacity {
		violate("acquire %d exceeds pool %q capacity %d", amount, r.Name(), r.capacity)
	}
	p := CurrentProcess(r.queue)
	if p == nil {
		violate("ResourcePool.Acquire called outside any process")
	}

	var granted uint64
	var h heapq.Handle
	haveHolding := false

	for granted < amount {
		if preempt {
			r.preemptFrom(p, amount-granted)
		}

		take := min(amount-granted, r.Available())
		if take > 0 {
			granted += take
			r.inUse += take
			r.sample(float64(r.inUse))
			if haveHolding {
				hv, _ := r.holders.Value(h)
				hv.amount += take
			} else {
				hv := &holding{process: p, amount: take}
				h = r.holders.Enqueue(r.holderKeys(p, r.holders.NextTiebreaker()), hv)
				haveHolding = true
				p.addHeld(r)
			}
		}

		if granted >= amount {
			break
		}

		sig := r.guard.Wait(func(ctx any) bool {
			return r.Available() > 0
		}, nil)
		if sig != Success {
			// Roll back the partial grant: return it to the pool and forget
			// the holding entirely.
			if haveHolding {
				r.releaseHolding(h, granted)
			}
			return sig, 0
		}
	}

	return Success, granted
}

// preemptFrom steals capacity from holders with strictly lower priority
// than p, most-preemptable first, stopping as soon as the pool has at
// least `need` available (or no eligible victim remains).
func (r *ResourcePool) preemptFrom(p *Process, need uint64) {
	for _, item := range r.holders.Snapshot() {
		if r.Available() >= need {
			return
		}
		hv := item.Value
		if hv.process.priority >= p.priority {
			continue
		}
		r.holders.Remove(item.Handle)
		r.inUse -= hv.amount
		hv.process.removeHeld(r)
		hv.process.Interrupt(Preempted)
	}
}

// releaseHolding returns amount from the holding at h back to the pool,
// removing the holding entirely if it drops to zero, and signals the
// front guard so other waiters can retry.
func (r *ResourcePool) releaseHolding(h heapq.Handle, amount uint64) {
	hv, ok := r.holders.Value(h)
	if !ok {
		return
	}
	if amount >= hv.amount {
		r.inUse -= hv.amount
		r.holders.Remove(h)
		hv.process.removeHeld(r)
	} else {
		r.inUse -= amount
		hv.amount -= amount
	}
	r.sample(float64(r.inUse))
	r.guard.Signal()
}

// Release returns amount of the current process's holding back to the
// pool. The process must currently hold at least amount.
func (r *ResourcePool) Release(amount uint64) {
	p := CurrentProcess(r.queue)
	if p == nil {
		violate("ResourcePool.Release called outside any process")
	}
	for _, item := range r.holders.Snapshot() {
		if item.Value.process == p {
			if amount > item.Value.amount {
				violate("release %d exceeds held amount %d", amount, item.Value.amount)
			}
			r.releaseHolding(item.Handle, amount)
			return
		}
	}
	violate("release called by process %q with no holding in pool %q", p.Name(), r.Name())
}

// dropHolderProcess silently returns everything p holds to the pool,
// without signaling a resume (p is being killed). Implements the
// ResourceBase drop vtable slot.
func (r *ResourcePool) dropHolderProcess(p *Process) {
	for _, item := range r.holders.Snapshot() {
		if item.Value.process == p {
			r.holders.Remove(item.Handle)
			r.inUse -= item.Value.amount
			r.sample(float64(r.inUse))
			r.guard.Signal()
			return
		}
	}
}

// reprioHolderProcess re-sorts p's holding after its priority changed.
// Implements the ResourceBase reprio vtable slot.
func (r *ResourcePool) reprioHolderProcess(p *Process) {
	for _, item := range r.holders.Snapshot() {
		if item.Value.process == p {
			keys, ok := r.holders.KeysOf(item.Handle)
			if !ok {
				return
			}
			keys.Primary = p.priority
			r.holders.Reprioritize(item.Handle, keys)
			return
		}
	}
}
