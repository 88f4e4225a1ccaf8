package desim

import "github.com/joeycumines/go-desim/internal/heapq"

// Predicate is evaluated against application-supplied context to decide
// whether a waiter may be admitted. It is re-evaluated every time the guard
// is signaled, never cached.
type Predicate func(ctx any) bool

// waiter is what ResourceGuard queues per blocked process.
type waiter struct {
	process   *Process
	predicate Predicate
	ctx       any
}

// ResourceGuard is a predicate-evaluated waiter queue: processes enqueue
// themselves with a predicate, and Signal re-admits every waiter whose
// predicate currently holds, in priority order. Concrete resources (pool,
// object queue, priority queue, buffer, condition) each own one or two
// ResourceGuards and build their blocking operations on top of Wait/Signal.
//
// A ResourceGuard may also subscribe to other guards: signaling the
// publisher re-signals every subscriber too, so a Condition chained off
// another resource's guard via Subscribe wakes up whenever that resource
// does, without needing to own or poll its state directly.
type ResourceGuard struct {
	name        string
	queue       *EventQueue
	waiters     *heapq.Heap[int64, *waiter]
	subscribers map[*ResourceGuard]struct{}
}

// NewResourceGuard constructs an empty ResourceGuard bound to q.
func NewResourceGuard(q *EventQueue, name string) *ResourceGuard {
	return &ResourceGuard{
		name:    name,
		queue:   q,
		waiters: heapq.New[int64, *waiter](),
	}
}

// Name returns the guard's diagnostic name.
func (g *ResourceGuard) Name() string { return g.name }

// Len returns the number of processes currently waiting on g.
func (g *ResourceGuard) Len() int { return g.waiters.Len() }

// Wait suspends the current process on g until predicate(ctx) is satisfied
// by a Signal call, or the wait is interrupted. Returns Success on normal
// admission, or the interrupt Signal otherwise.
func (g *ResourceGuard) Wait(predicate Predicate, ctx any) Signal {
	p := CurrentProcess(g.queue)
	if p == nil {
		violate("ResourceGuard.Wait called outside any process")
	}

	keys := heapq.Keys[int64]{Priority: p.priority, Secondary: g.waiters.NextTiebreaker()}
	h := g.waiters.Enqueue(keys, &waiter{process: p, predicate: predicate, ctx: ctx})

	p.waitingGuard = g
	p.waitingHandle = h

	return p.suspend()
}

// removeWaiter removes a specific waiter (used by Process.Interrupt/Stop to
// pull a process out of the queue it is blocked on).
func (g *ResourceGuard) removeWaiter(h heapq.Handle) bool {
	return g.waiters.Remove(h)
}

// reprioritizeWaiter re-sorts a waiter already queued on g after its
// process's priority has changed (Process.Reprioritize).
func (g *ResourceGuard) reprioritizeWaiter(h heapq.Handle, priority int64) {
	keys, ok := g.waiters.KeysOf(h)
	if !ok {
		return
	}
	keys.Priority = priority
	g.waiters.Reprioritize(h, keys)
}

// Signal walks waiters from highest priority, admitting (removing and
// scheduling an immediate wake for) every one whose predicate currently
// holds, then propagates to every subscriber guard. Returns whether
// anything was admitted anywhere in the propagation.
func (g *ResourceGuard) Signal() bool {
	admitted := g.signalOnce()
	for sub := range g.subscribers {
		if sub.Signal() {
			admitted = true
		}
	}
	return admitted
}

// signalOnce performs exactly one admission pass over g's own waiters (not
// its subscribers). Snapshot is used rather than destructive dequeue so
// waiters that fail their predicate are left completely undisturbed.
func (g *ResourceGuard) signalOnce() bool {
	admitted := false
	for _, item := range g.waiters.Snapshot() {
		w := item.Value
		if !w.predicate(w.ctx) {
			continue
		}
		if !g.waiters.Remove(item.Handle) {
			continue // already admitted/removed by an earlier propagation this pass
		}
		w.process.waitingGuard = nil
		w.process.scheduleWake(Success)
		admitted = true
	}
	return admitted
}

// Subscribe registers g as an observer of publisher: whenever publisher is
// Signaled, g is re-Signaled too.
func (g *ResourceGuard) Subscribe(publisher *ResourceGuard) {
	if publisher.subscribers == nil {
		publisher.subscribers = make(map[*ResourceGuard]struct{})
	}
	publisher.subscribers[g] = struct{}{}
}

// Unsubscribe reverses a prior Subscribe.
func (g *ResourceGuard) Unsubscribe(publisher *ResourceGuard) {
	delete(publisher.subscribers, g)
}
