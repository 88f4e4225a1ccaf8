package desim

import (
	"github.com/joeycumines/go-desim/internal/heapq"
	"github.com/joeycumines/go-desim/simlog"
)

// Handle identifies a scheduled appointment, returned by Schedule and
// accepted by Cancel.
type Handle = heapq.Handle

// EventHandler is invoked when its appointment's time arrives. subject and
// object are caller-supplied values threaded through unchanged (commonly a
// *Process and an argument, or a resource and a waiter), letting one
// EventQueue schedule heterogeneous work without an interface hierarchy.
type EventHandler func(q *EventQueue, subject, object any)

// appointment is the value stored in the pending-event heap.
type appointment struct {
	at      float64
	handler EventHandler
	subject any
	object  any
}

// EventQueue is a single discrete-event simulation clock plus its
// time-ordered pending-event set. It drives exactly one replication; the
// Host of coroutines it schedules belongs to it alone.
//
// EventQueue is not safe for concurrent use: exactly one goroutine (the one
// that called Execute, or the owner between Execute calls) may touch it at
// a time. Running several independent replications concurrently means
// constructing one EventQueue (and Host) per goroutine; see the replicate
// package.
type EventQueue struct {
	now     float64
	pending *heapq.Heap[float64, appointment]
	host    *Host
	logger  *simlog.Logger
	running bool
	stopped bool
}

// NewEventQueue constructs an EventQueue with its clock at t0.
func NewEventQueue(t0 float64, opts ...EventQueueOption) *EventQueue {
	cfg := resolveQueueOptions(opts)
	return &EventQueue{
		now:     t0,
		pending: heapq.New[float64, appointment](),
		host:    NewHost(),
		logger:  cfg.logger,
	}
}

// Now returns the current simulation time.
func (q *EventQueue) Now() float64 { return q.now }

// Host returns the coroutine Host backing this queue's processes.
func (q *EventQueue) Host() *Host { return q.host }

// Pending returns the number of appointments not yet dispatched.
func (q *EventQueue) Pending() int { return q.pending.Len() }

// Schedule books an appointment for handler to run at time `at` (which must
// be >= Now()), with the given priority (higher priority values are
// dispatched first among appointments due at the same time; ties are
// broken FIFO by scheduling order). subject and object are passed through
// to handler unchanged.
func (q *EventQueue) Schedule(handler EventHandler, subject, object any, at float64, priority int64) Handle {
	if at < q.now {
		violate("schedule %f before current time %f", at, q.now)
	}
	keys := heapq.Keys[float64]{
		Primary:   at,
		Priority:  priority,
		Secondary: q.pending.NextTiebreaker(),
	}
	return q.pending.Enqueue(keys, appointment{at: at, handler: handler, subject: subject, object: object})
}

// Cancel removes a pending appointment, reporting whether it was still
// pending.
func (q *EventQueue) Cancel(h Handle) bool {
	return q.pending.Remove(h)
}

// reprioritize re-sorts a pending appointment's priority in place, keeping
// its scheduled time and insertion-order tiebreak unchanged. Used by
// Process.Reprioritize to keep a process's own pending wake-up consistent
// with its new priority.
func (q *EventQueue) reprioritize(h Handle, priority int64) bool {
	keys, ok := q.pending.KeysOf(h)
	if !ok {
		return false
	}
	keys.Priority = priority
	return q.pending.Reprioritize(h, keys)
}

// Execute runs the event loop until the pending set is empty or Terminate
// is called, dispatching each appointment's handler in time order.
func (q *EventQueue) Execute() {
	q.running = true
	defer func() { q.running = false }()

	for !q.stopped {
		app, _, ok := q.pending.DequeueMin()
		if !ok {
			return
		}
		q.now = app.at
		q.logger.Debug().Float64(`time`, q.now).Log(`dispatching event`)
		app.handler(q, app.subject, app.object)
	}
	q.stopped = false
}

// Terminate stops Execute after the in-flight handler (if any) returns,
// leaving any remaining appointments pending (they are not cancelled, and
// a later Execute call resumes dispatching them).
func (q *EventQueue) Terminate() {
	q.stopped = true
}

// Running reports whether Execute is currently dispatching.
func (q *EventQueue) Running() bool { return q.running }
