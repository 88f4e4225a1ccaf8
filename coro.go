package desim

import (
	"sync/atomic"

	coro "github.com/tcard/coro/v2"
)

// CoroutineStatus is the lifecycle state of a Coroutine.
type CoroutineStatus int32

const (
	// CoroutineCreated means Create has returned a Coroutine but it has
	// never been transferred into.
	CoroutineCreated CoroutineStatus = iota
	// CoroutineRunning means the coroutine has been transferred into at
	// least once and has not yet finished (it may itself be parked inside
	// a nested Transfer/Yield call right now).
	CoroutineRunning
	// CoroutineFinished means the entry function returned, called Exit, or
	// was forcibly Stopped.
	CoroutineFinished
)

// CoroutineEntry is the body of a Coroutine. self is the Coroutine running
// it (equivalent to Current() once running); msg is whatever was passed to
// the call that first started it. Its return value becomes the exit value
// delivered to whichever Coroutine resumed it.
type CoroutineEntry func(self *Coroutine, msg any) any

// Coroutine is a cooperatively scheduled unit of execution, realized on top
// of github.com/tcard/coro/v2's goroutine+channel hand-off primitive: resume
// wakes the coroutine's goroutine (spawned, parked, at Create) and blocks the calling
// goroutine until it yields or returns; yield does the reverse. Since
// tcard/coro's resume/yield pair always hands control back to whichever
// goroutine is blocked in the matching resume call, there is no need to
// track a separate "caller" or "parent" the way a hand-rolled channel
// protocol would — resume's own call/return discipline already gives that
// for free.
//
// resume/yield only carry a boolean liveness signal, not a value, so inMsg
// and outMsg carry values across a hand-off as plain fields: safe without
// synchronization because the resume/yield channel operations themselves
// establish the happens-before edge between the write on one goroutine and
// the read on the other.
type Coroutine struct {
	name    string
	entry   CoroutineEntry
	host    *Host
	resume  coro.Resume
	yieldFn func()
	status  atomic.Int32

	inMsg  any
	outMsg any

	context   any
	exitValue any
}

// Name returns the coroutine's diagnostic name.
func (c *Coroutine) Name() string { return c.name }

// Status returns the coroutine's current lifecycle state.
func (c *Coroutine) Status() CoroutineStatus {
	return CoroutineStatus(c.status.Load())
}

// Context returns the value last set by SetContext (or passed to Create).
func (c *Coroutine) Context() any { return c.context }

// SetContext replaces the coroutine's associated context value.
func (c *Coroutine) SetContext(ctx any) { c.context = ctx }

// ExitValue returns the value the coroutine's entry function returned (or
// was passed to Exit/stop), valid once Status() == CoroutineFinished.
func (c *Coroutine) ExitValue() any { return c.exitValue }

// exitSignal is panicked by Exit to unwind the entry function's call stack
// from arbitrary depth. It is recovered inside the closure passed to
// coro.New, before the panic would otherwise reach tcard/coro's own
// recover (which only swallows its ErrKilled type and re-panics anything
// else, which would crash the coroutine's goroutine).
type exitSignal struct{ retval any }

// Host owns a family of Coroutines that hand off control to one another,
// and tracks which one currently holds the baton. A Host's zero value is
// not usable; construct with NewHost.
type Host struct {
	current *Coroutine
	main    *Coroutine
}

// NewHost constructs a Host, along with its "main" pseudo-coroutine — the
// one that is Current() before any Create'd coroutine has ever run. main
// has no underlying tcard/coro goroutine of its own: it stands for whatever
// real goroutine called NewHost/Execute, which is already "resumed" simply
// by virtue of being the one blocked inside a resume call further up its
// own Go call stack.
func NewHost() *Host {
	h := &Host{}
	main := &Coroutine{name: "main", host: h}
	main.status.Store(int32(CoroutineRunning))
	h.main = main
	h.current = main
	return h
}

// Main returns the Host's main pseudo-coroutine.
func (h *Host) Main() *Coroutine { return h.main }

// Current returns whichever Coroutine currently holds the baton.
func (h *Host) Current() *Coroutine { return h.current }

// Create allocates a new Coroutine bound to this Host. Its entry function
// does not begin executing until first Transferred into, but tcard/coro
// spawns its backing goroutine immediately (parked, waiting for that first
// hand-off) — a side effect of using a real coroutine library rather than
// the lazily-started goroutine this package hand-rolled previously.
func (h *Host) Create(name string, entry CoroutineEntry, context any) *Coroutine {
	c := &Coroutine{
		name:    name,
		entry:   entry,
		host:    h,
		context: context,
	}
	c.status.Store(int32(CoroutineCreated))
	c.resume = coro.New(func(yield func()) {
		c.yieldFn = yield
		msg := c.inMsg

		var exitVal any
		func() {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if sig, ok := r.(exitSignal); ok {
					exitVal = sig.retval
					return
				}
				panic(r)
			}()
			exitVal = c.entry(c, msg)
		}()

		c.exitValue = exitVal
		c.outMsg = exitVal
		c.status.Store(int32(CoroutineFinished))
	})
	return c
}

// transfer is the shared implementation of Start/Resume/Transfer: it hands
// control (and msg) to `to` via tcard/coro's resume, blocking the calling
// goroutine until `to` yields or finishes, and returns whatever value `to`
// yielded or returned.
func (h *Host) transfer(to *Coroutine, msg any) any {
	if to.Status() == CoroutineFinished {
		violate("transfer into finished coroutine %q", to.name)
	}

	from := h.current
	to.inMsg = msg
	h.current = to
	to.status.CompareAndSwap(int32(CoroutineCreated), int32(CoroutineRunning))

	alive := to.resume()

	h.current = from
	if !alive {
		to.status.Store(int32(CoroutineFinished))
	}
	return to.outMsg
}

// Start begins a Created coroutine, delivering msg as its entry function's
// msg argument, and blocks the caller until control returns to it. It is
// equivalent to Resume/Transfer for a coroutine that has never run.
func (h *Host) Start(c *Coroutine, msg any) any { return h.transfer(c, msg) }

// Resume transfers control into c, delivering msg, and blocks until control
// returns to the calling coroutine.
func (h *Host) Resume(c *Coroutine, msg any) any { return h.transfer(c, msg) }

// Transfer hands control to `to`, delivering msg, blocking the current
// coroutine until control is transferred back to it.
func (h *Host) Transfer(to *Coroutine, msg any) any { return h.transfer(to, msg) }

// Yield suspends the current coroutine, handing msg back to whichever
// goroutine is blocked in the resume call that most recently ran it, and
// blocks until it is resumed again, returning the message delivered then.
func (h *Host) Yield(msg any) any {
	c := h.current
	c.outMsg = msg
	c.yieldFn()
	return c.inMsg
}

// stop forcibly finishes a coroutine other than the one currently running,
// without executing any more of its entry function (no further code in it
// ever runs, including deferred cleanup inside its entry — callers that
// need cleanup to run on forced stop must do it themselves, e.g. Process.Stop
// walking held resources before calling this). retval becomes its
// ExitValue.
//
// If c is parked (never started, or mid-execution blocked in a nested
// Transfer/Yield call), its backing goroutine is not touched directly —
// there is no portable way to unwind a goroutine from outside itself.
// Instead, stop drops the last strong reference to c's tcard/coro resume
// closure by nilling it out. Once the garbage collector reclaims that
// closure, tcard/coro's own finalizer-driven leak detection unblocks the
// abandoned parked goroutine with a panic it recovers internally, letting
// it exit cleanly — not deterministic, but a real cleanup path rather than
// a permanent leak, since desim never calls resume on a Finished coroutine
// again (see the violate call in transfer).
func (c *Coroutine) stop(retval any) {
	if c.Status() == CoroutineFinished {
		return
	}
	c.exitValue = retval
	c.status.Store(int32(CoroutineFinished))
	c.resume = nil
}

// Exit unwinds the current coroutine's call stack and finishes it with
// retval as its ExitValue, equivalent to returning retval from the entry
// function directly, but usable from arbitrary call depth.
func Exit(self *Coroutine, retval any) {
	panic(exitSignal{retval: retval})
}
