package desim

import "github.com/joeycumines/go-desim/internal/heapq"

// ProcessState is a Process's lifecycle stage.
type ProcessState int32

const (
	ProcessCreated ProcessState = iota
	ProcessReady
	ProcessRunning
	ProcessWaiting
	ProcessFinished
)

func (s ProcessState) String() string {
	switch s {
	case ProcessCreated:
		return "created"
	case ProcessReady:
		return "ready"
	case ProcessRunning:
		return "running"
	case ProcessWaiting:
		return "waiting"
	case ProcessFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// ProcessEntry is the body of a simulated process. It runs on its own
// coroutine; calling p.Hold/Interrupt-sensitive operations/any blocking
// resource call suspends it back to the scheduler until woken.
type ProcessEntry func(p *Process, context any) any

// Process is a coroutine with simulation-specific lifecycle: priority,
// interrupt handling, and the list of resources it currently holds.
type Process struct {
	name      string
	queue     *EventQueue
	coroutine *Coroutine
	priority  int64
	state     ProcessState
	context   any
	exitValue any

	hasPending    bool
	pendingHandle Handle

	waitingGuard  *ResourceGuard
	waitingHandle heapq.Handle

	heldResources []Holdable
}

// CreateProcess allocates a Process on q's Host. It does not begin running
// until Start is called.
func CreateProcess(q *EventQueue, name string, entry ProcessEntry, context any, priority int64) *Process {
	p := &Process{
		name:     name,
		queue:    q,
		priority: priority,
		context:  context,
		state:    ProcessCreated,
	}
	p.coroutine = q.Host().Create(name, func(self *Coroutine, msg any) any {
		return entry(p, p.context)
	}, p)
	return p
}

// Name returns the process's diagnostic name.
func (p *Process) Name() string { return p.name }

// Priority returns the process's current scheduling priority.
func (p *Process) Priority() int64 { return p.priority }

// State returns the process's current lifecycle state.
func (p *Process) State() ProcessState { return p.state }

// Context returns the value passed to CreateProcess (or last set via
// SetContext).
func (p *Process) Context() any { return p.context }

// SetContext replaces the process's associated context value.
func (p *Process) SetContext(ctx any) { p.context = ctx }

// ExitValue returns the process entry function's return value, valid once
// State() == ProcessFinished.
func (p *Process) ExitValue() any { return p.exitValue }

// CurrentProcess returns the Process whose coroutine is currently running
// on q's Host, or nil if the scheduler itself (not any process) is current.
func CurrentProcess(q *EventQueue) *Process {
	c := q.Host().Current()
	if c == q.Host().Main() {
		return nil
	}
	p, _ := c.Context().(*Process)
	return p
}

// Start books an immediate appointment (at the current time, at p's
// priority) that begins p's entry function. Like any other appointment, it
// takes its place in (priority desc, insertion order) among whatever else
// is scheduled for the current instant.
func (p *Process) Start() {
	if p.state != ProcessCreated {
		violate("Start called on process %q in state %s", p.name, p.state)
	}
	p.state = ProcessReady
	p.scheduleWake(Success)
}

// processWakeHandler is the EventHandler used for every appointment that
// resumes a process's coroutine, whether that's its initial Start, a Hold
// timeout, a guard admission, or an Interrupt.
func processWakeHandler(q *EventQueue, subject, object any) {
	p := subject.(*Process)
	p.hasPending = false
	p.transferIn(object)
}

// transferIn hands control to p's coroutine, delivering msg, and updates
// p's bookkeeping once control returns (either because p suspended again,
// or because it finished).
func (p *Process) transferIn(msg any) {
	p.state = ProcessRunning
	p.queue.Host().Transfer(p.coroutine, msg)
	if p.coroutine.Status() == CoroutineFinished && p.state != ProcessFinished {
		p.exitValue = p.coroutine.ExitValue()
		p.state = ProcessFinished
	}
}

// suspend parks the calling process (which must be the current process)
// back to the scheduler, to be resumed by whatever later calls transferIn
// on it. Hold and ResourceGuard.Wait both bottom out here.
func (p *Process) suspend() Signal {
	p.state = ProcessWaiting
	out := p.queue.Host().Yield(nil)
	p.state = ProcessRunning
	sig, _ := out.(Signal)
	return sig
}

// scheduleWake books an immediate wake-up for p carrying signal, used both
// by ResourceGuard.Signal (admitting a waiter) and by Interrupt.
func (p *Process) scheduleWake(signal Signal) {
	p.hasPending = true
	p.pendingHandle = p.queue.Schedule(processWakeHandler, p, signal, p.queue.Now(), p.priority)
}

// Hold suspends the current process for dt simulated time units, then
// resumes it with Success (Hold cannot itself be interrupted away from
// Success except via Interrupt, which is delivered the same way any other
// suspension is).
func (p *Process) Hold(dt float64) Signal {
	if dt < 0 {
		violate("Hold called with negative dt %f", dt)
	}
	p.hasPending = true
	p.pendingHandle = p.queue.Schedule(processWakeHandler, p, Success, p.queue.Now()+dt, p.priority)
	return p.suspend()
}

// Interrupt wakes a Waiting process early: its pending appointment and any
// guard-waiter entry are cancelled, and it is immediately rescheduled with
// signal as the return value of whatever suspending call it was parked in.
// Interrupting a process that is not currently Waiting is a no-op.
func (p *Process) Interrupt(signal Signal) {
	if p.state != ProcessWaiting {
		return
	}
	if p.hasPending {
		p.queue.Cancel(p.pendingHandle)
		p.hasPending = false
	}
	if p.waitingGuard != nil {
		p.waitingGuard.removeWaiter(p.waitingHandle)
		p.waitingGuard = nil
	}
	p.scheduleWake(signal)
}

// Stop forcibly finishes p. If p has never started or is Waiting/Ready, its
// pending appointment/waiter entry is cancelled, every resource it holds is
// silently released (via each Holdable's DropHolder), and it is marked
// Finished directly — its underlying goroutine, if any, is abandoned
// parked (see Coroutine.stop's doc comment). If p is the currently running
// process (stopping itself), this is equivalent to Exit.
func (p *Process) Stop(retval any) {
	if p.state == ProcessFinished {
		return
	}

	if p.state == ProcessRunning {
		p.dropHeldResources()
		Exit(p.coroutine, retval)
		return // unreachable; Exit panics
	}

	if p.hasPending {
		p.queue.Cancel(p.pendingHandle)
		p.hasPending = false
	}
	if p.waitingGuard != nil {
		p.waitingGuard.removeWaiter(p.waitingHandle)
		p.waitingGuard = nil
	}
	p.dropHeldResources()

	p.coroutine.stop(retval)
	p.exitValue = retval
	p.state = ProcessFinished
}

// Exit immediately finishes the calling process (which must be the
// currently running one — i.e. called from within its own entry function,
// possibly several calls deep) with retval as its ExitValue, running no
// further code in it. Unlike returning retval from the entry function
// directly, it also silently drops every resource the process still holds;
// a plain return leaves those holdings in place.
func (p *Process) Exit(retval any) {
	p.dropHeldResources()
	Exit(p.coroutine, retval)
}

func (p *Process) dropHeldResources() {
	for _, r := range p.heldResources {
		r.DropHolder(p)
	}
	p.heldResources = nil
}

// addHeld records that p now holds r, so Stop will drop it on kill and
// Reprioritize will re-sort it.
func (p *Process) addHeld(r Holdable) {
	p.heldResources = append(p.heldResources, r)
}

// removeHeld forgets that p holds r (called on ordinary release, as
// opposed to the kill path which forgets all of them at once).
func (p *Process) removeHeld(r Holdable) {
	for i, held := range p.heldResources {
		if held == r {
			p.heldResources = append(p.heldResources[:i], p.heldResources[i+1:]...)
			return
		}
	}
}

// Reprioritize changes p's priority and re-sorts its position in whatever
// guard it is currently waiting on and in every resource it currently
// holds.
func (p *Process) Reprioritize(priority int64) {
	p.priority = priority
	if p.hasPending {
		p.queue.reprioritize(p.pendingHandle, priority)
	}
	if p.waitingGuard != nil {
		p.waitingGuard.reprioritizeWaiter(p.waitingHandle, priority)
	}
	for _, r := range p.heldResources {
		r.ReprioHolder(p)
	}
}
