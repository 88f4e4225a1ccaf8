// Package desim implements a discrete-event simulation runtime: stackful-
// looking coroutine processes, a time-ordered event scheduler, resource
// synchronization primitives (condition, pool, object queue, priority
// queue, buffer), and the recording plumbing needed to summarize a
// replication's state-variable histories.
//
// A single EventQueue owns exactly one simulation clock and drives exactly
// one replication; running many replications concurrently (e.g. to compute
// a confidence interval across independent runs) means constructing one
// EventQueue per goroutine — see the sibling replicate package.
package desim

import (
	"errors"
	"fmt"
	"runtime"
)

// Signal is the return value of a suspending call: zero means the call
// completed normally (the waiter's predicate was satisfied, the resource
// had capacity, etc.); non-zero means the call was interrupted and the
// caller must decide how to proceed. Signal values below UserSignalBase are
// reserved for this package.
type Signal int64

const (
	// Success indicates a suspending call completed normally.
	Success Signal = 0
	// Cancelled indicates a pending appointment or wait was cancelled.
	Cancelled Signal = 1
	// Preempted indicates a resource pool holding was forcibly reclaimed
	// by a higher-priority acquirer.
	Preempted Signal = 2

	// UserSignalBase is the first value applications may use for their own
	// process.Interrupt reasons.
	UserSignalBase Signal = 100
)

// ContractViolation is panicked for conditions the caller must never
// trigger in correct code: bad handles, capacity overflow, transferring
// into a finished coroutine, and similar invariant breaks. It carries the
// file:line of the check that failed, in the style of an assertion failure.
type ContractViolation struct {
	Message string
	Where   string
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("desim: contract violation: %s (%s)", e.Message, e.Where)
}

func violate(format string, args ...any) {
	_, file, line, _ := runtime.Caller(1)
	panic(&ContractViolation{
		Message: fmt.Sprintf(format, args...),
		Where:   fmt.Sprintf("%s:%d", file, line),
	})
}

// Sentinel errors naming misuse conditions callers may want to errors.Is
// against. No operation in this package currently returns them: unknown
// handles are reported as a false result, and over-capacity requests panic
// with a ContractViolation.
var (
	// ErrBadHandle names the condition of a Handle the hash-heap no longer
	// (or never did) recognize. EventQueue.Cancel, PriorityQueue.Cancel and
	// PriorityQueue.Reprioritize report it by returning false instead.
	ErrBadHandle = errors.New("desim: unknown handle")
	// ErrCapacityExceeded names a request that exceeds a resource's total
	// configured capacity (never satisfiable, regardless of waiting).
	// ResourcePool.Acquire/Preempt panic with a ContractViolation instead.
	ErrCapacityExceeded = errors.New("desim: request exceeds resource capacity")
)

// Unlimited is the capacity value a resource constructor treats as "no
// bound": no Wait ever blocks on the corresponding guard.
const Unlimited uint64 = 1<<64 - 1
