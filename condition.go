package desim

// Condition is a named ResourceGuard with no resource semantics of its
// own: the predicate is supplied by the application at each Wait call
// rather than being fixed at construction, and Signal re-evaluates every
// waiter's predicate independently, waking all that currently hold. An
// awoken process must recheck its own condition on resuming, since by the
// time it runs again another process may have changed the state it was
// waiting on.
type Condition struct {
	ResourceBase
	guard *ResourceGuard
}

// NewCondition constructs a named Condition on q.
func NewCondition(q *EventQueue, name string) *Condition {
	c := &Condition{guard: NewResourceGuard(q, name)}
	c.ResourceBase = NewResourceBase(name, nil, nil)
	return c
}

// Wait suspends the current process until predicate(ctx) holds at some
// future Signal call, or the wait is interrupted.
func (c *Condition) Wait(predicate Predicate, ctx any) Signal {
	return c.guard.Wait(predicate, ctx)
}

// Signal re-evaluates every waiter's predicate and wakes every one that
// currently holds. Returns whether anything was woken.
func (c *Condition) Signal() bool {
	return c.guard.Signal()
}

// ObserveGuard makes c an observer of publisher: whenever publisher is
// signaled, c is re-evaluated (and in turn wakes its own satisfied
// waiters) too. Useful for chaining a Condition off another resource's
// front/rear guard, so it wakes whenever that resource's state changes
// without polling it.
func (c *Condition) ObserveGuard(publisher *ResourceGuard) {
	c.guard.Subscribe(publisher)
}

// UnobserveGuard reverses a prior ObserveGuard.
func (c *Condition) UnobserveGuard(publisher *ResourceGuard) {
	c.guard.Unsubscribe(publisher)
}

// Guard exposes the Condition's underlying ResourceGuard, so other guards
// can subscribe to it in turn (building deeper observer chains) or so a
// resource's front/rear guard can be passed to ObserveGuard.
func (c *Condition) Guard() *ResourceGuard { return c.guard }
