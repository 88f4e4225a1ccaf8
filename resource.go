package desim

// Holdable is implemented by anything a Process can hold (currently only
// ResourcePool, via its holder bookkeeping): when the holding process is
// killed its holdings must be silently released, and when its priority
// changes its position in whatever structure ranks it must be re-sorted.
//
// Spec note: the source this runtime's design is drawn from uses
// inheritance-by-first-member composition and pointer casts to get this
// behavior; an explicit vtable interface is the idiomatic Go replacement
// (§9 design note), and it is what ResourceBase implements against.
type Holdable interface {
	// DropHolder silently releases whatever p holds of this resource,
	// without resuming p (p is being killed and will never run again).
	DropHolder(p *Process)
	// ReprioHolder re-sorts p's position in this resource's holder/waiter
	// structures after p.priority has changed.
	ReprioHolder(p *Process)
}

// ResourceBase holds identity shared by every concrete resource kind
// (guard-backed or pool) and the vtable a Process uses to drop/reprioritize
// a holding without knowing the concrete resource type.
type ResourceBase struct {
	name   string
	drop   func(p *Process)
	reprio func(p *Process)
}

// NewResourceBase constructs a ResourceBase. drop and reprio may be nil if
// the concrete resource never lets a process hold state across a
// suspension (e.g. a pure guard with no holder bookkeeping).
func NewResourceBase(name string, drop, reprio func(p *Process)) ResourceBase {
	return ResourceBase{name: name, drop: drop, reprio: reprio}
}

// Name returns the resource's diagnostic name.
func (r *ResourceBase) Name() string { return r.name }

// DropHolder implements Holdable.
func (r *ResourceBase) DropHolder(p *Process) {
	if r.drop != nil {
		r.drop(p)
	}
}

// ReprioHolder implements Holdable.
func (r *ResourceBase) ReprioHolder(p *Process) {
	if r.reprio != nil {
		r.reprio(p)
	}
}
