package pm

import "sync"

// Notifier is a pair of optional callbacks invoked around a state
// transition. Either callback may be nil. A Notifier is owned by the
// subsystem that registers it; NotifierRegistry only holds a reference to
// it.
//
// Callbacks run on the idle path (SystemSuspend broadcasts with the
// scheduler lock held; PowerStateForce broadcasts with interrupts masked
// through Arch) and must not block, call back into this package, or
// register/unregister notifiers — NotifierRegistry's lock is
// not reentrant and broadcast does not tolerate a callback that blocks on
// the lock it is already holding.
type Notifier struct {
	OnEntry func(PowerState)
	OnExit  func(PowerState)
}

// NotifierRegistry is the ordered list of entry/exit callbacks. Registration
// order is preserved; broadcast walks the list under regLock. A spin lock
// would guard the same list in the kernel this models; in a single-process
// Go program a sync.Mutex gives the same mutual exclusion between
// registration and broadcast without a separate preemption domain to spin
// against.
type NotifierRegistry struct {
	regLock sync.Mutex
	nodes   []*Notifier
}

// NewNotifierRegistry returns an empty registry.
func NewNotifierRegistry() *NotifierRegistry {
	return &NotifierRegistry{}
}

// Register adds n to the registry. Safe to call concurrently with broadcast.
func (r *NotifierRegistry) Register(n *Notifier) {
	r.regLock.Lock()
	defer r.regLock.Unlock()
	r.nodes = append(r.nodes, n)
}

// Unregister removes n from the registry, returning ErrNotFound if n is not
// linked.
func (r *NotifierRegistry) Unregister(n *Notifier) error {
	r.regLock.Lock()
	defer r.regLock.Unlock()
	for i, node := range r.nodes {
		if node == n {
			r.nodes = append(r.nodes[:i], r.nodes[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// broadcast walks the registry in registration order, invoking OnEntry (if
// entering) or OnExit (if not) for every node, skipping nil callbacks.
func (r *NotifierRegistry) broadcast(entering bool, state PowerState) {
	r.regLock.Lock()
	defer r.regLock.Unlock()
	for _, n := range r.nodes {
		if entering {
			if n.OnEntry != nil {
				n.OnEntry(state)
			}
		} else if n.OnExit != nil {
			n.OnExit(state)
		}
	}
}
