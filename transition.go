package pm

import (
	"sync"
	"sync/atomic"
)

// currentTransition is the per-CPU singleton describing the in-flight or
// just-completed suspend cycle. postOpsPending is set by arm() when a cycle
// begins and cleared by the first SystemResume that follows (or by an
// aborted SystemSuspend cycle); it is a
// single-producer (SystemSuspend/PowerStateForce), single-consumer
// (SystemResume) handoff flag, so it is a plain atomic.Bool rather than
// anything mutex-guarded.
type currentTransition struct {
	mu              sync.Mutex
	descriptor      PowerStateDescriptor
	postOpsPending  atomic.Bool
}

func newCurrentTransition() *currentTransition {
	return &currentTransition{descriptor: ActiveDescriptor()}
}

// set publishes descriptor as the in-flight transition. Guarded by a mutex
// purely to keep concurrent snapshot reads from tearing; the single path
// that calls set (the owning CPU's idle loop) never contends with itself.
func (t *currentTransition) set(d PowerStateDescriptor) {
	t.mu.Lock()
	t.descriptor = d
	t.mu.Unlock()
}

// snapshot returns a copy of the current descriptor.
func (t *currentTransition) snapshot() PowerStateDescriptor {
	t.mu.Lock()
	d := t.descriptor
	t.mu.Unlock()
	return d
}

// arm clears then sets postOpsPending, marking that a new cycle is
// starting regardless of how the previous one ended.
func (t *currentTransition) arm() {
	t.postOpsPending.Store(false)
	t.postOpsPending.Store(true)
}

// consume clears postOpsPending and reports whether it was set, i.e.
// whether the caller is the one that should run post-ops. Idempotent: a
// second call before the next arm() returns false.
func (t *currentTransition) consume() bool {
	return t.postOpsPending.CompareAndSwap(true, false)
}

func (t *currentTransition) pending() bool {
	return t.postOpsPending.Load()
}
