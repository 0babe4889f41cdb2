package pm

// Policy is the external decision function consulted by SystemSuspend:
// given the number of ticks until the next scheduled deadline, it picks a
// candidate sleep state. Returning ActiveDescriptor() means "nothing to
// do". Choosing which state to enter is deliberately left to the caller;
// Policy is the seam at which one gets plugged in.
type Policy interface {
	NextState(ticksUntilDeadline int64) PowerStateDescriptor
}

// TicksForever is the sentinel passed to SystemSuspend meaning "no
// upcoming tick deadline".
const TicksForever int64 = -1

// Arch is the architecture-layer interrupt control consumed by
// PowerStateForce.
type Arch interface {
	IRQLock() (key uint32)
	IRQUnlock(key uint32)
}

// Sched is the scheduler re-entry barrier held across the sleep window.
type Sched interface {
	Lock()
	Unlock()
}

// Timer programs the next wake deadline.
type Timer interface {
	SetExpiry(ticks int64, idleHint bool)
}

// SoCHooks are the weakly bound, SoC-specific primitives that actually
// change CPU power state. Modeled as a per-instance interface supplied at
// construction rather than a global mutable function pointer, so that
// multiple engines (one per CPU) can each bind their own hook set.
//
// PowerStateSet may or may not return normally depending on the target
// architecture: on some SoCs the CPU resumes execution inside the wake ISR
// instead of returning from this call. Both modes are supported by the
// engine (see SystemResume); an implementation should document which mode
// it uses.
type SoCHooks interface {
	// PowerStateSet halts the CPU in the state described by d.
	PowerStateSet(d PowerStateDescriptor)

	// PowerStateExitPostOps performs architecture bookkeeping (register
	// restore, interrupt unmask) after wake. Called at most once per
	// suspend cycle, from SystemResume.
	PowerStateExitPostOps(d PowerStateDescriptor)
}

// defaultSoCHooks is the hook set used when a caller supplies none. A
// no-op PowerStateSet means the CPU never actually sleeps; the default
// PowerStateExitPostOps unmasks interrupts through the supplied Arch, if
// any.
type defaultSoCHooks struct {
	arch Arch
}

func (h defaultSoCHooks) PowerStateSet(PowerStateDescriptor) {}

func (h defaultSoCHooks) PowerStateExitPostOps(PowerStateDescriptor) {
	if h.arch != nil {
		h.arch.IRQUnlock(0)
	}
}

// noopArch/noopSched/noopTimer let an Engine be constructed for tests or
// policy-only experimentation without wiring every collaborator.
type noopArch struct{}

func (noopArch) IRQLock() uint32    { return 0 }
func (noopArch) IRQUnlock(uint32)   {}

type noopSched struct{}

func (noopSched) Lock()   {}
func (noopSched) Unlock() {}

type noopTimer struct{}

func (noopTimer) SetExpiry(int64, bool) {}
