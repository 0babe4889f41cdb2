package pm

import (
	"fmt"
	"log"
)

// defaultTickDurationUS is the assumed duration of one kernel tick, used
// only to convert an exit latency in microseconds into a tick count for
// Timer.SetExpiry. Override with WithTickDurationUS if the embedding
// kernel's tick rate differs.
const defaultTickDurationUS = 1000

// Engine is the CPU suspension engine: the top-level per-CPU orchestrator
// that consults the policy, arms the wake deadline, coordinates the
// notifier registry, statistics recorder and device scheduler, and
// invokes the SoC hook through the split entry/resume control path.
type Engine struct {
	cpuID int

	policy Policy
	arch   Arch
	sched  Sched
	timer  Timer
	hooks  SoCHooks

	stats     *StatsRecorder
	notifiers *NotifierRegistry
	scheduler *Scheduler

	transition     *currentTransition
	tickDurationUS uint32
}

// Option configures an Engine at construction.
type Option func(*Engine)

func WithArch(a Arch) Option           { return func(e *Engine) { e.arch = a } }
func WithSched(s Sched) Option         { return func(e *Engine) { e.sched = s } }
func WithTimer(t Timer) Option         { return func(e *Engine) { e.timer = t } }
func WithHooks(h SoCHooks) Option      { return func(e *Engine) { e.hooks = h } }
func WithStats(s *StatsRecorder) Option {
	return func(e *Engine) { e.stats = s }
}
func WithNotifiers(n *NotifierRegistry) Option {
	return func(e *Engine) { e.notifiers = n }
}
func WithTickDurationUS(us uint32) Option {
	return func(e *Engine) { e.tickDurationUS = us }
}

// NewEngine constructs the suspension engine for one CPU. table is the
// static device table the device suspension scheduler will drive; policy
// is the decision function consulted on every SystemSuspend call.
// Unsupplied collaborators default to no-ops, and stats/notifiers
// default to a private, disabled recorder and an empty registry
// respectively — pass WithStats/WithNotifiers to share them across the
// engines of a Manager.
func NewEngine(cpuID int, policy Policy, table *DeviceTable, opts ...Option) *Engine {
	e := &Engine{
		cpuID:          cpuID,
		policy:         policy,
		arch:           noopArch{},
		sched:          noopSched{},
		timer:          noopTimer{},
		stats:          NewStatsRecorder(nil),
		notifiers:      NewNotifierRegistry(),
		scheduler:      NewScheduler(table),
		transition:     newCurrentTransition(),
		tickDurationUS: defaultTickDurationUS,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.hooks == nil {
		e.hooks = defaultSoCHooks{arch: e.arch}
	}
	return e
}

func ceilDivU32(numerator, denominator uint32) uint32 {
	if denominator == 0 {
		return 0
	}
	return (numerator + denominator - 1) / denominator
}

func assertResidency(d PowerStateDescriptor) {
	if !d.validResidency() {
		panic(fmt.Sprintf(
			"pm: misconfigured descriptor for state %s: min_residency_us=%d < exit_latency_us=%d",
			d.State(), d.MinResidencyUS(), d.ExitLatencyUS()))
	}
}

// SystemSuspend queries the policy for a descriptor given
// ticksUntilDeadline (pass TicksForever
// if there is no pending tick deadline), arms the wake timer, suspends
// devices if the target is deeper than RUNTIME_IDLE, and drives the SoC
// through the sleep/wake cycle. Returns the state actually entered;
// returns StateActive immediately if the policy chose it, or if a device
// refused suspension and the cycle had to be aborted.
func (e *Engine) SystemSuspend(ticksUntilDeadline int64) PowerState {
	descriptor := e.policy.NextState(ticksUntilDeadline)
	if descriptor.State() == StateActive {
		return StateActive
	}

	e.transition.arm()
	e.transition.set(descriptor)

	if ticksUntilDeadline != TicksForever {
		assertResidency(descriptor)
		exitTicks := ceilDivU32(descriptor.ExitLatencyUS(), e.tickDurationUS)
		e.timer.SetExpiry(ticksUntilDeadline-int64(exitTicks), true)
	}

	devicesSuspended := false
	if descriptor.State() > StateRuntimeIdle {
		if err := e.scheduler.SuspendAll(); err != nil {
			return e.abortSuspend(err)
		}
		devicesSuspended = true
	}

	e.sched.Lock()
	e.stats.StartTimer(e.cpuID)
	e.notifiers.broadcast(true, descriptor.State())
	e.hooks.PowerStateSet(descriptor)
	e.stats.StopTimer(e.cpuID)
	if devicesSuspended {
		e.scheduler.ResumeAll()
	}
	e.stats.Update(e.cpuID, descriptor.State())
	e.SystemResume()
	e.sched.Unlock()

	return descriptor.State()
}

// abortSuspend rolls back a cycle that a device refused: resume whatever
// was suspended, publish ACTIVE as the current transition, and disarm
// postOpsPending (no SoC hook ran, so there is no post-ops work pending).
// Called exactly once per aborted cycle, so the pending flag never leaks
// true across an abort.
func (e *Engine) abortSuspend(err error) PowerState {
	e.scheduler.ResumeAll()
	e.transition.set(ActiveDescriptor())
	e.transition.postOpsPending.Store(false)
	log.Printf("pm: cpu%d aborting suspend cycle: %v", e.cpuID, err)
	return StateActive
}

// SystemResume is ISR-callable: if postOpsPending is set, it clears it,
// invokes the SoC exit post-ops hook, and broadcasts the exit
// notification. A second call before the next SystemSuspend/
// PowerStateForce is a no-op.
func (e *Engine) SystemResume() {
	if !e.transition.consume() {
		return
	}
	d := e.transition.snapshot()
	e.hooks.PowerStateExitPostOps(d)
	e.notifiers.broadcast(false, d.State())
}

// PowerStateForce bypasses the policy and forces a specific descriptor.
// Returns ErrInvalidDescriptor if d is ACTIVE or violates the residency
// invariant, without touching any state.
func (e *Engine) PowerStateForce(d PowerStateDescriptor) error {
	if d.State() == StateActive || !d.validResidency() {
		return ErrInvalidDescriptor
	}

	key := e.arch.IRQLock()
	e.transition.set(d)
	e.transition.arm()
	e.notifiers.broadcast(true, d.State())

	e.sched.Lock()
	e.stats.StartTimer(e.cpuID)
	e.hooks.PowerStateSet(d)
	e.stats.StopTimer(e.cpuID)
	e.stats.Update(e.cpuID, d.State())
	e.SystemResume()
	e.sched.Unlock()

	e.arch.IRQUnlock(key)
	return nil
}

// NextStateGet returns a snapshot of the in-flight or just-completed
// transition.
func (e *Engine) NextStateGet() PowerStateDescriptor {
	return e.transition.snapshot()
}

// SuspendDevices exposes the device scheduler directly for callers that
// want to suspend devices outside a full CPU suspend cycle.
func (e *Engine) SuspendDevices() error {
	return e.scheduler.SuspendAll()
}

// ResumeDevices resumes every device the last SuspendDevices call
// suspended.
func (e *Engine) ResumeDevices() {
	e.scheduler.ResumeAll()
}

// Notifiers returns the notifier registry backing this engine.
func (e *Engine) Notifiers() *NotifierRegistry {
	return e.notifiers
}

// Stats returns the statistics recorder backing this engine.
func (e *Engine) Stats() *StatsRecorder {
	return e.stats
}

// CPUID returns the CPU index this engine was constructed for.
func (e *Engine) CPUID() int {
	return e.cpuID
}
