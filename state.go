package pm

// PowerState is an ordered tag for a CPU sleep state. Deeper indices imply
// deeper sleep; ACTIVE is always the shallowest (index 0).
type PowerState uint8

const (
	StateActive PowerState = iota
	StateRuntimeIdle
	StateStandby
	StateSuspendToRAM
	StateSuspendToDisk
	StateSoftOff

	numPowerStates = int(StateSoftOff) + 1
)

// String returns the lower-case name of the state, or "" if s is out of
// range. Mirrors the device-side pm_device_state_str convention.
func (s PowerState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateRuntimeIdle:
		return "runtime-idle"
	case StateStandby:
		return "standby"
	case StateSuspendToRAM:
		return "suspend-to-ram"
	case StateSuspendToDisk:
		return "suspend-to-disk"
	case StateSoftOff:
		return "soft-off"
	default:
		return ""
	}
}

// SubState disambiguates a sleep state further for a given SoC, e.g.
// selecting among several vendor-specific standby variants. The zero
// SubState (no ID set) means the generic variant of the state.
type SubState struct {
	id    int
	valid bool
}

// NewSubState returns a SubState identifying sub-state id.
func NewSubState(id int) SubState { return SubState{id: id, valid: true} }

// ID returns the sub-state identifier and whether one was set.
func (s SubState) ID() (int, bool) { return s.id, s.valid }

// PowerStateDescriptor describes a candidate CPU sleep state. It is
// immutable once constructed: NewPowerStateDescriptor is the only
// constructor and every field is read through an accessor.
type PowerStateDescriptor struct {
	state          PowerState
	minResidencyUS uint32
	exitLatencyUS  uint32
	subState       SubState
}

// NewPowerStateDescriptor constructs a descriptor. It does not itself
// enforce minResidencyUS >= exitLatencyUS; that invariant is checked by the
// engine at the points where a descriptor is about to be acted on
// (SystemSuspend when it is given a tick deadline other than TicksForever,
// and PowerStateForce), not at construction time.
func NewPowerStateDescriptor(state PowerState, minResidencyUS, exitLatencyUS uint32, sub SubState) PowerStateDescriptor {
	return PowerStateDescriptor{
		state:          state,
		minResidencyUS: minResidencyUS,
		exitLatencyUS:  exitLatencyUS,
		subState:       sub,
	}
}

// ActiveDescriptor is the degenerate descriptor a Policy returns to mean
// "stay active".
func ActiveDescriptor() PowerStateDescriptor {
	return PowerStateDescriptor{state: StateActive}
}

func (d PowerStateDescriptor) State() PowerState       { return d.state }
func (d PowerStateDescriptor) MinResidencyUS() uint32  { return d.minResidencyUS }
func (d PowerStateDescriptor) ExitLatencyUS() uint32   { return d.exitLatencyUS }
func (d PowerStateDescriptor) SubState() SubState      { return d.subState }

// validResidency reports whether the descriptor satisfies the residency
// invariant: min_residency_us >= exit_latency_us. A state whose minimum
// residency is below its own exit latency can never pay back the cost of
// entering it.
func (d PowerStateDescriptor) validResidency() bool {
	return d.minResidencyUS >= d.exitLatencyUS
}
