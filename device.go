package pm

import "sync/atomic"

// DeviceState is the per-device state tag.
type DeviceState uint8

const (
	DeviceActive DeviceState = iota
	DeviceSuspended
	DeviceOff
)

// String returns the lower-case name of the state.
func (s DeviceState) String() string {
	switch s {
	case DeviceActive:
		return "active"
	case DeviceSuspended:
		return "suspended"
	case DeviceOff:
		return "off"
	default:
		return ""
	}
}

// DeviceAction is the action a device's callback is asked to perform.
type DeviceAction uint8

const (
	ActionSuspend DeviceAction = iota
	ActionResume
	ActionTurnOff
)

// Device flag bits, stored together in a single atomic word so ISRs and
// threads can share a control block without a lock.
const (
	flagBusy uint32 = 1 << iota
	flagWakeCapable
	flagWakeEnabled
	flagTransitioning
)

// DeviceActionFunc is the device action callback. A nil callback marks a
// device that does not participate in power management.
type DeviceActionFunc func(dev *Device, action DeviceAction) error

// Device is the per-device control block.
type Device struct {
	Name string

	actionCB DeviceActionFunc

	state atomic.Uint32 // holds a DeviceState
	flags atomic.Uint32
}

// NewDevice constructs a device control block. wakeCapable marks whether
// the device is permitted to become a wake source; action may be nil for a
// device that does not implement power management.
func NewDevice(name string, wakeCapable bool, action DeviceActionFunc) *Device {
	d := &Device{Name: name, actionCB: action}
	d.state.Store(uint32(DeviceActive))
	if wakeCapable {
		d.flags.Store(flagWakeCapable)
	}
	return d
}

// State returns the device's current state.
func (d *Device) State() DeviceState {
	return DeviceState(d.state.Load())
}

// transitionFor computes the action and precondition outcome for a
// requested device state transition.
func transitionFor(from, to DeviceState) (DeviceAction, error) {
	if from == to {
		return 0, ErrAlready
	}
	if to == DeviceOff {
		return ActionTurnOff, nil
	}
	switch {
	case from == DeviceActive && to == DeviceSuspended:
		return ActionSuspend, nil
	case from == DeviceSuspended && to == DeviceActive:
		return ActionResume, nil
	default:
		// OFF -> SUSPENDED and OFF -> ACTIVE are both rejected: a device
		// that has been turned fully off does not come back through this
		// state machine.
		return 0, ErrUnsupported
	}
}

// SetState requests a transition to target. If the device has no action
// callback, returns ErrNotImplemented. SetState itself performs an atomic
// test-and-set of TRANSITIONING on entry: if it was already set (by a
// concurrent caller, or because the action callback recursively targets
// this same device), returns ErrBusy without invoking the callback.
// Otherwise it computes the action from the state table, invokes the
// callback, and on success stores the new state; on any error the stored
// state is left unchanged. Once this call has set TRANSITIONING, it clears
// it again before returning; on the ErrBusy path the flag is left as found.
func (d *Device) SetState(target DeviceState) error {
	if d.actionCB == nil {
		return ErrNotImplemented
	}
	if !d.beginTransition() {
		return ErrBusy
	}
	defer d.endTransition()

	action, err := transitionFor(d.State(), target)
	if err != nil {
		return err
	}

	if err := d.actionCB(d, action); err != nil {
		return err
	}
	d.state.Store(uint32(target))
	return nil
}

// beginTransition atomically sets flagTransitioning and reports whether
// this call was the one that set it (false if it was already set).
func (d *Device) beginTransition() bool {
	for {
		old := d.flags.Load()
		if old&flagTransitioning != 0 {
			return false
		}
		if d.flags.CompareAndSwap(old, old|flagTransitioning) {
			return true
		}
	}
}

func (d *Device) endTransition() { d.clearFlag(flagTransitioning) }

func (d *Device) setFlag(bit uint32)   { d.flags.Or(bit) }
func (d *Device) clearFlag(bit uint32) { d.flags.And(^bit) }
func (d *Device) hasFlag(bit uint32) bool {
	return d.flags.Load()&bit != 0
}

func (d *Device) BusySet()          { d.setFlag(flagBusy) }
func (d *Device) BusyClear()        { d.clearFlag(flagBusy) }
func (d *Device) IsBusy() bool      { return d.hasFlag(flagBusy) }

func (d *Device) TransitioningSet()     { d.setFlag(flagTransitioning) }
func (d *Device) TransitioningClear()   { d.clearFlag(flagTransitioning) }
func (d *Device) IsTransitioning() bool { return d.hasFlag(flagTransitioning) }

func (d *Device) WakeupIsCapable() bool { return d.hasFlag(flagWakeCapable) }
func (d *Device) WakeupIsEnabled() bool { return d.hasFlag(flagWakeEnabled) }

// WakeupEnable atomically enables or disables the device as a wake source.
// Fails with ErrUnsupported if the device is not wake-capable.
func (d *Device) WakeupEnable(enable bool) error {
	if !d.WakeupIsCapable() {
		return ErrUnsupported
	}
	for {
		old := d.flags.Load()
		var next uint32
		if enable {
			next = old | flagWakeEnabled
		} else {
			next = old &^ flagWakeEnabled
		}
		if d.flags.CompareAndSwap(old, next) {
			return nil
		}
	}
}
