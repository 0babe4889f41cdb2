package pm

import (
	"errors"
	"log"
)

// Scheduler is the device suspension mini-scheduler. It drives every
// device in the table through a transition in reverse registration order
// and remembers which devices actually moved so the cycle can be reversed
// symmetrically.
type Scheduler struct {
	table *DeviceTable

	// suspended holds, in the order suspension occurred, the devices this
	// scheduler moved to SUSPENDED this cycle: filled in order, drained in
	// reverse.
	suspended []*Device
}

// NewScheduler returns a scheduler driving the devices in table.
func NewScheduler(table *DeviceTable) *Scheduler {
	return &Scheduler{table: table}
}

// NumSuspended returns the number of devices currently recorded as
// suspended this cycle.
func (s *Scheduler) NumSuspended() int {
	return len(s.suspended)
}

// isBenignSkip reports whether err is one of the benign-skip outcomes that
// SuspendAll swallows rather than aborting on.
func isBenignSkip(err error) bool {
	return errors.Is(err, ErrNotImplemented) ||
		errors.Is(err, ErrUnsupported) ||
		errors.Is(err, ErrAlready)
}

// SuspendAll iterates all registered devices in reverse registration
// order. A device is skipped (left ACTIVE) if it is BUSY or wake-enabled.
// Otherwise its transition to SUSPENDED is attempted; NOT_IMPLEMENTED,
// UNSUPPORTED and ALREADY are benign skips, any other error stops
// iteration and is returned as the first failing error. Each device
// successfully suspended is appended to the suspended list.
func (s *Scheduler) SuspendAll() error {
	devices, _ := s.table.GetAll()

	for i := len(devices) - 1; i >= 0; i-- {
		d := devices[i]
		if d.IsBusy() || d.WakeupIsEnabled() {
			continue
		}

		err := d.SetState(DeviceSuspended)

		if err == nil {
			s.suspended = append(s.suspended, d)
			continue
		}
		if isBenignSkip(err) {
			continue
		}

		log.Printf("pm: device %s failed suspend: %v", d.Name, err)
		return &deviceFailure{device: d.Name, err: err}
	}
	return nil
}

// ResumeAll iterates the suspended list from tail to head, transitioning
// each device back to ACTIVE and ignoring errors, then empties the list.
// Resume order is strictly the reverse of suspend order: since a device's
// dependencies are registered before it (and therefore, in SuspendAll's
// reverse walk, suspended after it), resuming in reverse-of-suspend order
// brings dependencies up first.
func (s *Scheduler) ResumeAll() {
	for i := len(s.suspended) - 1; i >= 0; i-- {
		d := s.suspended[i]
		if err := d.SetState(DeviceActive); err != nil {
			log.Printf("pm: device %s failed resume (ignored): %v", d.Name, err)
		}
	}
	s.suspended = s.suspended[:0]
}
