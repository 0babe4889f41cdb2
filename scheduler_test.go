package pm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trackingCallback records the device name each time its action is invoked
// so tests can assert ordering.
func trackingCallback(log *[]string, name string) DeviceActionFunc {
	return func(_ *Device, action DeviceAction) error {
		*log = append(*log, name)
		return nil
	}
}

func TestScheduler_SuspendAndResumeOrdering(t *testing.T) {
	table := NewDeviceTable()
	var suspendLog, resumeLog []string

	devices := make([]*Device, 3)
	names := []string{"clock", "bus", "uart"}
	for i, name := range names {
		n := name
		devices[i] = NewDevice(n, false, func(_ *Device, action DeviceAction) error {
			switch action {
			case ActionSuspend:
				suspendLog = append(suspendLog, n)
			case ActionResume:
				resumeLog = append(resumeLog, n)
			}
			return nil
		})
		table.Register(devices[i])
	}

	sched := NewScheduler(table)
	require.NoError(t, sched.SuspendAll())
	assert.Equal(t, []string{"uart", "bus", "clock"}, suspendLog)
	assert.Equal(t, 3, sched.NumSuspended())

	sched.ResumeAll()
	assert.Equal(t, []string{"clock", "bus", "uart"}, resumeLog)
	assert.Equal(t, 0, sched.NumSuspended())
}

func TestScheduler_SkipsBusyAndWakeEnabledDevices(t *testing.T) {
	table := NewDeviceTable()
	var suspended []string

	busy := NewDevice("busy", false, trackingCallback(&suspended, "busy"))
	busy.BusySet()

	wakeEnabled := NewDevice("wake", true, trackingCallback(&suspended, "wake"))
	require.NoError(t, wakeEnabled.WakeupEnable(true))

	plain := NewDevice("plain", false, trackingCallback(&suspended, "plain"))

	table.Register(busy)
	table.Register(wakeEnabled)
	table.Register(plain)

	sched := NewScheduler(table)
	require.NoError(t, sched.SuspendAll())

	assert.Equal(t, []string{"plain"}, suspended)
	assert.Equal(t, DeviceActive, busy.State())
	assert.Equal(t, DeviceActive, wakeEnabled.State())
	assert.Equal(t, DeviceSuspended, plain.State())
}

func TestScheduler_BenignSkipsDoNotAbort(t *testing.T) {
	table := NewDeviceTable()
	notImplemented := NewDevice("noop-pm", false, nil)
	ok := NewDevice("ok", false, func(*Device, DeviceAction) error { return nil })
	table.Register(notImplemented)
	table.Register(ok)

	sched := NewScheduler(table)
	require.NoError(t, sched.SuspendAll())
	assert.Equal(t, 1, sched.NumSuspended())
	assert.Equal(t, DeviceActive, notImplemented.State())
}

func TestScheduler_NonBenignErrorAbortsAndIsWrapped(t *testing.T) {
	table := NewDeviceTable()
	boom := errors.New("hardware fault")
	first := NewDevice("first", false, func(*Device, DeviceAction) error { return nil })
	failing := NewDevice("failing", false, func(*Device, DeviceAction) error { return boom })
	table.Register(first)
	table.Register(failing)

	sched := NewScheduler(table)
	err := sched.SuspendAll()

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var df *deviceFailure
	require.ErrorAs(t, err, &df)
	assert.Equal(t, "failing", df.device)

	// failing device was the first one visited (reverse registration order)
	// so nothing was suspended before the abort.
	assert.Equal(t, 0, sched.NumSuspended())
}
