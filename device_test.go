package pm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceSetState_NoCallback(t *testing.T) {
	d := NewDevice("uart0", false, nil)
	err := d.SetState(DeviceSuspended)
	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.Equal(t, DeviceActive, d.State())
}

func TestDeviceSetState_AlreadyAtTarget(t *testing.T) {
	d := NewDevice("uart0", false, func(*Device, DeviceAction) error { return nil })
	err := d.SetState(DeviceActive)
	assert.ErrorIs(t, err, ErrAlready)
}

func TestDeviceSetState_Busy(t *testing.T) {
	d := NewDevice("uart0", false, func(*Device, DeviceAction) error { return nil })
	d.TransitioningSet()
	err := d.SetState(DeviceSuspended)
	assert.ErrorIs(t, err, ErrBusy)
}

func TestDeviceSetState_UnsupportedFromOff(t *testing.T) {
	d := NewDevice("uart0", false, func(*Device, DeviceAction) error { return nil })
	require.NoError(t, d.SetState(DeviceSuspended))
	require.NoError(t, d.SetState(DeviceOff))

	err := d.SetState(DeviceSuspended)
	assert.ErrorIs(t, err, ErrUnsupported)

	err = d.SetState(DeviceActive)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestDeviceSetState_ActionFailureLeavesStateUnchanged(t *testing.T) {
	boom := errors.New("boom")
	d := NewDevice("uart0", false, func(*Device, DeviceAction) error { return boom })
	err := d.SetState(DeviceSuspended)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, DeviceActive, d.State())
}

func TestDeviceSetState_ReceivesExpectedAction(t *testing.T) {
	var got []DeviceAction
	d := NewDevice("uart0", false, func(_ *Device, action DeviceAction) error {
		got = append(got, action)
		return nil
	})

	require.NoError(t, d.SetState(DeviceSuspended))
	require.NoError(t, d.SetState(DeviceActive))
	require.NoError(t, d.SetState(DeviceOff))

	assert.Equal(t, []DeviceAction{ActionSuspend, ActionResume, ActionTurnOff}, got)
}

func TestDeviceWakeupEnable_RequiresCapability(t *testing.T) {
	d := NewDevice("uart0", false, nil)
	err := d.WakeupEnable(true)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.False(t, d.WakeupIsEnabled())
}

func TestDeviceWakeupEnable_RoundTrip(t *testing.T) {
	d := NewDevice("uart0", true, nil)
	require.NoError(t, d.WakeupEnable(true))
	assert.True(t, d.WakeupIsEnabled())
	require.NoError(t, d.WakeupEnable(false))
	assert.False(t, d.WakeupIsEnabled())
}

func TestDeviceFlags_BusyAndTransitioningAreIndependent(t *testing.T) {
	d := NewDevice("uart0", false, nil)
	d.BusySet()
	d.TransitioningSet()
	assert.True(t, d.IsBusy())
	assert.True(t, d.IsTransitioning())

	d.BusyClear()
	assert.False(t, d.IsBusy())
	assert.True(t, d.IsTransitioning())

	d.TransitioningClear()
	assert.False(t, d.IsTransitioning())
}

func TestDeviceState_String(t *testing.T) {
	assert.Equal(t, "active", DeviceActive.String())
	assert.Equal(t, "suspended", DeviceSuspended.String())
	assert.Equal(t, "off", DeviceOff.String())
}
