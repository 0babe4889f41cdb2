package pm

import "sync"

// DeviceTable is the kernel's static device registry. Registration order
// is significant: it is an implicit dependency contract carried from the
// driver-model layer (a device's dependencies must be registered before
// it), which the suspension scheduler relies on directly. Register
// returns the assigned index so that contract is visible at the call site
// instead of being purely positional.
type DeviceTable struct {
	mu      sync.Mutex
	devices []*Device
}

// NewDeviceTable returns an empty device table.
func NewDeviceTable() *DeviceTable {
	return &DeviceTable{}
}

// Register appends dev to the table and returns its registration index.
func (t *DeviceTable) Register(dev *Device) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.devices = append(t.devices, dev)
	return len(t.devices) - 1
}

// GetAll returns the registered devices in registration order and their
// count.
func (t *DeviceTable) GetAll() ([]*Device, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Device, len(t.devices))
	copy(out, t.devices)
	return out, len(out)
}

// AnyBusy reports whether any registered device currently has BUSY set.
func (t *DeviceTable) AnyBusy() bool {
	devices, _ := t.GetAll()
	for _, d := range devices {
		if d.IsBusy() {
			return true
		}
	}
	return false
}
