package pm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeviceTable_RegisterPreservesOrderAndReturnsIndex(t *testing.T) {
	table := NewDeviceTable()
	a := NewDevice("a", false, nil)
	b := NewDevice("b", false, nil)
	c := NewDevice("c", false, nil)

	assert.Equal(t, 0, table.Register(a))
	assert.Equal(t, 1, table.Register(b))
	assert.Equal(t, 2, table.Register(c))

	devices, n := table.GetAll()
	assert.Equal(t, 3, n)
	assert.Equal(t, []*Device{a, b, c}, devices)
}

func TestDeviceTable_GetAllReturnsDefensiveCopy(t *testing.T) {
	table := NewDeviceTable()
	table.Register(NewDevice("a", false, nil))

	devices, _ := table.GetAll()
	devices[0] = nil

	devices2, _ := table.GetAll()
	assert.NotNil(t, devices2[0])
}

func TestDeviceTable_AnyBusy(t *testing.T) {
	table := NewDeviceTable()
	a := NewDevice("a", false, nil)
	b := NewDevice("b", false, nil)
	table.Register(a)
	table.Register(b)

	assert.False(t, table.AnyBusy())

	b.BusySet()
	assert.True(t, table.AnyBusy())
}
