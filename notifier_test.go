package pm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierRegistry_BroadcastOrderAndNilCallbacks(t *testing.T) {
	reg := NewNotifierRegistry()
	var entries []string

	reg.Register(&Notifier{
		OnEntry: func(s PowerState) { entries = append(entries, "a-entry:"+s.String()) },
	})
	reg.Register(&Notifier{
		OnExit: func(s PowerState) { entries = append(entries, "b-exit:"+s.String()) },
	})
	reg.Register(&Notifier{
		OnEntry: func(s PowerState) { entries = append(entries, "c-entry:"+s.String()) },
		OnExit:  func(s PowerState) { entries = append(entries, "c-exit:"+s.String()) },
	})

	reg.broadcast(true, StateStandby)
	assert.Equal(t, []string{"a-entry:standby", "c-entry:standby"}, entries)

	entries = nil
	reg.broadcast(false, StateStandby)
	assert.Equal(t, []string{"b-exit:standby", "c-exit:standby"}, entries)
}

func TestNotifierRegistry_Unregister(t *testing.T) {
	reg := NewNotifierRegistry()
	n1 := &Notifier{}
	n2 := &Notifier{}
	reg.Register(n1)
	reg.Register(n2)

	require.NoError(t, reg.Unregister(n1))

	err := reg.Unregister(n1)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, reg.Unregister(n2))
}
