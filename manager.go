package pm

import "sync"

// Manager owns the state shared across every CPU in an SMP system: the
// device table, the device suspension scheduler's backing table, the
// notifier registry and the statistics recorder. It hands out one Engine
// per CPU, each with its own independent currentTransition so concurrent
// suspend/resume cycles on different CPUs never contend with each other,
// while the notifier registry, the device table and the statistics
// recorder are shared. Each engine keeps its own record of the devices it
// suspended; device suspension is not serialized across engines.
type Manager struct {
	mu      sync.Mutex
	engines map[int]*Engine

	devices   *DeviceTable
	notifiers *NotifierRegistry
	stats     *StatsRecorder

	policy  Policy
	counter CycleCounter
}

// ManagerOption configures a Manager at construction.
type ManagerOption func(*Manager)

// WithCycleCounter supplies the cycle source used by the shared statistics
// recorder. Omitting it leaves statistics collection disabled.
func WithCycleCounter(c CycleCounter) ManagerOption {
	return func(m *Manager) { m.counter = c }
}

// WithDeviceTable supplies a pre-populated device table instead of the
// empty one a Manager otherwise constructs.
func WithDeviceTable(t *DeviceTable) ManagerOption {
	return func(m *Manager) { m.devices = t }
}

// NewManager returns a Manager that hands out engines sharing a single
// device table, notifier registry and statistics recorder, all consulting
// policy for their sleep-state decisions.
func NewManager(policy Policy, opts ...ManagerOption) *Manager {
	m := &Manager{
		engines:   make(map[int]*Engine),
		notifiers: NewNotifierRegistry(),
		policy:    policy,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.devices == nil {
		m.devices = NewDeviceTable()
	}
	m.stats = NewStatsRecorder(m.counter)
	return m
}

// Devices returns the device table shared by every engine this manager
// hands out. Register devices on it before any CPU suspends.
func (m *Manager) Devices() *DeviceTable {
	return m.devices
}

// Notifiers returns the notifier registry shared by every engine this
// manager hands out.
func (m *Manager) Notifiers() *NotifierRegistry {
	return m.notifiers
}

// Stats returns the statistics recorder shared by every engine this
// manager hands out.
func (m *Manager) Stats() *StatsRecorder {
	return m.stats
}

// Engine returns the per-CPU engine for cpuID, constructing it (with the
// manager's shared device table, notifiers and stats) on first use. Extra
// options are applied only the first time an engine is created for a
// given cpuID.
func (m *Manager) Engine(cpuID int, opts ...Option) *Engine {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.engines[cpuID]; ok {
		return e
	}

	base := []Option{WithNotifiers(m.notifiers), WithStats(m.stats)}
	e := NewEngine(cpuID, m.policy, m.devices, append(base, opts...)...)
	m.engines[cpuID] = e
	return e
}

// ResumeAll calls SystemResume on every engine constructed so far. Useful
// for a global wake event (e.g. an inter-processor interrupt) that should
// unwind every CPU's in-flight transition.
func (m *Manager) ResumeAll() {
	m.mu.Lock()
	engines := make([]*Engine, 0, len(m.engines))
	for _, e := range m.engines {
		engines = append(engines, e)
	}
	m.mu.Unlock()

	for _, e := range engines {
		e.SystemResume()
	}
}
