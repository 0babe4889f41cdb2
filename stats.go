package pm

import "sync"

// CycleCounter is the monotonic 32-bit cycle source consumed by the
// statistics recorder.
type CycleCounter interface {
	Get32() uint32
}

// PerCpuPerStateStats is the three-counter record exposed per CPU per
// state: entry count, last residency, cumulative residency, all in
// hardware cycles. It is the one per-(cpu, state) record the statistics
// interface exposes; Count/Last/Total stand in for state_count/
// state_last_cycles/state_total_cycles.
type PerCpuPerStateStats struct {
	Count uint32
	Last  uint32
	Total uint32
}

// perCpuTimings holds the start/end cycle samples for the in-flight
// residency measurement.
type perCpuTimings struct {
	start uint32
	end   uint32
}

// StatsRecorder accumulates residency statistics per CPU per sleep state.
// When constructed with a nil CycleCounter, StartTimer/StopTimer/Update
// are no-ops, so a caller that does not care about residency accounting
// pays nothing for it.
type StatsRecorder struct {
	counter CycleCounter

	mu      sync.Mutex
	timings map[int]*perCpuTimings
	stats   map[int]*[numPowerStates]PerCpuPerStateStats
}

// NewStatsRecorder returns a recorder sampling from counter. Pass a nil
// counter to get a recorder whose methods are all no-ops.
func NewStatsRecorder(counter CycleCounter) *StatsRecorder {
	return &StatsRecorder{
		counter: counter,
		timings: make(map[int]*perCpuTimings),
		stats:   make(map[int]*[numPowerStates]PerCpuPerStateStats),
	}
}

func (r *StatsRecorder) enabled() bool { return r != nil && r.counter != nil }

// StartTimer samples the cycle counter into cpu's slot before the SoC hook
// runs.
func (r *StatsRecorder) StartTimer(cpu int) {
	if !r.enabled() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timings[cpu] = &perCpuTimings{start: r.counter.Get32()}
}

// StopTimer samples the cycle counter again after the SoC hook returns.
func (r *StatsRecorder) StopTimer(cpu int) {
	if !r.enabled() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.timings[cpu]
	if !ok {
		return
	}
	t.end = r.counter.Get32()
}

// Update computes end-start (modular 32-bit subtraction; wraparound is
// tolerated since residencies are well below 2^32 cycles on any realistic
// target) and applies it to stats[cpu][state].
func (r *StatsRecorder) Update(cpu int, state PowerState) {
	if !r.enabled() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.timings[cpu]
	if !ok {
		return
	}
	delta := t.end - t.start // unsigned wraparound is the intended semantics

	row := r.stats[cpu]
	if row == nil {
		row = &[numPowerStates]PerCpuPerStateStats{}
		r.stats[cpu] = row
	}
	s := &row[state]
	s.Count++
	s.Last = delta
	s.Total += delta
}

// Snapshot returns a copy of stats[cpu][state]. Returns the zero value for
// a CPU/state pair that has never recorded a residency, or when the
// recorder is disabled.
func (r *StatsRecorder) Snapshot(cpu int, state PowerState) PerCpuPerStateStats {
	if !r.enabled() {
		return PerCpuPerStateStats{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	row := r.stats[cpu]
	if row == nil {
		return PerCpuPerStateStats{}
	}
	return row[state]
}
