// Package pm implements the CPU and device power-management orchestration
// core of a preemptive, SMP-capable real-time kernel.
//
// It places a CPU — and, transitively, the peripherals attached to it —
// into the deepest sleep state that is safe to enter given the next
// scheduled wake-up, then restores full operation on an interrupt-driven
// wake event without losing kernel timing or device state.
//
// The package does not decide which sleep state to enter (see Policy), does
// not know how to actually halt a CPU (see SoCHooks), and does not own a
// timer, a statistics backend, or a driver model — all of those are
// supplied by the caller through narrow interfaces. What it owns is the
// orchestration: suspend ordering, the split entry/resume control path
// across the asymmetric hardware wake boundary, and the invariants that
// keep both halves of a cycle consistent.
package pm
