// Package clock provides the frame-id/timestamp source the scheduler and
// property pipeline stamp updates with, following the sync-rule engine's
// atomic-counter Clock but exposing both a frame id (for scheduler
// striping) and a float-seconds timestamp (for curve and convergence
// timing) instead of a single logical sequence number.
package clock

import (
	"sync/atomic"
	"time"
)

// Source is what the rest of the engine depends on instead of calling
// time.Now()/a package-level counter directly, so tests can substitute a
// deterministic fake.
type Source interface {
	// Now returns the current time as float seconds, matching the
	// original engine's float-seconds timestamps used throughout curve
	// and convergence math.
	Now() float64
	// FrameID returns the current frame id used to stripe scheduler
	// indices and to detect same-frame receive/converge collisions.
	FrameID() uint64
}

// Monotonic is the real clock: wall time since construction for Now, and
// an atomically incremented counter for FrameID that the driving loop
// advances once per tick via Advance.
type Monotonic struct {
	start time.Time
	frame atomic.Uint64
}

// NewMonotonic creates a clock whose Now() starts at 0 at construction
// time.
func NewMonotonic() *Monotonic {
	return &Monotonic{start: time.Now()}
}

// Now returns elapsed seconds since construction.
func (m *Monotonic) Now() float64 {
	return time.Since(m.start).Seconds()
}

// FrameID returns the current frame counter value.
func (m *Monotonic) FrameID() uint64 {
	return m.frame.Load()
}

// Advance increments the frame counter and returns the new value. Called
// once per tick by the driving loop, never by the components that merely
// read FrameID.
func (m *Monotonic) Advance() uint64 {
	return m.frame.Add(1)
}
