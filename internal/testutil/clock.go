// Package testutil provides deterministic test doubles shared across the
// engine, scheduler and harness test suites.
package testutil

import "sync"

// FakeClock is a manually-driven stand-in for engine.AdvancingClock: Now and
// FrameID never move on their own, only when the test calls Set/Advance.
// Unlike clock.Monotonic it can be rewound, which lets a test reproduce an
// exact sequence of frame/timestamp pairs instead of racing wall time.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type FakeClock struct {
	mu    sync.Mutex
	now   float64
	frame uint64
}

// NewFakeClock creates a clock starting at time zero, frame zero.
func NewFakeClock() *FakeClock {
	return &FakeClock{}
}

// Now returns the clock's current time in seconds.
func (c *FakeClock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// FrameID returns the clock's current frame counter.
func (c *FakeClock) FrameID() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

// Advance increments the frame counter by one and returns the new value,
// satisfying engine.AdvancingClock without moving Now.
func (c *FakeClock) Advance() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frame++
	return c.frame
}

// SetNow pins the clock's time, independent of the frame counter.
func (c *FakeClock) SetNow(now float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// SetFrame pins the clock's frame counter directly, for tests that need to
// jump to a specific stripe without walking through every frame in between.
func (c *FakeClock) SetFrame(frame uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frame = frame
}
