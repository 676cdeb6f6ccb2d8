package engine

import "sync/atomic"

// SeqClock hands out a strictly increasing sequence number for every
// inbound update accepted onto the queue, independent of the replication
// clock.Source driving frame/time. Replay uses it to reproduce the exact
// order updates were originally applied in, since arrival order and frame
// number alone do not disambiguate two updates enqueued within the same
// frame.
//
// Thread-safety: SeqClock is safe for concurrent use. The Engine's
// single-writer Run loop is the only reader of Current, but Next is called
// from Enqueue, which may run on any goroutine.
type SeqClock struct {
	seq atomic.Int64
}

// NewSeqClock creates a sequence clock starting at 0.
func NewSeqClock() *SeqClock {
	return &SeqClock{}
}

// NewSeqClockAt creates a sequence clock resuming from a prior position,
// used when replaying a persisted update log.
func NewSeqClockAt(start int64) *SeqClock {
	c := &SeqClock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and advances the clock.
func (c *SeqClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without advancing it.
func (c *SeqClock) Current() int64 {
	return c.seq.Load()
}
