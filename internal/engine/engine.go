// Package engine drives the replicated-property pipeline: an inbound
// update queue, the convergence tick loop, and the registry tying
// Property Types, Properties and their Schedulers together.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hollis-tate/repliprop/internal/fault"
	"github.com/hollis-tate/repliprop/internal/property"
	"github.com/hollis-tate/repliprop/internal/wire"
)

// AdvancingClock is the clock.Source plus the Advance step that moves the
// frame counter forward. Only the Engine's own Run loop calls Advance;
// every other component only ever reads FrameID/Now.
type AdvancingClock interface {
	Now() float64
	FrameID() uint64
	Advance() uint64
}

// Engine is the single-writer convergence loop.
//
// All property mutation happens on the goroutine running Run: inbound
// Updates are applied and the convergence Tick is driven from that one
// goroutine, so two peers' updates to the same property, or an update
// racing a convergence tick, can never interleave unpredictably.
type Engine struct {
	registry *Registry
	clock    AdvancingClock
	queue    *updateQueue
	seq      *SeqClock
	interval time.Duration
	log      *slog.Logger

	onApplied func(name string, p *property.Property)
}

// Option configures a new Engine.
type Option func(*Engine)

// WithTickInterval overrides the default 50ms convergence tick period.
func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) { e.interval = d }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithAppliedHook registers a callback invoked every time an inbound
// Update is successfully applied, after convergence-state reconciliation,
// with the property's name and the property itself.
func WithAppliedHook(fn func(name string, p *property.Property)) Option {
	return func(e *Engine) { e.onApplied = fn }
}

// New constructs an Engine over reg, driven by clk.
func New(reg *Registry, clk AdvancingClock, opts ...Option) *Engine {
	e := &Engine{
		registry: reg,
		clock:    clk,
		queue:    newUpdateQueue(),
		seq:      NewSeqClock(),
		interval: 50 * time.Millisecond,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enqueue submits an inbound update for processing by the Run loop.
// Thread-safe: may be called from any goroutine (typically a transport
// read loop). Returns false if the engine has been stopped.
func (e *Engine) Enqueue(u Update) bool {
	u.Seq = e.seq.Next()
	if u.TraceID == "" {
		if id, err := uuid.NewV7(); err == nil {
			u.TraceID = id.String()
		} else {
			u.TraceID = uuid.NewString()
		}
	}
	return e.queue.Enqueue(u)
}

// Stop closes the inbound queue, causing Run to return once drained.
func (e *Engine) Stop() {
	e.queue.Close()
}

// Run blocks until ctx is cancelled or Stop is called, alternately
// draining queued updates and, once per tick interval, advancing the
// frame counter and running a convergence pass across every registered
// Property Type.
//
// ERROR HANDLING: a single update failing to apply (a bad bitstream, an
// unknown property name) is logged and skipped; it never aborts the loop,
// since one peer's malformed update must not stall every other property's
// convergence.
func (e *Engine) Run(ctx context.Context) error {
	e.log.Info("engine starting", "tick_interval", e.interval)
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		if u, ok := e.queue.TryDequeue(); ok {
			if err := e.applyUpdate(u); err != nil {
				e.log.Warn("update rejected", "property", u.PropertyName, "seq", u.Seq, "trace_id", u.TraceID, "error", err)
			}
			continue
		}

		select {
		case <-ctx.Done():
			e.log.Info("engine stopping: context cancelled")
			e.queue.Close()
			return ctx.Err()

		case <-ticker.C:
			frame := e.clock.Advance()
			e.registry.Tick(frame, e.clock.Now())

		case <-e.queue.Wait():
			if e.queue.Len() == 0 {
				e.log.Info("engine stopping: queue closed")
				return nil
			}
		}
	}
}

// applyUpdate deserializes u onto its target property and reconciles
// scheduler membership with whatever convergence state the deserialize
// left the property in. This reconciliation is the one place that keeps
// property.Property (which knows its own convergence state) and
// scheduler.Scheduler (which indexes properties by that state) consistent:
// Property never calls into the scheduler directly, so every state change
// that can come from an inbound update is re-synced here. With convergence
// enabled, Deserialize leaves a property Active, or Resting when its
// immediate convergence step already finds the update past the
// extrapolation limit; in that case SetState restarts the resting timer
// at the current time, just after Deserialize started it.
func (e *Engine) applyUpdate(u Update) error {
	p, ok := e.registry.Property(u.PropertyName)
	if !ok {
		return fault.New(fault.TypeMismatch, "unknown property", map[string]string{"name": u.PropertyName})
	}
	r := wire.NewReader(u.Payload)
	if err := p.Deserialize(r, property.Phase(u.Phase), u.Timestamp, u.FrameID, e.clock.Now()); err != nil {
		return err
	}
	if sched, ok := e.registry.schedulerFor(u.PropertyName); ok {
		if err := sched.SetState(p, p.State(), e.clock.Now()); err != nil {
			return err
		}
	}
	if e.onApplied != nil {
		e.onApplied(u.PropertyName, p)
	}
	return nil
}
