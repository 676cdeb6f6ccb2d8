package scheduler

import (
	"log/slog"
	"sync"

	"github.com/hollis-tate/repliprop/internal/fault"
	"github.com/hollis-tate/repliprop/internal/property"
)

// AuthorityCheck reports whether a property must never be scheduled: a
// property whose channel authority matches the local replication role
// under fixed (non-negotiated) authority is never inserted, since
// converging it locally would fight whichever side is actually authoritative.
// Channel/peer identity is out of this engine's scope, so callers supply
// this as a narrow callback rather than the scheduler depending on a
// concrete channel type.
type AuthorityCheck func(p *property.Property) bool

// Scheduler is one Property Type's convergence index: an active side and
// a resting side, each striped into convergence_interval lists.
type Scheduler struct {
	mu      sync.Mutex
	active  *index
	resting *index
	valid   bool
	log     *slog.Logger

	authority AuthorityCheck
}

// New constructs an unactivated Scheduler. AuthorityCheck may be nil, in
// which case nothing is ever suppressed from scheduling.
func New(authority AuthorityCheck, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	if authority == nil {
		authority = func(*property.Property) bool { return false }
	}
	return &Scheduler{authority: authority, log: log}
}

// Activate allocates both indices with convergenceInterval stripes each.
// Must be called exactly once, after the owning Property Type is
// activated (which is when convergence_interval becomes final) and before
// any Schedule call.
func (s *Scheduler) Activate(convergenceInterval int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.valid {
		return fault.New(fault.ConfigAfterActivation, "scheduler already activated", nil)
	}
	if convergenceInterval < 1 {
		convergenceInterval = 1
	}
	s.active = newIndex(convergenceInterval)
	s.resting = newIndex(convergenceInterval)
	s.valid = true
	return nil
}

// IsValid reports whether Activate has run.
func (s *Scheduler) IsValid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valid
}

// Schedule inserts p into the active index directly, for a property that
// is not currently tracked by this scheduler at all. It is a no-op if the
// authority check suppresses p. Most callers should prefer SetState, which
// also handles a property that is already scheduled elsewhere.
func (s *Scheduler) Schedule(p *property.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid {
		return fault.New(fault.ConfigAfterActivation, "scheduler not yet activated", nil)
	}
	if s.authority(p) {
		return nil
	}
	return s.active.insert(p)
}

// SetState transitions p to newState, unscheduling it from whichever index
// currently holds it (mirroring the original's "unschedule before
// reschedule" ordering) before inserting it into the index matching
// newState, if any. This is the entry point the engine's deserialize path
// uses instead of calling property.SetConvergenceState directly, since
// only the scheduler knows which index to move p into.
func (s *Scheduler) SetState(p *property.Property, newState property.ConvergenceState, now float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid {
		return fault.New(fault.ConfigAfterActivation, "scheduler not yet activated", nil)
	}
	s.active.remove(p)
	s.resting.remove(p)
	p.SetConvergenceState(newState, now)
	if newState == property.ConvergenceNone || s.authority(p) {
		return nil
	}
	if newState == property.ConvergenceActive {
		return s.active.insert(p)
	}
	return s.resting.insert(p)
}

// Unschedule removes p from whichever index currently holds it.
func (s *Scheduler) Unschedule(p *property.Property) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid {
		return
	}
	s.active.remove(p)
	s.resting.remove(p)
}

// moveToResting transfers p from the active index to the resting index,
// used internally once a tick observes p has transitioned state.
func (s *Scheduler) moveToResting(p *property.Property) {
	s.active.remove(p)
	if s.authority(p) {
		return
	}
	_ = s.resting.insert(p)
}

// ActiveCount and RestingCount report total scheduled population, for
// debugging/metrics — the generalization of the original's single global
// debug count.
func (s *Scheduler) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid {
		return 0
	}
	return s.active.len()
}

func (s *Scheduler) RestingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid {
		return 0
	}
	return s.resting.len()
}

// Tick runs one convergence pass for the given frame: only the stripe at
// frameID modulo convergence_interval is visited in each index, and a
// property already updated this exact frame (because it just received a
// fresh Deserialize) is skipped so a receive and a scheduled converge
// never double-apply in the same frame.
func (s *Scheduler) Tick(frameID uint64, now float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid {
		return
	}
	s.tickIndex(s.active, frameID, now, true)
	s.tickIndex(s.resting, frameID, now, false)
}

func (s *Scheduler) tickIndex(ix *index, frameID uint64, now float64, isActive bool) {
	n := len(ix.stripes)
	if n == 0 {
		return
	}
	stripe := ix.stripes[frameID%uint64(n)]

	// Collect the stripe's current members before converging any of them:
	// a property converged this pass may transition state and get
	// reinserted into a different stripe of the resting index mid-loop,
	// which must not affect this pass's iteration.
	var batch []*property.Property
	for e := stripe.Front(); e != nil; e = e.Next() {
		batch = append(batch, e.Value.(*property.Property))
	}

	for _, p := range batch {
		if p.LastReceivedChangeFrame() == frameID {
			continue
		}
		stateBefore := p.State()
		if isActive {
			p.ConvergeActiveNow(now)
		} else {
			p.ConvergeRestingNow(now)
		}
		stateAfter := p.State()
		if stateAfter == stateBefore {
			continue
		}
		switch stateAfter {
		case property.ConvergenceResting:
			if isActive {
				s.moveToResting(p)
			}
		case property.ConvergenceNone:
			ix.remove(p)
		}
	}
}
