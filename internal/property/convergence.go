package property

import (
	"math"

	"github.com/hollis-tate/repliprop/internal/value"
)

// SnapNow assigns the target value directly: the interpolated curve
// sample if interpolation is enabled, otherwise the last received value.
// A no-op if the target is currently unavailable (e.g. the curve has not
// baked two points yet). Used whenever convergence is disabled entirely.
func (p *Property) SnapNow(now float64) {
	target := p.convergenceTarget(now)
	if target.IsEmpty() {
		return
	}
	p.set(target)
}

func (p *Property) convergenceTarget(now float64) value.Value {
	cfg := p.pt.Snapshot()
	if cfg.UseInterpolation {
		return p.SampleCurve(p.GetCurrentSampleTime(now))
	}
	return p.lastReceivedChangeValue
}

// SetValueUsingConvergence moves the current value toward target at the
// given weight, per primitive member, snapping straight to target on any
// member whose distance exceeds the configured snap threshold. The
// converged value is always computed even on a member that snaps: this
// matches the original's unconditional Converge call and keeps the
// non-snapping members' progress identical regardless of what a sibling
// member does.
func (p *Property) SetValueUsingConvergence(target value.Value, weight float64) {
	d := p.descriptor()
	if d == nil || !d.Arithmetic {
		return
	}
	cfg := p.pt.Snapshot()
	current := p.GetValue()
	members := make([]float64, d.PrimitiveCount)
	for i := 0; i < d.PrimitiveCount; i++ {
		c, t := current.Member(i), target.Member(i)
		converged := value.Converge(c, t, weight, d.Integral)
		shouldSnap := math.Abs(c-t) > cfg.SnapThreshold.Member(i)
		if shouldSnap {
			members[i] = t
		} else {
			members[i] = converged
		}
	}
	p.set(value.NewArithmetic(p.pt.Kind(), members...))
}

// ConvergeActiveNow advances one convergence tick while Active. If the
// property has run past its extrapolation window it transitions to
// Resting and defers to ConvergeRestingNow instead of converging toward a
// now-stale curve target.
func (p *Property) ConvergeActiveNow(now float64) {
	if p.IsResting(now) {
		p.state = ConvergenceResting
		p.restingStartTime = now
		p.ConvergeRestingNow(now)
		return
	}
	target := p.convergenceTarget(now)
	if target.IsEmpty() {
		return
	}
	p.SetValueUsingConvergence(target, p.pt.Snapshot().ActiveConvergenceWeight)
}

// ConvergeRestingNow advances one convergence tick while Resting,
// transitioning to None once the resting interpolant reaches 1.
func (p *Property) ConvergeRestingNow(now float64) {
	target := p.lastReceivedChangeValue
	if target.IsEmpty() {
		return
	}
	weight := p.ComputeRestingInterpolant(now)
	p.SetValueUsingConvergence(target, weight)
	if weight >= 1 {
		p.state = ConvergenceNone
	}
}

// SetConvergenceState transitions the property's recorded state. Callers
// that need scheduler membership kept in sync (unscheduling from the old
// state's index, scheduling into the new one) use scheduler.Scheduler.SetState
// instead of calling this directly.
func (p *Property) SetConvergenceState(state ConvergenceState, now float64) {
	p.state = state
	if state == ConvergenceResting {
		p.restingStartTime = now
	}
}
