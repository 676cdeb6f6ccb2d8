package property

import "github.com/hollis-tate/repliprop/internal/value"

// UpdateCurve records a newly received value into each primitive member's
// history and rebakes the sample table. Stale points (older than the
// one-second garbage-collection window behind now) are dropped silently
// inside curve.History.Insert; this is never an error condition.
func (p *Property) UpdateCurve(now, timestamp float64, v value.Value) {
	d := p.descriptor()
	if d == nil || !d.Arithmetic {
		return
	}
	for i := 0; i < d.PrimitiveCount; i++ {
		p.histories[i].Insert(now, timestamp, v.Member(i))
		p.baked[i] = p.histories[i].Bake()
	}
}

// SampleCurve evaluates the baked curve at the given timestamp, returning
// the empty Value if no member has been baked yet (i.e. fewer than two
// points have ever been received).
func (p *Property) SampleCurve(timestamp float64) value.Value {
	d := p.descriptor()
	if d == nil || !d.Arithmetic || p.baked[0].Size() == 0 {
		return value.Empty()
	}
	members := make([]float64, d.PrimitiveCount)
	for i := 0; i < d.PrimitiveCount; i++ {
		v, ok := p.baked[i].SampleFunction(timestamp)
		if !ok {
			return value.Empty()
		}
		members[i] = v
	}
	return value.NewArithmetic(p.pt.Kind(), members...)
}

// GetCurrentSampleTime returns the timestamp SampleCurve should be
// evaluated at right now: the configured sample-time offset ahead of now,
// clamped so it never reaches further ahead than the extrapolation limit
// past the last value actually received from a peer.
func (p *Property) GetCurrentSampleTime(now float64) float64 {
	cfg := p.pt.Snapshot()
	raw := now + cfg.SampleTimeOffset
	max := p.lastReceivedChangeTime + cfg.ExtrapolationLimit
	if raw > max {
		return max
	}
	return raw
}

// IsResting reports whether the unclamped sample time has run past the
// extrapolation limit: once true, there is no more curve data to
// extrapolate from and convergence should switch from actively chasing
// the curve to resting at the last received value.
func (p *Property) IsResting(now float64) bool {
	cfg := p.pt.Snapshot()
	raw := now + cfg.SampleTimeOffset
	max := p.lastReceivedChangeTime + cfg.ExtrapolationLimit
	return raw > max
}

// ComputeRestingInterpolant returns how far through the configured resting
// convergence duration the property currently is, clamped to [0,1]. Only
// meaningful once the property has actually entered the Resting state.
func (p *Property) ComputeRestingInterpolant(now float64) float64 {
	cfg := p.pt.Snapshot()
	if cfg.RestingConvergenceDuration <= 0 {
		return 1
	}
	elapsed := now - p.restingStartTime
	t := elapsed / cfg.RestingConvergenceDuration
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
