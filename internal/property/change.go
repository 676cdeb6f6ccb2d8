package property

import (
	"math"

	"github.com/hollis-tate/repliprop/internal/value"
)

// HasChangedAtAll reports whole-value inequality between the current and
// last values, ignoring any configured delta threshold. Used whenever a
// threshold-aware comparison would be wrong: on initialization (there is
// no meaningful "small change" yet) and for incoming updates (a peer
// already decided the change was worth sending).
func (p *Property) HasChangedAtAll() bool {
	current := p.GetValue()
	return !current.Equal(p.lastValue)
}

// HasChanged reports whether the current value differs from the last
// value enough to matter: per-member delta-threshold comparison for
// arithmetic kinds when a threshold is configured, exact inequality
// otherwise. Used for steady-state outgoing traffic, where quiet noise
// below the threshold should not trigger a resend.
func (p *Property) HasChanged() bool {
	current := p.GetValue()
	d := p.descriptor()
	if d == nil || !d.Arithmetic {
		return !current.Equal(p.lastValue)
	}
	cfg := p.pt.Snapshot()
	for i := 0; i < d.PrimitiveCount; i++ {
		if p.memberChanged(i, current, cfg.UseDeltaThreshold, cfg.DeltaThreshold) {
			return true
		}
	}
	return false
}

func (p *Property) memberChanged(i int, current value.Value, useThreshold bool, threshold value.Value) bool {
	c, l := current.Member(i), p.lastValue.Member(i)
	if useThreshold {
		return math.Abs(c-l) > threshold.Member(i)
	}
	return c != l
}

// UpdateLastValue commits the current value into LastValue. For
// arithmetic kinds, any primitive member that did not change enough to
// matter (per memberChanged, forced to "changed" for every member when
// forceAll is true) is reset to its last-value member first: this is the
// per-member hysteresis that keeps noise below the delta threshold from
// slowly drifting the committed value. The adjustment only ever affects
// this local LastValue bookkeeping; the externally-owned current value
// is never written back through the setter.
func (p *Property) UpdateLastValue(forceAll bool) {
	current := p.GetValue()
	if current.IsEmpty() {
		return
	}
	d := p.descriptor()
	if d == nil || !d.Arithmetic {
		p.lastValue = current
		return
	}

	cfg := p.pt.Snapshot()
	adjusted := current
	for i := 0; i < d.PrimitiveCount; i++ {
		changed := forceAll || p.memberChanged(i, current, cfg.UseDeltaThreshold, cfg.DeltaThreshold)
		if !changed {
			adjusted = adjusted.WithMember(i, p.lastValue.Member(i))
		}
	}
	p.lastValue = adjusted
}

// ReactToChanges is the single entry point driving change detection for
// both locally originated and peer-originated updates. It reports whether
// a change was detected; callers serialize/notify only when it returns
// true. An incoming timestamp is accepted even when it is chronologically
// older than the property's current LastChangeTimestamp: out-of-order
// delivery is expected at this layer and is not treated as an error.
func (p *Property) ReactToChanges(timestamp float64, phase Phase, direction Direction, setLastValue bool) bool {
	var changed bool
	if phase == Initialization || direction == Incoming {
		changed = p.HasChangedAtAll()
	} else {
		changed = p.HasChanged()
	}
	if !changed {
		return false
	}
	if setLastValue {
		p.UpdateLastValue(phase == Initialization)
	}
	p.lastChangeTimestamp = timestamp
	return true
}
