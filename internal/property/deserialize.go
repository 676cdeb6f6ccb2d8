package property

import (
	"github.com/hollis-tate/repliprop/internal/fault"
	"github.com/hollis-tate/repliprop/internal/kind"
	"github.com/hollis-tate/repliprop/internal/proptype"
	"github.com/hollis-tate/repliprop/internal/value"
	"github.com/hollis-tate/repliprop/internal/wire"
)

// Deserialize reads a peer's update from r and applies it. Non-arithmetic
// kinds (Bool, String) are applied directly and Deserialize returns
// immediately: there is no convergence or curve machinery for them to
// feed. Arithmetic kinds go through the full postprocessing pipeline:
// convergence state transition, curve update or direct last-received-value
// replacement, timestamp/frame bookkeeping, and finally either an
// immediate assignment (on Initialization), a convergence tick, or a
// direct snap, in that order of precedence.
//
// Any bit-exhaustion error aborts the whole update: Property never applies
// a partially-read value.
func (p *Property) Deserialize(r *wire.Reader, phase Phase, timestamp float64, frameID uint64, now float64) error {
	d := p.descriptor()
	if d == nil {
		return fault.New(fault.TypeMismatch, "property has no registered kind descriptor", nil)
	}
	if !d.Arithmetic {
		return p.deserializeStandard(r)
	}

	current, err := p.readArithmetic(r, phase, timestamp, d)
	if err != nil {
		return err
	}

	cfg := p.pt.Snapshot()
	if cfg.UseConvergence {
		p.SetConvergenceState(ConvergenceActive, now)
	}
	if cfg.UseInterpolation {
		p.UpdateCurve(now, timestamp, current)
	} else {
		p.lastReceivedChangeValue = current
	}
	p.lastReceivedChangeTime = timestamp
	p.lastReceivedChangeFrame = frameID

	switch {
	case phase == Initialization:
		p.set(current)
	case cfg.UseConvergence:
		p.ConvergeActiveNow(now)
	default:
		p.SnapNow(now)
	}
	return nil
}

func (p *Property) readArithmetic(r *wire.Reader, phase Phase, timestamp float64, d *kind.Descriptor) (value.Value, error) {
	cfg := p.pt.Snapshot()
	mode := cfg.SerializationMode
	if phase == Initialization {
		mode = proptype.SerializeAll
	}
	shouldQuantize := cfg.UseQuantization && !cfg.QuantizationRangeMin.IsEmpty() && !cfg.QuantizationRangeMax.IsEmpty()

	if mode == proptype.SerializeAll {
		members := make([]float64, d.PrimitiveCount)
		for i := 0; i < d.PrimitiveCount; i++ {
			v, err := p.readMember(r, i, shouldQuantize, cfg, d)
			if err != nil {
				return value.Empty(), err
			}
			members[i] = v
		}
		return value.NewArithmetic(p.pt.Kind(), members...), nil
	}

	// Changed mode seeds from the interpolated curve sample at this
	// timestamp so members whose flag reads false keep a value consistent
	// with where the curve already thinks the property is, rather than
	// silently holding the pre-update value forever.
	base := p.SampleCurve(timestamp)
	if base.IsEmpty() {
		base = p.GetValue()
	}
	if base.IsEmpty() {
		base = value.NewArithmetic(p.pt.Kind(), make([]float64, d.PrimitiveCount)...)
	}
	members := make([]float64, d.PrimitiveCount)
	for i := 0; i < d.PrimitiveCount; i++ {
		members[i] = base.Member(i)
	}
	for i := 0; i < d.PrimitiveCount; i++ {
		changed, err := r.ReadBool()
		if err != nil {
			return value.Empty(), err
		}
		if !changed {
			continue
		}
		v, err := p.readMember(r, i, shouldQuantize, cfg, d)
		if err != nil {
			return value.Empty(), err
		}
		members[i] = v
	}
	return value.NewArithmetic(p.pt.Kind(), members...), nil
}

func (p *Property) readMember(r *wire.Reader, i int, shouldQuantize bool, cfg proptype.Config, d *kind.Descriptor) (float64, error) {
	if shouldQuantize {
		return r.ReadQuantized(cfg.QuantizationRangeMin.Member(i), cfg.QuantizationRangeMax.Member(i), cfg.DeltaThreshold.Member(i))
	}
	if d.Integral {
		v, err := r.ReadInt(d.BitWidth, true)
		return float64(v), err
	}
	if cfg.UseHalfFloats {
		v, err := r.ReadHalfFloat()
		return float64(v), err
	}
	if d.BitWidth == 64 {
		return r.ReadFloat64()
	}
	v, err := r.ReadFloat32()
	return float64(v), err
}

func (p *Property) deserializeStandard(r *wire.Reader) error {
	switch p.pt.Kind() {
	case kind.Bool:
		b, err := r.ReadBool()
		if err != nil {
			return err
		}
		p.set(value.NewBool(b))
	case kind.String:
		s, err := r.ReadString()
		if err != nil {
			return err
		}
		p.set(value.NewString(s))
	default:
		return fault.New(fault.TypeMismatch, "unsupported non-arithmetic kind", nil)
	}
	return nil
}
