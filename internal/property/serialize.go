package property

import (
	"github.com/hollis-tate/repliprop/internal/fault"
	"github.com/hollis-tate/repliprop/internal/kind"
	"github.com/hollis-tate/repliprop/internal/proptype"
	"github.com/hollis-tate/repliprop/internal/wire"
)

// Serialize writes the property's current value to w. On Initialization
// every primitive member is written regardless of the configured
// serialization mode: a freshly joined peer has no prior value to diff
// against.
func (p *Property) Serialize(w *wire.Writer, phase Phase, timestamp float64) error {
	d := p.descriptor()
	if d == nil {
		return fault.New(fault.TypeMismatch, "property has no registered kind descriptor", nil)
	}

	if !d.Arithmetic {
		return p.serializeStandard(w)
	}

	current := p.GetValue()
	if current.IsEmpty() {
		return fault.New(fault.EmptyValue, "property has no current value to serialize", map[string]string{"name": p.name})
	}

	cfg := p.pt.Snapshot()
	mode := cfg.SerializationMode
	if phase == Initialization {
		mode = proptype.SerializeAll
	}
	shouldQuantize := cfg.UseQuantization && !cfg.QuantizationRangeMin.IsEmpty() && !cfg.QuantizationRangeMax.IsEmpty()

	for i := 0; i < d.PrimitiveCount; i++ {
		if mode == proptype.SerializeAll {
			if err := p.writeMember(w, current.Member(i), i, shouldQuantize, cfg, d); err != nil {
				return err
			}
			continue
		}
		changed := p.memberChanged(i, current, cfg.UseDeltaThreshold, cfg.DeltaThreshold)
		w.WriteBool(changed)
		if changed {
			if err := p.writeMember(w, current.Member(i), i, shouldQuantize, cfg, d); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Property) writeMember(w *wire.Writer, v float64, i int, shouldQuantize bool, cfg proptype.Config, d *kind.Descriptor) error {
	if shouldQuantize {
		return w.WriteQuantized(v, cfg.QuantizationRangeMin.Member(i), cfg.QuantizationRangeMax.Member(i), cfg.DeltaThreshold.Member(i))
	}
	if d.Integral {
		w.WriteInt(int64(v), d.BitWidth)
		return nil
	}
	if cfg.UseHalfFloats {
		w.WriteHalfFloat(float32(v))
		return nil
	}
	if d.BitWidth == 64 {
		w.WriteFloat64(v)
	} else {
		w.WriteFloat32(float32(v))
	}
	return nil
}

func (p *Property) serializeStandard(w *wire.Writer) error {
	current := p.GetValue()
	if current.IsEmpty() {
		return fault.New(fault.EmptyValue, "property has no current value to serialize", map[string]string{"name": p.name})
	}
	switch p.pt.Kind() {
	case kind.Bool:
		b, _ := current.Bool()
		w.WriteBool(b)
	case kind.String:
		s, _ := current.Str()
		w.WriteString(s)
	default:
		return fault.New(fault.TypeMismatch, "unsupported non-arithmetic kind", nil)
	}
	return nil
}
