package proptype

import (
	"log/slog"
	"sync"

	"github.com/hollis-tate/repliprop/internal/fault"
	"github.com/hollis-tate/repliprop/internal/kind"
	"github.com/hollis-tate/repliprop/internal/value"
)

// PropertyType is the immutable-after-activation configuration shared by
// every Property of one name and kind. Every setter below refuses to
// apply once Activate has been called, except SetNotifyOnConvergenceStateChange,
// the one field the original engine always re-applies regardless of
// validity state.
type PropertyType struct {
	mu sync.Mutex

	name string
	kind kind.Kind
	cfg  Config

	activated bool
	log       *slog.Logger
}

// New constructs a PropertyType for the given name and kind, seeded with
// DefaultConfig(k).
func New(name string, k kind.Kind, log *slog.Logger) *PropertyType {
	if log == nil {
		log = slog.Default()
	}
	return &PropertyType{name: name, kind: k, cfg: DefaultConfig(k), log: log}
}

// Name returns the property type's name.
func (pt *PropertyType) Name() string { return pt.name }

// Kind returns the property type's kind.
func (pt *PropertyType) Kind() kind.Kind { return pt.kind }

// IsValid reports whether Activate has been called.
func (pt *PropertyType) IsValid() bool {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.activated
}

// Activate freezes the configuration. Calling Activate twice is a
// programming contract violation reported via ConfigAfterActivation.
func (pt *PropertyType) Activate() error {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if pt.activated {
		return fault.New(fault.ConfigAfterActivation, "property type already activated", map[string]string{"name": pt.name})
	}
	pt.activated = true
	pt.log.Info("property type activated", "name", pt.name, "kind", pt.kind.String())
	return nil
}

// Snapshot returns a copy of the current configuration.
func (pt *PropertyType) Snapshot() Config {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.cfg
}

func (pt *PropertyType) refuseIfActivated(field string) error {
	if pt.activated {
		pt.log.Warn("config write refused after activation", "name", pt.name, "field", field)
		return fault.New(fault.ConfigAfterActivation, "cannot modify "+field+" after activation", map[string]string{"name": pt.name, "field": field})
	}
	return nil
}

func (pt *PropertyType) descriptor() *kind.Descriptor { return kind.Lookup(pt.kind) }

// SetUseDeltaThreshold enables or disables delta-threshold-aware change
// detection. Disabling it also disables quantization, which requires a
// delta threshold to define a Changed-mode codeword.
func (pt *PropertyType) SetUseDeltaThreshold(use bool) error {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if err := pt.refuseIfActivated("use_delta_threshold"); err != nil {
		return err
	}
	pt.cfg.UseDeltaThreshold = use
	if !use {
		pt.cfg.UseQuantization = false
	}
	return nil
}

// SetDeltaThreshold sets the per-member hysteresis threshold, normalizing
// each member to a strictly positive magnitude.
func (pt *PropertyType) SetDeltaThreshold(v value.Value) error {
	return pt.setArithmeticCorrected("delta_threshold", v, &pt.cfg.DeltaThreshold)
}

// SetSnapThreshold sets the per-member convergence snap threshold,
// likewise normalized to a strictly positive magnitude.
func (pt *PropertyType) SetSnapThreshold(v value.Value) error {
	return pt.setArithmeticCorrected("snap_threshold", v, &pt.cfg.SnapThreshold)
}

func (pt *PropertyType) setArithmeticCorrected(field string, v value.Value, dst *value.Value) error {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if err := pt.refuseIfActivated(field); err != nil {
		return err
	}
	d := pt.descriptor()
	if d == nil || !d.Arithmetic || v.Kind() != pt.kind {
		return fault.New(fault.TypeMismatch, "value kind does not match property type kind", map[string]string{"field": field})
	}
	n := d.PrimitiveCount
	members := make([]float64, n)
	for i := 0; i < n; i++ {
		members[i] = value.NonZeroAbs(v.Member(i), d.Integral)
	}
	*dst = value.NewArithmetic(pt.kind, members...)
	return nil
}

// SetSerializationMode sets All or Changed, forced to All if the kind has
// at most one primitive member.
func (pt *PropertyType) SetSerializationMode(mode SerializationMode) error {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if err := pt.refuseIfActivated("serialization_mode"); err != nil {
		return err
	}
	d := pt.descriptor()
	if d != nil && d.PrimitiveCount <= 1 {
		pt.cfg.SerializationMode = SerializeAll
		return nil
	}
	pt.cfg.SerializationMode = mode
	return nil
}

// SetUseHalfFloats enables or disables half-float wire encoding, mutually
// exclusive with quantization.
func (pt *PropertyType) SetUseHalfFloats(use bool) error {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if err := pt.refuseIfActivated("use_half_floats"); err != nil {
		return err
	}
	pt.cfg.UseHalfFloats = use
	if use {
		pt.cfg.UseQuantization = false
	}
	return nil
}

// SetUseQuantization enables or disables quantized wire encoding, which
// requires a delta threshold and is mutually exclusive with half floats.
func (pt *PropertyType) SetUseQuantization(use bool) error {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if err := pt.refuseIfActivated("use_quantization"); err != nil {
		return err
	}
	pt.cfg.UseQuantization = use
	if use {
		pt.cfg.UseDeltaThreshold = true
		pt.cfg.UseHalfFloats = false
	}
	return nil
}

// SetQuantizationRangeMin sets the lower quantization bound, raising the
// upper bound component-wise wherever it would otherwise fall below the
// new lower bound.
func (pt *PropertyType) SetQuantizationRangeMin(v value.Value) error {
	return pt.setRangeBound("quantization_range_min", v, &pt.cfg.QuantizationRangeMin, &pt.cfg.QuantizationRangeMax, true)
}

// SetQuantizationRangeMax sets the upper quantization bound, lowering the
// lower bound component-wise wherever it would otherwise exceed the new
// upper bound.
func (pt *PropertyType) SetQuantizationRangeMax(v value.Value) error {
	return pt.setRangeBound("quantization_range_max", v, &pt.cfg.QuantizationRangeMax, &pt.cfg.QuantizationRangeMin, false)
}

func (pt *PropertyType) setRangeBound(field string, v value.Value, dst, other *value.Value, isMin bool) error {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if err := pt.refuseIfActivated(field); err != nil {
		return err
	}
	d := pt.descriptor()
	if d == nil || !d.Arithmetic || v.Kind() != pt.kind {
		return fault.New(fault.TypeMismatch, "value kind does not match property type kind", map[string]string{"field": field})
	}
	*dst = v
	n := d.PrimitiveCount
	otherMembers := make([]float64, n)
	changed := false
	for i := 0; i < n; i++ {
		o := other.Member(i)
		nv := v.Member(i)
		if isMin && nv > o {
			o = nv
			changed = true
		} else if !isMin && nv < o {
			o = nv
			changed = true
		}
		otherMembers[i] = o
	}
	if changed {
		*other = value.NewArithmetic(pt.kind, otherMembers...)
	}
	return nil
}

// SetUseInterpolation enables or disables curve-based interpolation of
// received values.
func (pt *PropertyType) SetUseInterpolation(use bool) error {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if err := pt.refuseIfActivated("use_interpolation"); err != nil {
		return err
	}
	pt.cfg.UseInterpolation = use
	return nil
}

// SetInterpolationCurve records the requested curve shape. The value is
// accepted but coerced to Linear: see DESIGN.md.
func (pt *PropertyType) SetInterpolationCurve(c InterpolationCurve) error {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if err := pt.refuseIfActivated("interpolation_curve"); err != nil {
		return err
	}
	pt.cfg.InterpolationCurve = CurveLinear
	return nil
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// SetSampleTimeOffset clamps to [-1, 1] seconds.
func (pt *PropertyType) SetSampleTimeOffset(seconds float64) error {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if err := pt.refuseIfActivated("sample_time_offset"); err != nil {
		return err
	}
	pt.cfg.SampleTimeOffset = clamp(seconds, -1, 1)
	return nil
}

// SetExtrapolationLimit clamps to [0, 1] seconds.
func (pt *PropertyType) SetExtrapolationLimit(seconds float64) error {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if err := pt.refuseIfActivated("extrapolation_limit"); err != nil {
		return err
	}
	pt.cfg.ExtrapolationLimit = clamp(seconds, 0, 1)
	return nil
}

// SetUseConvergence enables or disables convergence-based smoothing.
func (pt *PropertyType) SetUseConvergence(use bool) error {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if err := pt.refuseIfActivated("use_convergence"); err != nil {
		return err
	}
	pt.cfg.UseConvergence = use
	return nil
}

// SetActiveConvergenceWeight clamps to [0, 1].
func (pt *PropertyType) SetActiveConvergenceWeight(weight float64) error {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if err := pt.refuseIfActivated("active_convergence_weight"); err != nil {
		return err
	}
	pt.cfg.ActiveConvergenceWeight = clamp(weight, 0, 1)
	return nil
}

// SetRestingConvergenceDuration clamps to [0, 1] seconds.
func (pt *PropertyType) SetRestingConvergenceDuration(seconds float64) error {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if err := pt.refuseIfActivated("resting_convergence_duration"); err != nil {
		return err
	}
	pt.cfg.RestingConvergenceDuration = clamp(seconds, 0, 1)
	return nil
}

// SetConvergenceInterval clamps to [1, 100].
func (pt *PropertyType) SetConvergenceInterval(interval int) error {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if err := pt.refuseIfActivated("convergence_interval"); err != nil {
		return err
	}
	if interval < 1 {
		interval = 1
	}
	if interval > 100 {
		interval = 100
	}
	pt.cfg.ConvergenceInterval = interval
	return nil
}

// SetNotifyOnConvergenceStateChange is the sole field writable both before
// and after activation, matching the original's unconditional re-apply of
// this one runtime option whenever a persisted config is applied.
func (pt *PropertyType) SetNotifyOnConvergenceStateChange(notify bool) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.cfg.NotifyOnConvergenceStateChange = notify
}
