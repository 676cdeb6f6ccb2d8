package proptype

import (
	"github.com/hollis-tate/repliprop/internal/fault"
	"github.com/hollis-tate/repliprop/internal/kind"
	"github.com/hollis-tate/repliprop/internal/value"
)

// ApplyConfig applies a persisted Config record to pt, converting any
// arithmetic-valued field whose own recorded kind differs from pt's kind
// (see SPEC_FULL.md §3). It is a no-op for a non-arithmetic kind: Bool and
// String properties have nothing in Config worth translating. Regardless
// of whether pt is already activated, NotifyOnConvergenceStateChange is
// always re-applied; every other field is left unchanged once activated,
// and that refusal is surfaced as a ConfigAfterActivation error so
// callers can tell a partial apply happened.
func ApplyConfig(pt *PropertyType, cfg Config) error {
	if pt.descriptor() == nil || !pt.descriptor().Arithmetic {
		pt.SetNotifyOnConvergenceStateChange(cfg.NotifyOnConvergenceStateChange)
		return nil
	}

	delta := translate(cfg.DeltaThreshold, pt.kind)
	rmin := translate(cfg.QuantizationRangeMin, pt.kind)
	rmax := translate(cfg.QuantizationRangeMax, pt.kind)
	snap := translate(cfg.SnapThreshold, pt.kind)

	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if !pt.IsValid() {
		record(pt.SetUseDeltaThreshold(cfg.UseDeltaThreshold))
		if !delta.IsEmpty() {
			record(pt.SetDeltaThreshold(delta))
		}
		record(pt.SetSerializationMode(cfg.SerializationMode))
		record(pt.SetUseHalfFloats(cfg.UseHalfFloats))
		record(pt.SetUseQuantization(cfg.UseQuantization))
		if !rmin.IsEmpty() {
			record(pt.SetQuantizationRangeMin(rmin))
		}
		if !rmax.IsEmpty() {
			record(pt.SetQuantizationRangeMax(rmax))
		}
		record(pt.SetUseInterpolation(cfg.UseInterpolation))
		record(pt.SetInterpolationCurve(cfg.InterpolationCurve))
		record(pt.SetSampleTimeOffset(cfg.SampleTimeOffset))
		record(pt.SetExtrapolationLimit(cfg.ExtrapolationLimit))
		record(pt.SetUseConvergence(cfg.UseConvergence))
		record(pt.SetActiveConvergenceWeight(cfg.ActiveConvergenceWeight))
		record(pt.SetRestingConvergenceDuration(cfg.RestingConvergenceDuration))
		record(pt.SetConvergenceInterval(cfg.ConvergenceInterval))
		if !snap.IsEmpty() {
			record(pt.SetSnapThreshold(snap))
		}
	} else {
		record(fault.New(fault.ConfigAfterActivation, "config not applied after activation", map[string]string{"name": pt.name}))
	}

	pt.SetNotifyOnConvergenceStateChange(cfg.NotifyOnConvergenceStateChange)
	return firstErr
}

// translate converts v to dstKind if v is non-empty and its kind differs,
// returning the empty Value if conversion is not possible so the caller
// can treat it as "nothing to apply" rather than an error: a config
// authored for an incompatible kind is silently skipped, matching the
// original's "unable to translate, leave unset" behavior.
func translate(v value.Value, dstKind kind.Kind) value.Value {
	if v.IsEmpty() {
		return value.Empty()
	}
	if v.Kind() == dstKind {
		return v
	}
	converted, ok := value.ConvertArithmetic(v, dstKind)
	if !ok {
		return value.Empty()
	}
	return converted
}
