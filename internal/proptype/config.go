// Package proptype implements the Property Type: the immutable-after-
// activation configuration a family of Properties of one kind shares, and
// the persisted config record that configuration is authored as.
package proptype

import (
	"github.com/hollis-tate/repliprop/internal/kind"
	"github.com/hollis-tate/repliprop/internal/value"
)

// SerializationMode selects whether Serialize always writes every
// primitive member (All) or only the members that changed since the last
// send (Changed). Forced to All for any kind with a single primitive
// member, since a per-member changed flag would cost as much as the value
// itself.
type SerializationMode int

const (
	SerializeAll SerializationMode = iota
	SerializeChanged
)

// InterpolationCurve names the curve shape used to interpolate received
// values. Every value other than Linear is accepted by the config loader
// but coerced to Linear on load: see DESIGN.md's resolution of this open
// question.
type InterpolationCurve int

const (
	CurveLinear InterpolationCurve = iota
	CurveCatmullRom
	CurveBSpline
)

// Config is the persisted, name-tagged record shape a Property Type is
// authored from. Arithmetic-valued fields are Values of the owning kind
// so a vector kind can carry an independent threshold per component.
type Config struct {
	Kind kind.Kind `yaml:"kind"`

	UseDeltaThreshold bool        `yaml:"use_delta_threshold"`
	DeltaThreshold    value.Value `yaml:"delta_threshold"`

	SerializationMode SerializationMode `yaml:"serialization_mode"`
	UseHalfFloats     bool              `yaml:"use_half_floats"`

	UseQuantization      bool        `yaml:"use_quantization"`
	QuantizationRangeMin value.Value `yaml:"quantization_range_min"`
	QuantizationRangeMax value.Value `yaml:"quantization_range_max"`

	UseInterpolation   bool               `yaml:"use_interpolation"`
	InterpolationCurve InterpolationCurve `yaml:"interpolation_curve"`
	SampleTimeOffset   float64            `yaml:"sample_time_offset"`
	ExtrapolationLimit float64            `yaml:"extrapolation_limit"`

	UseConvergence                 bool        `yaml:"use_convergence"`
	NotifyOnConvergenceStateChange bool        `yaml:"notify_on_convergence_state_change"`
	ActiveConvergenceWeight        float64     `yaml:"active_convergence_weight"`
	RestingConvergenceDuration     float64     `yaml:"resting_convergence_duration"`
	ConvergenceInterval            int         `yaml:"convergence_interval"`
	SnapThreshold                  value.Value `yaml:"snap_threshold"`
}

// DefaultConfig returns the load-time defaults for a freshly authored
// record of the given kind, matching the original implementation's
// serialization defaults (see SPEC_FULL.md §3).
func DefaultConfig(k kind.Kind) Config {
	d := kind.Lookup(k)
	cfg := Config{
		Kind:                           k,
		SerializationMode:              SerializeAll,
		InterpolationCurve:             CurveLinear,
		SampleTimeOffset:               0.1,
		ExtrapolationLimit:             1.0,
		ActiveConvergenceWeight:        0.1,
		RestingConvergenceDuration:     0.05,
		ConvergenceInterval:            1,
		NotifyOnConvergenceStateChange: false,
	}
	if d == nil || !d.Arithmetic {
		return cfg
	}

	members := d.PrimitiveCount
	delta := make([]float64, members)
	snap := make([]float64, members)
	rmin := make([]float64, members)
	rmax := make([]float64, members)
	for i := range delta {
		delta[i] = 1
		snap[i] = 10
		rmin[i] = -1
		rmax[i] = 1
	}
	cfg.DeltaThreshold = value.NewArithmetic(k, delta...)
	cfg.SnapThreshold = value.NewArithmetic(k, snap...)
	cfg.QuantizationRangeMin = value.NewArithmetic(k, rmin...)
	cfg.QuantizationRangeMax = value.NewArithmetic(k, rmax...)
	return cfg
}
