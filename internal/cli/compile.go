package cli

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hollis-tate/repliprop/internal/kind"
	"github.com/hollis-tate/repliprop/internal/proptype"
	"github.com/hollis-tate/repliprop/internal/value"
)

// NewCompileCommand builds the "compile" subcommand: evaluate a CUE source
// file into a proptype.Config, failing on any CUE constraint violation
// (out-of-range bounds, wrong field type, missing required field) before a
// single byte of YAML is written. This is the schema-checked authoring path
// alongside the plain YAML config scenarios already load directly; both
// converge on the same Config struct once this command has run.
func NewCompileCommand(opts *RootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "compile <config.cue>",
		Short: "compile a CUE-constrained property type config to YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &Formatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

			src, err := os.ReadFile(args[0])
			if err != nil {
				f.Failure(err)
				return WrapExitError(ExitCommandError, "read source", err)
			}

			cfg, err := compileConfig(src)
			if err != nil {
				f.Failure(err)
				return WrapExitError(ExitFailure, "compile config", err)
			}

			out, err := yaml.Marshal(cfg)
			if err != nil {
				f.Failure(err)
				return WrapExitError(ExitFailure, "marshal config", err)
			}

			if outPath == "" {
				_, werr := cmd.OutOrStdout().Write(out)
				return werr
			}
			if err := os.WriteFile(outPath, out, 0o644); err != nil {
				f.Failure(err)
				return WrapExitError(ExitCommandError, "write output", err)
			}
			return f.Success(map[string]string{"path": outPath}, fmt.Sprintf("wrote %s", outPath))
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "write the compiled YAML config here instead of stdout")
	return cmd
}

// cueConfig is the flat, plain-field shape a CUE source decodes into. It
// exists because proptype.Config's arithmetic fields are value.Value, an
// opaque tagged union with unexported fields that a generic struct decoder
// cannot populate; a CUE schema instead constrains plain numeric fields and
// this shadow is assembled into real Values afterward, the same split
// value.Value's own YAML shadow uses for the same reason.
type cueConfig struct {
	Kind string `json:"kind"`

	UseDeltaThreshold    bool      `json:"use_delta_threshold"`
	DeltaThreshold       []float64 `json:"delta_threshold"`
	SerializationMode    int       `json:"serialization_mode"`
	UseHalfFloats        bool      `json:"use_half_floats"`
	UseQuantization      bool      `json:"use_quantization"`
	QuantizationRangeMin []float64 `json:"quantization_range_min"`
	QuantizationRangeMax []float64 `json:"quantization_range_max"`

	UseInterpolation   bool    `json:"use_interpolation"`
	InterpolationCurve int     `json:"interpolation_curve"`
	SampleTimeOffset   float64 `json:"sample_time_offset"`
	ExtrapolationLimit float64 `json:"extrapolation_limit"`

	UseConvergence                 bool      `json:"use_convergence"`
	NotifyOnConvergenceStateChange bool      `json:"notify_on_convergence_state_change"`
	ActiveConvergenceWeight        float64   `json:"active_convergence_weight"`
	RestingConvergenceDuration     float64   `json:"resting_convergence_duration"`
	ConvergenceInterval            int       `json:"convergence_interval"`
	SnapThreshold                  []float64 `json:"snap_threshold"`
}

// compileConfig evaluates src as a CUE value, decodes it into the flat
// cueConfig shadow, and assembles a proptype.Config from it. Any CUE-level
// constraint violation (value out of a bounded range, wrong type, missing
// field) surfaces as an error here rather than producing a partially
// populated config.
func compileConfig(src []byte) (proptype.Config, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src)
	if err := v.Err(); err != nil {
		return proptype.Config{}, fmt.Errorf("evaluate cue source: %w", err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return proptype.Config{}, fmt.Errorf("validate cue value: %w", err)
	}

	var shadow cueConfig
	if err := v.Decode(&shadow); err != nil {
		return proptype.Config{}, fmt.Errorf("decode cue value: %w", err)
	}

	k, ok := kind.ParseName(shadow.Kind)
	if !ok {
		return proptype.Config{}, fmt.Errorf("compile config: unknown kind %q", shadow.Kind)
	}

	cfg := proptype.Config{
		Kind:                           k,
		UseDeltaThreshold:              shadow.UseDeltaThreshold,
		SerializationMode:              proptype.SerializationMode(shadow.SerializationMode),
		UseHalfFloats:                  shadow.UseHalfFloats,
		UseQuantization:                shadow.UseQuantization,
		UseInterpolation:               shadow.UseInterpolation,
		InterpolationCurve:             proptype.InterpolationCurve(shadow.InterpolationCurve),
		SampleTimeOffset:               shadow.SampleTimeOffset,
		ExtrapolationLimit:             shadow.ExtrapolationLimit,
		UseConvergence:                 shadow.UseConvergence,
		NotifyOnConvergenceStateChange: shadow.NotifyOnConvergenceStateChange,
		ActiveConvergenceWeight:        shadow.ActiveConvergenceWeight,
		RestingConvergenceDuration:     shadow.RestingConvergenceDuration,
		ConvergenceInterval:            shadow.ConvergenceInterval,
	}
	if len(shadow.DeltaThreshold) > 0 {
		cfg.DeltaThreshold = value.NewArithmetic(k, shadow.DeltaThreshold...)
	}
	if len(shadow.QuantizationRangeMin) > 0 {
		cfg.QuantizationRangeMin = value.NewArithmetic(k, shadow.QuantizationRangeMin...)
	}
	if len(shadow.QuantizationRangeMax) > 0 {
		cfg.QuantizationRangeMax = value.NewArithmetic(k, shadow.QuantizationRangeMax...)
	}
	if len(shadow.SnapThreshold) > 0 {
		cfg.SnapThreshold = value.NewArithmetic(k, shadow.SnapThreshold...)
	}
	return cfg, nil
}
