package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hollis-tate/repliprop/internal/harness"
	"github.com/hollis-tate/repliprop/internal/kind"
	"github.com/hollis-tate/repliprop/internal/proptype"
)

// NewValidateCommand builds the "validate" subcommand: load a scenario
// file, confirm its kind is known and its config activates cleanly,
// without running any of its steps.
func NewValidateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario.yaml>",
		Short: "validate a scenario file without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &Formatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

			s, err := harness.LoadScenario(args[0])
			if err != nil {
				f.Failure(err)
				return WrapExitError(ExitCommandError, "load scenario", err)
			}

			if err := validateScenario(s); err != nil {
				f.Failure(err)
				return WrapExitError(ExitFailure, "scenario invalid", err)
			}

			return f.Success(map[string]string{"name": s.Name}, fmt.Sprintf("%s: valid", s.Name))
		},
	}
}

func validateScenario(s *harness.Scenario) error {
	k, ok := kind.ParseName(s.Kind)
	if !ok {
		return fmt.Errorf("unknown kind %q", s.Kind)
	}
	pt := proptype.New(s.Name, k, nil)
	if err := proptype.ApplyConfig(pt, s.Config); err != nil {
		return fmt.Errorf("apply config: %w", err)
	}
	if err := pt.Activate(); err != nil {
		return fmt.Errorf("activate: %w", err)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario has no steps")
	}
	return nil
}
