package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hollis-tate/repliprop/internal/harness"
)

// NewRunCommand builds the "run" subcommand: execute a scenario file's
// full step sequence and report whether its assertions held.
func NewRunCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "run a scenario and check its assertions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &Formatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

			s, err := harness.LoadScenario(args[0])
			if err != nil {
				f.Failure(err)
				return WrapExitError(ExitCommandError, "load scenario", err)
			}

			result, err := harness.Run(s)
			if err != nil {
				f.Failure(err)
				return WrapExitError(ExitCommandError, "run scenario", err)
			}

			if err := s.Check(result); err != nil {
				f.Failure(err)
				return WrapExitError(ExitFailure, "assertions failed", err)
			}

			return f.Success(result.Trace, fmt.Sprintf("%s: ok (%d steps, run %s)", s.Name, len(result.Trace), result.RunID))
		},
	}
}
