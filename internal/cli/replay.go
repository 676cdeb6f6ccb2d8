package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hollis-tate/repliprop/internal/store"
)

// NewReplayCommand builds the "replay" subcommand: list every update
// persisted to a store database, optionally filtered to one property.
func NewReplayCommand(opts *RootOptions) *cobra.Command {
	var propertyName string

	cmd := &cobra.Command{
		Use:   "replay <db-path>",
		Short: "list persisted updates from a store database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &Formatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

			s, err := store.Open(args[0])
			if err != nil {
				f.Failure(err)
				return WrapExitError(ExitCommandError, "open store", err)
			}
			defer s.Close()

			ctx := context.Background()
			var recs []store.Record
			if propertyName != "" {
				recs, err = s.ReplayProperty(ctx, propertyName)
			} else {
				recs, err = s.ReplayAll(ctx)
			}
			if err != nil {
				f.Failure(err)
				return WrapExitError(ExitCommandError, "replay", err)
			}

			return f.Success(recs, fmt.Sprintf("%d update(s)", len(recs)))
		},
	}

	cmd.Flags().StringVar(&propertyName, "property", "", "limit output to one property's updates")
	return cmd
}
