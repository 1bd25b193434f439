package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/checkin/internal/adapters/cli"
	"github.com/example/checkin/internal/ports/primary"
	"github.com/example/checkin/internal/wire"
)

// RefreshCmd returns the refresh command
func RefreshCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh local entries from the analysis service now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initServices(cmd, wire.Options{}); err != nil {
				return err
			}

			outcome := wire.RefreshScheduler().TriggerNow(cmd.Context())
			if outcome != primary.TickRan {
				fmt.Fprintf(cmd.OutOrStdout(), "Refresh skipped: %s\n", outcome)
				return nil
			}
			if quiet {
				return nil
			}

			_, err := wire.TimelineAdapterWithOutput(cmd.OutOrStdout()).Show(cmd.Context(), cliadapter.DefaultLimit)
			return err
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print notifications")

	return cmd
}
