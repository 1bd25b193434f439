package cli

import (
	"github.com/spf13/cobra"

	cliadapter "github.com/example/checkin/internal/adapters/cli"
	"github.com/example/checkin/internal/wire"
)

// TimelineCmd returns the timeline command
func TimelineCmd() *cobra.Command {
	var (
		limit     int
		all       bool
		localOnly bool
	)

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Show recent check-ins",
		Long: `Show the locally stored check-ins immediately, newest first, then
refresh once from the analysis service and show what changed.

Examples:
  checkin timeline              # last 5 entries, then refresh
  checkin timeline --limit 10
  checkin timeline --all --local`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initServices(cmd, wire.Options{}); err != nil {
				return err
			}
			if all {
				limit = 0
			}

			adapter := wire.TimelineAdapterWithOutput(cmd.OutOrStdout())
			if localOnly {
				_, err := adapter.Show(cmd.Context(), limit)
				return err
			}
			_, err := adapter.ShowThenRefresh(cmd.Context(), limit)
			return err
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", cliadapter.DefaultLimit, "Number of entries to show")
	cmd.Flags().BoolVar(&all, "all", false, "Show every entry")
	cmd.Flags().BoolVar(&localOnly, "local", false, "Do not contact the analysis service")

	return cmd
}
