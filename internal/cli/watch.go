package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/checkin/internal/adapters/cli"
	"github.com/example/checkin/internal/wire"
)

// WatchCmd returns the watch command
func WatchCmd() *cobra.Command {
	var (
		interval     time.Duration
		initialDelay time.Duration
		minInterval  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep local entries refreshed until interrupted",
		Long: `Show the local entries, then refresh them periodically from the analysis
service. Refreshes never overlap, and automatic refreshes are rate limited.
Stop with Ctrl-C.

Examples:
  checkin watch
  checkin watch --interval 1m --min-interval 10s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := initServices(cmd, wire.Options{
				RefreshInterval: interval,
				InitialDelay:    initialDelay,
				MinInterval:     minInterval,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			adapter := wire.TimelineAdapterWithOutput(cmd.OutOrStdout())
			if _, err := adapter.Show(ctx, cliadapter.DefaultLimit); err != nil {
				return err
			}

			if !wire.Config().AutoRefresh {
				fmt.Fprintln(cmd.OutOrStdout(), "auto_refresh is off in config.json; enabled for this session")
			}
			scheduler := wire.RefreshScheduler()
			scheduler.SetEnabled(ctx, true)
			adapter.RenderState(scheduler.State(), time.Now())

			<-ctx.Done()
			scheduler.SetEnabled(context.Background(), false)

			adapter.RenderState(scheduler.State(), time.Now())
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "Refresh period (default from config, 30s)")
	cmd.Flags().DurationVar(&initialDelay, "initial-delay", 0, "Delay before the first refresh (default from config, 1s)")
	cmd.Flags().DurationVar(&minInterval, "min-interval", 0, "Minimum time between automatic refreshes (default from config, 5s)")

	return cmd
}
