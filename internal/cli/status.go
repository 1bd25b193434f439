package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/checkin/internal/adapters/cli"
	"github.com/example/checkin/internal/core/entry"
	"github.com/example/checkin/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show configuration and local store summary",
		Long: `Display the effective configuration and what is stored locally:
- Analysis service URL and store backend
- Entry counts by origin (server / offline)
- Auto-refresh settings

Never contacts the analysis service.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initServices(cmd, wire.Options{}); err != nil {
				return err
			}
			cfg := wire.Config()
			out := cmd.OutOrStdout()

			entries, err := wire.SyncService().LoadEntries(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load entries: %w", err)
			}
			offlineCount := entry.CountOffline(entries)

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "API:\t%s\n", cfg.APIBaseURL)
			fmt.Fprintf(w, "Store:\t%s (%s)\n", cfg.StoreBackend, cfg.DataDir)
			fmt.Fprintf(w, "Slot:\t%s\n", cfg.SlotName)
			fmt.Fprintf(w, "Entries:\t%d (%d server, %d offline)\n", len(entries), len(entries)-offlineCount, offlineCount)
			if len(entries) > 0 {
				latest := entry.Recent(entries, 1)[0]
				fmt.Fprintf(w, "Latest:\t%s\n", formatTime(latest.Timestamp))
			}
			fmt.Fprintf(w, "Auto-refresh:\t%t (every %s, first after %s, at most every %s)\n",
				cfg.AutoRefresh, cfg.RefreshInterval, cfg.InitialDelay, cfg.MinInterval)
			w.Flush()

			fmt.Fprintln(out)
			wire.TimelineAdapterWithOutput(out).RenderState(wire.RefreshScheduler().State(), time.Now())
			if offlineCount > 0 {
				fmt.Fprintln(out, cliadapter.Summary(entries))
			}
			return nil
		},
	}

	return cmd
}
