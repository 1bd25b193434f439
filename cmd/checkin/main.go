package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/checkin/internal/cli"
	"github.com/example/checkin/internal/version"
	"github.com/example/checkin/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "checkin",
		Short:   "Daily mental-health check-ins with offline fallback",
		Version: version.String(),
		Long: `checkin submits daily reflections to the sentiment analysis service and keeps
a local copy of the timeline. Entries submitted while the service is down are
kept locally and replaced by the server's list on the next successful refresh.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cli.AddGlobalFlags(rootCmd)

	// Timeline
	rootCmd.AddCommand(cli.TimelineCmd())
	rootCmd.AddCommand(cli.RefreshCmd())
	rootCmd.AddCommand(cli.WatchCmd())
	rootCmd.AddCommand(cli.SubmitCmd())

	// Environment
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.DoctorCmd())
	rootCmd.AddCommand(cli.ConfigCmd())

	err := rootCmd.Execute()
	if cerr := wire.Close(); cerr != nil {
		fmt.Fprintln(os.Stderr, cerr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
