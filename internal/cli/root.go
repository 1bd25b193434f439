// Package cli contains the cobra commands of the checkin binary.
package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/checkin/internal/wire"
)

var verbose bool

// AddGlobalFlags registers flags shared by every command.
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging on stderr")
}

// initServices wires the application with notifications going to the
// command's output.
func initServices(cmd *cobra.Command, opts wire.Options) error {
	opts.Verbose = verbose
	if opts.Out == nil {
		opts.Out = cmd.OutOrStdout()
	}
	if opts.LogOut == nil {
		opts.LogOut = cmd.ErrOrStderr()
	}
	if err := wire.Init(opts); err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	return nil
}

// readText returns the reflection from args, or from in when fromStdin is set.
func readText(args []string, fromStdin bool, in io.Reader) (string, error) {
	if fromStdin {
		if len(args) > 0 {
			return "", fmt.Errorf("pass the text as arguments or with --stdin, not both")
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("nothing to submit\nHint: checkin submit \"Today I felt...\" or pipe text with --stdin")
	}
	return strings.Join(args, " "), nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
