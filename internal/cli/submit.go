package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/checkin/internal/ports/primary"
	"github.com/example/checkin/internal/wire"
)

// SubmitCmd returns the submit command
func SubmitCmd() *cobra.Command {
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "submit [text...]",
		Short: "Submit a daily reflection for analysis",
		Long: `Submit a reflection (at least 20 characters) to the analysis service.

When the service cannot be reached the entry is kept locally with a neutral
score and marked Offline; it stays visible until the next successful refresh.

Examples:
  checkin submit "Slept well and the morning walk helped a lot."
  echo "Long day, but I finished the report." | checkin submit --stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(args, fromStdin, cmd.InOrStdin())
			if err != nil {
				return err
			}

			if err := initServices(cmd, wire.Options{}); err != nil {
				return err
			}

			result, err := wire.SubmitAdapterWithOutput(cmd.OutOrStdout()).Submit(cmd.Context(), text)
			if err != nil {
				return err
			}
			if result.Outcome == primary.SubmitValidationError {
				return fmt.Errorf("check-in not submitted")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read the reflection from stdin")

	return cmd
}
