package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/checkin/internal/config"
	"github.com/example/checkin/internal/ports/secondary"
	"github.com/example/checkin/internal/version"
	"github.com/example/checkin/internal/wire"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate configuration, local store and analysis service",
		Long: `Health check for the check-in client.

Validates:
- Configuration (config.json, .env, CHECKIN_* variables)
- Local store (readable slot)
- Analysis service (GET /health)

Examples:
  checkin doctor              # Run full health check
  checkin doctor --quiet      # Exit code only (0=healthy, 1=issues)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfgResult := checkConfig()
			results := []CheckResult{cfgResult}
			if cfgResult.Status != "✗" {
				if err := initServices(cmd, wire.Options{}); err != nil {
					results = append(results, CheckResult{Name: "Services", Status: "✗", Details: "  " + err.Error()})
				} else {
					cfg := wire.Config()
					results = append(results,
						checkStore(cmd.Context(), wire.SlotStore(), cfg.SlotName),
						checkRemote(cmd.Context(), wire.Gateway(), cfg.APIBaseURL),
					)
				}
			}

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Check              Status")
				fmt.Fprintln(out, "─────────────────────────")
				for _, r := range results {
					fmt.Fprintf(out, "%-18s %s\n", r.Name, r.Status)
				}
				fmt.Fprintln(out)

				hasDetails := false
				for _, r := range results {
					if r.Status != "✓" && r.Details != "" {
						if !hasDetails {
							fmt.Fprintln(out, "Details:")
							hasDetails = true
						}
						fmt.Fprintf(out, "\n%s:\n%s\n", r.Name, r.Details)
					}
				}

				if hasErrors {
					fmt.Fprintln(out, "\n⚠ Issues found. Entries submitted now will be kept offline.")
				} else {
					fmt.Fprintln(out, "All checks passed.")
				}
				fmt.Fprintln(out, version.String())
			}

			if hasErrors {
				return fmt.Errorf("environment validation failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")

	return cmd
}

// checkConfig validates the effective configuration
func checkConfig() CheckResult {
	if _, err := config.LoadDotEnv(); err != nil {
		return CheckResult{Name: "Config", Status: "✗", Details: "  " + err.Error()}
	}
	if _, err := config.Load(); err != nil {
		return CheckResult{Name: "Config", Status: "✗", Details: "  " + err.Error()}
	}
	return CheckResult{Name: "Config", Status: "✓"}
}

// checkStore reads the entry slot
func checkStore(ctx context.Context, slots secondary.SlotStore, slot string) CheckResult {
	if _, _, err := slots.Read(ctx, slot); err != nil {
		return CheckResult{Name: "Local store", Status: "✗", Details: "  " + err.Error()}
	}
	return CheckResult{Name: "Local store", Status: "✓"}
}

// checkRemote calls the service health endpoint
func checkRemote(ctx context.Context, gateway secondary.TimelineGateway, baseURL string) CheckResult {
	start := time.Now()
	if err := gateway.Health(ctx); err != nil {
		return CheckResult{
			Name:    "Analysis service",
			Status:  "✗",
			Details: fmt.Sprintf("  %s unreachable: %v", baseURL, err),
		}
	}
	return CheckResult{
		Name:    "Analysis service",
		Status:  "✓",
		Details: fmt.Sprintf("  responded in %s", time.Since(start).Round(time.Millisecond)),
	}
}
