package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/checkin/internal/ports/primary"
)

// SubmitAdapter is a thin adapter that translates CLI input to SubmissionService calls.
// User-facing outcome messages arrive through the Notifier; this adapter only
// prints what was stored.
type SubmitAdapter struct {
	service primary.SubmissionService
	out     io.Writer
}

// NewSubmitAdapter creates a new SubmitAdapter with the given service.
func NewSubmitAdapter(service primary.SubmissionService, out io.Writer) *SubmitAdapter {
	return &SubmitAdapter{
		service: service,
		out:     out,
	}
}

// Submit sends one reflection and prints the stored entry.
func (a *SubmitAdapter) Submit(ctx context.Context, text string) (*primary.SubmitResult, error) {
	result, err := a.service.Submit(ctx, primary.SubmitRequest{UserText: text})
	if err != nil {
		return nil, fmt.Errorf("failed to submit check-in: %w", err)
	}

	if result.Entry != nil {
		fmt.Fprintf(a.out, "  id:        %s\n", result.Entry.ID)
		fmt.Fprintf(a.out, "  sentiment: %s\n", sentimentCell(*result.Entry))
		if flags := flagsCell(*result.Entry); flags != "-" {
			fmt.Fprintf(a.out, "  flags:     %s\n", flags)
		}
	}
	return result, nil
}
