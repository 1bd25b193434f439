package primary

import (
	"context"

	"github.com/example/checkin/internal/core/entry"
)

// SubmissionService defines the primary port for user-initiated check-ins.
type SubmissionService interface {
	// Submit sends a reflection, falling back to an offline placeholder when
	// the remote service cannot be reached. An error is returned only when
	// the local store could not be updated.
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error)
}

// SubmitRequest contains parameters for a check-in.
type SubmitRequest struct {
	UserText string
}

// SubmitOutcome classifies a submission.
type SubmitOutcome string

const (
	SubmitSuccess         SubmitOutcome = "success"
	SubmitDegraded        SubmitOutcome = "degraded"
	SubmitValidationError SubmitOutcome = "validation_error"
)

// SubmitResult contains the result of a check-in.
type SubmitResult struct {
	Outcome        SubmitOutcome
	Entry          *entry.Entry // appended entry; nil on validation error
	SupportMessage string       // from the service, success only
	Message        string       // user-facing summary
	ClearInput     bool         // the caller should discard the typed text
	Refresh        TickOutcome  // what happened to the follow-up refresh
	SubmitErr      error        // gateway failure on the degraded path
}
