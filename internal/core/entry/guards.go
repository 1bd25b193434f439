package entry

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MinTextLength is the shortest reflection worth sending for analysis.
const MinTextLength = 20

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// SubmitContext provides context for submission guards.
type SubmitContext struct {
	UserText string
}

// CanSubmit evaluates whether a reflection may be sent to the remote service.
// Rules:
// - Trimmed text must be at least MinTextLength characters
func CanSubmit(ctx SubmitContext) GuardResult {
	n := utf8.RuneCountInString(strings.TrimSpace(ctx.UserText))
	if n < MinTextLength {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("Please write at least %d characters for a meaningful analysis (got %d).", MinTextLength, n),
		}
	}

	return GuardResult{Allowed: true}
}
