// Package refresh contains the pure business logic for timeline refreshes.
// Guards are pure functions that evaluate preconditions without side effects.
package refresh

import "fmt"

// Trigger says who asked for a refresh.
type Trigger string

const (
	// TriggerAutomatic is a timer tick (initial delay or periodic).
	TriggerAutomatic Trigger = "automatic"
	// TriggerManual is a user "refresh now" or a post-submission refresh.
	TriggerManual Trigger = "manual"
)

// Reasons reported by CanStartRefresh when a tick is dropped.
const (
	ReasonInFlight  = "refresh already in progress"
	ReasonThrottled = "minimum interval since last automatic refresh not elapsed"
)

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

// StartRefreshContext provides context for refresh admission guards.
type StartRefreshContext struct {
	Trigger      Trigger
	Running      bool // a pass is in flight
	ThrottleOpen bool // the minimum interval has elapsed since the last automatic pass
}

// CanStartRefresh evaluates whether a refresh pass may begin.
// Rules:
// - No pass may start while another is in flight (dropped, not queued)
// - Automatic ticks must respect the minimum interval; manual triggers bypass it
func CanStartRefresh(ctx StartRefreshContext) GuardResult {
	if ctx.Running {
		return GuardResult{
			Allowed: false,
			Reason:  ReasonInFlight,
		}
	}

	if ctx.Trigger == TriggerAutomatic && !ctx.ThrottleOpen {
		return GuardResult{
			Allowed: false,
			Reason:  ReasonThrottled,
		}
	}

	return GuardResult{Allowed: true}
}
