package primary

import (
	"context"
	"time"

	"github.com/example/checkin/internal/core/entry"
	"github.com/example/checkin/internal/core/refresh"
)

// SyncService defines the primary port for keeping local entries in step
// with the remote timeline.
type SyncService interface {
	// LoadEntries returns the locally persisted entries ordered by timestamp.
	// It never touches the network.
	LoadEntries(ctx context.Context) ([]entry.Entry, error)

	// RefreshOnce runs one synchronization pass.
	// Gateway failures are reported in the result and through notifications,
	// never as an error.
	RefreshOnce(ctx context.Context) (*RefreshResult, error)
}

// RefreshResult describes one synchronization pass.
type RefreshResult struct {
	Entries  []entry.Entry  // what to display: remote list on success, unchanged local list on failure
	Source   refresh.Source // remote or local
	NewCount int            // count-based "new entries" figure, 0 when not announced
	FetchErr error          // gateway failure, nil on success
}

// RefreshScheduler defines the primary port for periodic and manual refreshes.
type RefreshScheduler interface {
	// Start arms the periodic timer and the delayed initial tick.
	Start(ctx context.Context)

	// Stop cancels pending timers. An in-flight pass completes.
	Stop()

	// SetEnabled starts or stops the scheduler.
	SetEnabled(ctx context.Context, enabled bool)

	// TriggerNow runs a manual pass unless one is already in flight.
	TriggerNow(ctx context.Context) TickOutcome

	// State returns a snapshot of the scheduling state.
	State() SyncState
}

// TickOutcome says what happened to a refresh trigger.
type TickOutcome string

const (
	TickRan              TickOutcome = "ran"
	TickSkippedInFlight  TickOutcome = "skipped_in_flight"
	TickSkippedThrottled TickOutcome = "skipped_throttled"
	TickSkippedDisabled  TickOutcome = "skipped_disabled" // timer fired after Stop
)

// SyncState is the process-lifetime scheduling state.
type SyncState struct {
	Enabled       bool
	IsRefreshing  bool
	LastRefreshAt time.Time // completion of the last pass, success or failure
	LastCallAt    time.Time // start of the last automatic pass
	NextRefreshAt time.Time // zero when disabled
}
