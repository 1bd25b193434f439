package refresh

import (
	"fmt"

	"github.com/example/checkin/internal/core/effects"
	"github.com/example/checkin/internal/core/entry"
)

// Source says where the entries returned by a refresh came from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// User-facing messages for refresh outcomes.
const (
	MessageNoData   = "Failed to load data. Please check your connection."
	MessageDegraded = "Using offline data. Connection to server failed."
)

// PlanInput contains pre-fetched data for refresh planning.
// All values must be gathered by the caller - no I/O in the planner.
type PlanInput struct {
	Local []entry.Entry // store contents read before the fetch

	FetchOK       bool
	Remote        []entry.Entry // valid only when FetchOK
	FailureReason string        // gateway error text when !FetchOK
}

// Plan describes the outcome of one refresh pass.
type Plan struct {
	Entries  []entry.Entry // what the caller should display
	Source   Source
	NewCount int
	Effects  []effects.Effect
}

// PlanRefresh decides what a refresh pass writes and announces.
//
// On success the remote list replaces the local one outright. "New entries"
// is the count difference, reported only when the store was non-empty before
// and grew; removals or replacements on the remote side are not detected.
// On failure the store is left alone and the severity depends on whether any
// local data can be shown.
func PlanRefresh(in PlanInput) Plan {
	localCount := len(in.Local)

	if !in.FetchOK {
		plan := Plan{
			Entries: in.Local,
			Source:  SourceLocal,
		}
		logEff := effects.LogEffect{
			Level:   "warn",
			Message: "timeline fetch failed",
			Fields:  map[string]any{"error": in.FailureReason, "local_count": localCount},
		}
		if localCount == 0 {
			plan.Effects = []effects.Effect{logEff, effects.NotifyEffect{
				Kind:     effects.KindNoData,
				Severity: effects.SeverityError,
				Message:  MessageNoData,
			}}
			return plan
		}
		plan.Effects = []effects.Effect{logEff, effects.NotifyEffect{
			Kind:     effects.KindDegraded,
			Severity: effects.SeverityWarning,
			Message:  MessageDegraded,
		}}
		return plan
	}

	remote := entry.MarkServer(in.Remote)
	plan := Plan{
		Entries: remote,
		Source:  SourceRemote,
		Effects: []effects.Effect{
			effects.PersistEntriesEffect{Entries: remote},
			effects.LogEffect{
				Level:   "debug",
				Message: "timeline refreshed",
				Fields:  map[string]any{"local_count": localCount, "remote_count": len(remote)},
			},
		},
	}

	if localCount > 0 && len(remote) > localCount {
		plan.NewCount = len(remote) - localCount
		plan.Effects = append(plan.Effects, effects.NotifyEffect{
			Kind:     effects.KindNewEntries,
			Severity: effects.SeveritySuccess,
			Message:  fmt.Sprintf("%d new entry(ies) loaded", plan.NewCount),
			Count:    plan.NewCount,
		})
	}

	return plan
}
