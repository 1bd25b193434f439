package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/example/checkin/internal/core/entry"
	"github.com/example/checkin/internal/core/refresh"
	"github.com/example/checkin/internal/ports/primary"
)

// DefaultLimit is how many entries the timeline shows by default.
const DefaultLimit = 5

const maxTextRunes = 150

var (
	positive  = color.New(color.FgGreen).SprintFunc()
	concern   = color.New(color.FgYellow).SprintFunc()
	neutral   = color.New(color.FgBlue).SprintFunc()
	attention = color.New(color.FgRed, color.Bold).SprintFunc()
	offline   = color.New(color.FgHiYellow).SprintFunc()
	dim       = color.New(color.Faint).SprintFunc()
)

// TimelineAdapter is a thin adapter that renders SyncService results.
type TimelineAdapter struct {
	service primary.SyncService
	out     io.Writer
}

// NewTimelineAdapter creates a new TimelineAdapter with the given service.
func NewTimelineAdapter(service primary.SyncService, out io.Writer) *TimelineAdapter {
	return &TimelineAdapter{
		service: service,
		out:     out,
	}
}

// Show prints the locally stored entries without touching the network.
func (a *TimelineAdapter) Show(ctx context.Context, limit int) ([]entry.Entry, error) {
	entries, err := a.service.LoadEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}
	a.RenderEntries(entries, limit)
	return entries, nil
}

// Refresh runs one synchronization pass and prints the resulting entries.
func (a *TimelineAdapter) Refresh(ctx context.Context, limit int) (*primary.RefreshResult, error) {
	result, err := a.service.RefreshOnce(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh: %w", err)
	}
	a.RenderEntries(result.Entries, limit)
	return result, nil
}

// ShowThenRefresh prints the local entries at once, then runs one
// synchronization pass and prints the remote list again if it differs.
func (a *TimelineAdapter) ShowThenRefresh(ctx context.Context, limit int) (*primary.RefreshResult, error) {
	local, err := a.Show(ctx, limit)
	if err != nil {
		return nil, err
	}

	result, err := a.service.RefreshOnce(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh: %w", err)
	}
	if result.Source == refresh.SourceRemote && !sameEntries(local, result.Entries) {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, dim("Updated from server:"))
		a.RenderEntries(result.Entries, limit)
	}
	return result, nil
}

func sameEntries(a, b []entry.Entry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.ID != y.ID || !x.Timestamp.Equal(y.Timestamp) || x.SentimentScore != y.SentimentScore ||
			x.AnomalyFlag != y.AnomalyFlag || x.UserText != y.UserText || x.Origin != y.Origin {
			return false
		}
	}
	return true
}

// RenderEntries prints the newest limit entries, newest first, followed by a
// summary line. limit <= 0 prints everything.
func (a *TimelineAdapter) RenderEntries(entries []entry.Entry, limit int) {
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No entries yet. Start by sharing your first reflection:")
		fmt.Fprintln(a.out, `  checkin submit "Today I felt..."`)
		return
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tSENTIMENT\tFLAGS\tTEXT")
	fmt.Fprintln(w, "----\t---------\t-----\t----")

	for _, e := range entry.Recent(entries, limit) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format("Mon Jan 2 2006 15:04"),
			sentimentCell(e),
			flagsCell(e),
			truncate(e.UserText, maxTextRunes),
		)
	}
	w.Flush()

	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, Summary(entries))
}

// RenderState prints the scheduler state.
func (a *TimelineAdapter) RenderState(state primary.SyncState, now time.Time) {
	switch {
	case state.Enabled && state.IsRefreshing:
		fmt.Fprintln(a.out, concern("● Refreshing..."))
	case state.Enabled:
		fmt.Fprintln(a.out, positive("● Auto-refresh active"))
	default:
		fmt.Fprintln(a.out, dim("○ Auto-refresh disabled"))
	}

	if !state.LastRefreshAt.IsZero() {
		fmt.Fprintf(a.out, "Last updated: %s\n", state.LastRefreshAt.Local().Format(time.TimeOnly))
	}
	if !state.NextRefreshAt.IsZero() {
		wait := state.NextRefreshAt.Sub(now).Round(time.Second)
		if wait < 0 {
			wait = 0
		}
		fmt.Fprintf(a.out, "Next refresh: in %s\n", wait)
	}
}

// Summary returns the entry count line, with a warning when offline
// placeholders are present.
func Summary(entries []entry.Entry) string {
	line := fmt.Sprintf("Entries: %d", len(entries))
	if n := entry.CountOffline(entries); n > 0 {
		line += "  " + offline(fmt.Sprintf("⚠ Some offline entries (%d)", n))
	}
	return line
}

func sentimentCell(e entry.Entry) string {
	pct := fmt.Sprintf("%.0f%%", e.SentimentScore*100)
	switch entry.SentimentLabel(e.SentimentScore) {
	case "positive":
		return positive(pct)
	case "concerning":
		return concern(pct)
	default:
		return neutral(pct)
	}
}

func flagsCell(e entry.Entry) string {
	var flags []string
	if e.AnomalyFlag {
		flags = append(flags, attention("Needs Attention"))
	}
	if e.IsOffline() {
		flags = append(flags, offline("Offline"))
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, " ")
}

// truncate shortens s to n runes, appending "..." when cut.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
