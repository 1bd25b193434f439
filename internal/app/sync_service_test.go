package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/checkin/internal/core/effects"
	"github.com/example/checkin/internal/core/entry"
	"github.com/example/checkin/internal/core/refresh"
	"github.com/example/checkin/internal/ports/secondary"
)

func storedIDs(t *testing.T, h *harness) []string {
	t.Helper()
	entries := h.store.Load(context.Background())
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func idsOf(entries []entry.Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

func TestRefreshOnce_RemoteReplacesLocal(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	offline, err := entry.NewOffline("I kept this one on my laptop overnight", h.clock.Now())
	if err != nil {
		t.Fatalf("NewOffline failed: %v", err)
	}
	h.seed([]entry.Entry{serverEntries(1)[0], offline})
	h.gateway.timeline = serverEntries(2)

	result, err := h.sync.RefreshOnce(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.Source != refresh.SourceRemote {
		t.Errorf("expected remote source, got %q", result.Source)
	}
	want := idsOf(serverEntries(2))
	if got := storedIDs(t, h); !sameIDs(got, want) {
		t.Errorf("store = %v, want %v", got, want)
	}
	if entry.CountOffline(h.store.Load(ctx)) != 0 {
		t.Error("expected offline placeholder to be dropped by a successful refresh")
	}
}

func TestRefreshOnce_Idempotent(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.seed(serverEntries(3))
	h.gateway.timeline = serverEntries(5)

	if _, err := h.sync.RefreshOnce(ctx); err != nil {
		t.Fatalf("first refresh failed: %v", err)
	}
	first := storedIDs(t, h)
	firstNotes := len(h.notifier.all())

	second, err := h.sync.RefreshOnce(ctx)
	if err != nil {
		t.Fatalf("second refresh failed: %v", err)
	}
	if got := storedIDs(t, h); !sameIDs(got, first) {
		t.Errorf("store changed between identical refreshes: %v vs %v", got, first)
	}
	if second.NewCount != 0 {
		t.Errorf("expected no new entries on second refresh, got %d", second.NewCount)
	}
	if len(h.notifier.all()) != firstNotes {
		t.Errorf("expected no extra notification, got %v", h.notifier.all())
	}
}

func TestRefreshOnce_AnnouncesNewEntries(t *testing.T) {
	h := newHarness()
	h.seed(serverEntries(3))
	h.gateway.timeline = serverEntries(5)

	result, err := h.sync.RefreshOnce(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.NewCount != 2 {
		t.Errorf("expected 2 new entries, got %d", result.NewCount)
	}
	if len(result.Entries) != 5 {
		t.Errorf("expected 5 displayed entries, got %d", len(result.Entries))
	}
	note, ok := h.notifier.last()
	if !ok {
		t.Fatal("expected a notification")
	}
	if note.Kind != effects.KindNewEntries || note.Message != "2 new entry(ies) loaded" {
		t.Errorf("unexpected notification: %+v", note)
	}
}

func TestRefreshOnce_FirstLoadIsSilent(t *testing.T) {
	h := newHarness()
	h.gateway.timeline = serverEntries(4)

	result, err := h.sync.RefreshOnce(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.NewCount != 0 {
		t.Errorf("expected no announcement from an empty store, got %d", result.NewCount)
	}
	if notes := h.notifier.all(); len(notes) != 0 {
		t.Errorf("expected no notifications, got %v", notes)
	}
	if got := len(h.store.Load(context.Background())); got != 4 {
		t.Errorf("expected 4 stored entries, got %d", got)
	}
}

func TestRefreshOnce_FetchFailure(t *testing.T) {
	timeoutErr := &secondary.GatewayError{Kind: secondary.ErrTimeout, Op: "fetch timeline"}

	tests := []struct {
		name         string
		local        int
		wantKind     effects.NotificationKind
		wantSeverity effects.Severity
		wantMessage  string
	}{
		{
			name:         "degraded with local data",
			local:        3,
			wantKind:     effects.KindDegraded,
			wantSeverity: effects.SeverityWarning,
			wantMessage:  refresh.MessageDegraded,
		},
		{
			name:         "no data at all",
			local:        0,
			wantKind:     effects.KindNoData,
			wantSeverity: effects.SeverityError,
			wantMessage:  refresh.MessageNoData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			if tt.local > 0 {
				h.seed(serverEntries(tt.local))
			}
			h.gateway.fetchErr = timeoutErr
			before := h.slots.writeCount()

			result, err := h.sync.RefreshOnce(context.Background())
			if err != nil {
				t.Fatalf("expected gateway failure to be absorbed, got %v", err)
			}

			if !errors.Is(result.FetchErr, secondary.ErrTimeout) {
				t.Errorf("expected timeout in result, got %v", result.FetchErr)
			}
			if result.Source != refresh.SourceLocal {
				t.Errorf("expected local source, got %q", result.Source)
			}
			if len(result.Entries) != tt.local {
				t.Errorf("expected %d displayed entries, got %d", tt.local, len(result.Entries))
			}
			if h.slots.writeCount() != before {
				t.Error("expected store to be left untouched on failure")
			}

			note, ok := h.notifier.last()
			if !ok {
				t.Fatal("expected a notification")
			}
			if note.Kind != tt.wantKind || note.Severity != tt.wantSeverity || note.Message != tt.wantMessage {
				t.Errorf("notification = %+v", note)
			}
		})
	}
}

func TestRefreshOnce_MalformedSlotTreatedAsEmpty(t *testing.T) {
	h := newHarness()
	h.slots.slots[DefaultSlotName] = []byte(`{"not":"a list"`)
	h.gateway.timeline = serverEntries(2)

	result, err := h.sync.RefreshOnce(context.Background())
	if err != nil {
		t.Fatalf("expected malformed data to be tolerated, got %v", err)
	}
	if result.NewCount != 0 {
		t.Errorf("expected malformed slot to count as empty, got NewCount %d", result.NewCount)
	}
	if got := len(h.store.Load(context.Background())); got != 2 {
		t.Errorf("expected store to be overwritten with 2 entries, got %d", got)
	}
}

func TestRefreshOnce_WriteFailureSurfaces(t *testing.T) {
	h := newHarness()
	h.gateway.timeline = serverEntries(1)
	h.slots.writeErr = errDiskFull

	_, err := h.sync.RefreshOnce(context.Background())
	if err == nil {
		t.Fatal("expected error when the store cannot be written")
	}
	if !errors.Is(err, errDiskFull) {
		t.Errorf("expected wrapped disk error, got %v", err)
	}
}

func TestLoadEntries_LocalOnly(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	h.slots.readErr = errDiskFull
	entries, err := h.sync.LoadEntries(ctx)
	if err != nil {
		t.Fatalf("expected read failure to be absorbed, got %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty list on read failure, got %d", len(entries))
	}
	h.slots.readErr = nil

	srv := serverEntries(3)
	h.seed([]entry.Entry{srv[2], srv[0], srv[1]})

	entries, err = h.sync.LoadEntries(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if h.gateway.fetchCalls.Load() != 0 {
		t.Error("expected LoadEntries to stay off the network")
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Timestamp.Before(entries[i-1].Timestamp) {
			t.Fatalf("entries not sorted: %v", idsOf(entries))
		}
	}
	if !entries[0].Timestamp.Equal(time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected first entry %v", entries[0])
	}
}
