package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/example/checkin/internal/core/effects"
	"github.com/example/checkin/internal/core/entry"
	"github.com/example/checkin/internal/ports/primary"
	"github.com/example/checkin/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// Ensure mocks implement their interfaces.
var (
	_ secondary.SlotStore       = (*mockSlotStore)(nil)
	_ secondary.TimelineGateway = (*mockGateway)(nil)
	_ secondary.Notifier        = (*recordingNotifier)(nil)
	_ Refresher                 = (*mockRefresher)(nil)
)

// mockSlotStore implements secondary.SlotStore in memory.
type mockSlotStore struct {
	mu       sync.Mutex
	slots    map[string][]byte
	readErr  error
	writeErr error
	writes   int
}

func newMockSlotStore() *mockSlotStore {
	return &mockSlotStore{slots: make(map[string][]byte)}
}

func (m *mockSlotStore) Read(ctx context.Context, name string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, false, m.readErr
	}
	payload, ok := m.slots[name]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), payload...), true, nil
}

func (m *mockSlotStore) Write(ctx context.Context, name string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.slots[name] = append([]byte(nil), payload...)
	m.writes++
	return nil
}

func (m *mockSlotStore) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// mockGateway implements secondary.TimelineGateway.
// When block is set, FetchTimeline signals entered and waits on block.
type mockGateway struct {
	mu         sync.Mutex
	timeline   []entry.Entry
	fetchErr   error
	receipt    *secondary.CheckinReceipt
	submitErr  error
	healthErr  error
	submitted  []string
	fetchCalls atomic.Int32

	entered chan struct{}
	block   chan struct{}
}

func newMockGateway() *mockGateway {
	return &mockGateway{}
}

func (m *mockGateway) FetchTimeline(ctx context.Context) ([]entry.Entry, error) {
	m.fetchCalls.Add(1)
	if m.block != nil {
		if m.entered != nil {
			m.entered <- struct{}{}
		}
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return append([]entry.Entry(nil), m.timeline...), nil
}

func (m *mockGateway) SubmitCheckin(ctx context.Context, userText string) (*secondary.CheckinReceipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitted = append(m.submitted, userText)
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	if m.receipt != nil {
		m.timeline = append(m.timeline, m.receipt.Entry)
	}
	return m.receipt, nil
}

func (m *mockGateway) Health(ctx context.Context) error {
	return m.healthErr
}

func (m *mockGateway) submitCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.submitted)
}

// recordingNotifier implements secondary.Notifier by recording notifications.
type recordingNotifier struct {
	mu    sync.Mutex
	notes []effects.NotifyEffect
}

func (r *recordingNotifier) Notify(ctx context.Context, n effects.NotifyEffect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recordingNotifier) all() []effects.NotifyEffect {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]effects.NotifyEffect(nil), r.notes...)
}

func (r *recordingNotifier) last() (effects.NotifyEffect, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return effects.NotifyEffect{}, false
	}
	return r.notes[len(r.notes)-1], true
}

// mockRefresher implements Refresher and records how many times it ran.
type mockRefresher struct {
	calls   int
	outcome primary.TickOutcome
	onCall  func()
}

func (m *mockRefresher) TriggerNow(ctx context.Context) primary.TickOutcome {
	m.calls++
	if m.onCall != nil {
		m.onCall()
	}
	if m.outcome == "" {
		return primary.TickRan
	}
	return m.outcome
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// ============================================================================
// Fixtures
// ============================================================================

var errDiskFull = errors.New("disk full")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serverEntries(n int) []entry.Entry {
	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	out := make([]entry.Entry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, entry.Entry{
			ID:             "srv-" + string(rune('a'+i)),
			Timestamp:      base.Add(time.Duration(i) * 24 * time.Hour),
			SentimentScore: 0.5,
			Origin:         entry.OriginServer,
		})
	}
	return out
}

// harness wires the services the way wire does, over in-memory adapters.
type harness struct {
	slots     *mockSlotStore
	gateway   *mockGateway
	notifier  *recordingNotifier
	store     *EntryStore
	executor  *DefaultEffectExecutor
	sync      *SyncServiceImpl
	scheduler *RefreshSchedulerImpl
	clock     *fakeClock
}

func newHarness() *harness {
	h := &harness{
		slots:    newMockSlotStore(),
		gateway:  newMockGateway(),
		notifier: &recordingNotifier{},
		clock:    newFakeClock(),
	}
	logger := discardLogger()
	h.store = NewEntryStore(h.slots, DefaultSlotName, logger)
	h.executor = NewEffectExecutor(h.store, h.notifier, logger)
	h.sync = NewSyncService(h.store, h.gateway, h.executor, logger)
	h.scheduler = NewRefreshScheduler(h.sync, SchedulerOptions{
		Period:       time.Hour,
		InitialDelay: time.Hour,
		MinInterval:  5 * time.Second,
		Now:          h.clock.Now,
		Logger:       logger,
	})
	return h
}

func (h *harness) seed(entries []entry.Entry) {
	payload, err := entry.EncodeSlot(entries)
	if err != nil {
		panic(err)
	}
	h.slots.slots[DefaultSlotName] = payload
}

func (h *harness) submissionService() *SubmissionServiceImpl {
	svc := NewSubmissionService(h.store, h.gateway, h.scheduler, h.executor, discardLogger())
	svc.now = h.clock.Now
	return svc
}
