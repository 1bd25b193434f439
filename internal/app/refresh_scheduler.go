package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/example/checkin/internal/core/refresh"
	"github.com/example/checkin/internal/ctxutil"
	"github.com/example/checkin/internal/ports/primary"
)

// Scheduling defaults.
const (
	DefaultRefreshPeriod = 30 * time.Second
	DefaultInitialDelay  = 1 * time.Second
	DefaultMinInterval   = 5 * time.Second
)

// SchedulerOptions configures a RefreshSchedulerImpl. Zero durations take the defaults;
// a negative MinInterval disables the throttle.
type SchedulerOptions struct {
	Period       time.Duration
	InitialDelay time.Duration
	MinInterval  time.Duration
	Now          func() time.Time
	Logger       *slog.Logger
}

// RefreshSchedulerImpl drives SyncService.RefreshOnce on a timer and on demand.
// At most one pass runs at a time, and automatic passes are rate limited.
type RefreshSchedulerImpl struct {
	sync    primary.SyncService
	period  time.Duration
	delay   time.Duration
	now     func() time.Time
	logger  *slog.Logger
	limiter *rate.Limiter

	mu            sync.Mutex
	running       bool
	enabled       bool
	lastRefreshAt time.Time
	lastCallAt    time.Time
	armedAt       time.Time
	stop          chan struct{}
}

// NewRefreshScheduler creates a scheduler. It is idle until Start.
func NewRefreshScheduler(syncService primary.SyncService, opts SchedulerOptions) *RefreshSchedulerImpl {
	if opts.Period <= 0 {
		opts.Period = DefaultRefreshPeriod
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = DefaultInitialDelay
	}
	if opts.MinInterval == 0 {
		opts.MinInterval = DefaultMinInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	limit := rate.Inf
	if opts.MinInterval > 0 {
		limit = rate.Every(opts.MinInterval)
	}

	return &RefreshSchedulerImpl{
		sync:    syncService,
		period:  opts.Period,
		delay:   opts.InitialDelay,
		now:     opts.Now,
		logger:  opts.Logger.With("component", "scheduler"),
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Start arms the periodic ticker and the one-shot initial tick.
// Calling Start on a running scheduler does nothing.
func (s *RefreshSchedulerImpl) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		return
	}
	stop := make(chan struct{})
	s.stop = stop
	s.enabled = true
	s.armedAt = s.now()

	s.logger.InfoContext(ctx, "auto-refresh enabled",
		"period", s.period.String(),
		"initial_delay", s.delay.String(),
	)
	go s.loop(ctx, stop)
}

// Stop cancels pending ticks. A pass already in flight runs to completion.
func (s *RefreshSchedulerImpl) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		close(s.stop)
		s.stop = nil
		s.logger.Info("auto-refresh disabled")
	}
	s.enabled = false
}

// SetEnabled starts or stops the scheduler.
func (s *RefreshSchedulerImpl) SetEnabled(ctx context.Context, enabled bool) {
	if enabled {
		s.Start(ctx)
		return
	}
	s.Stop()
}

// TriggerNow runs a manual pass. It bypasses the throttle but not single-flight.
func (s *RefreshSchedulerImpl) TriggerNow(ctx context.Context) primary.TickOutcome {
	return s.tick(ctx, refresh.TriggerManual, nil)
}

// State returns a snapshot of the scheduling state.
func (s *RefreshSchedulerImpl) State() primary.SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := primary.SyncState{
		Enabled:       s.enabled,
		IsRefreshing:  s.running,
		LastRefreshAt: s.lastRefreshAt,
		LastCallAt:    s.lastCallAt,
	}
	if s.enabled {
		state.NextRefreshAt = s.nextTickAt(s.now())
	}
	return state
}

// nextTickAt returns the earliest pending tick after now.
func (s *RefreshSchedulerImpl) nextTickAt(now time.Time) time.Time {
	initial := s.armedAt.Add(s.delay)
	elapsed := now.Sub(s.armedAt)
	periodic := s.armedAt.Add((elapsed/s.period + 1) * s.period)
	if now.Before(initial) && initial.Before(periodic) {
		return initial
	}
	return periodic
}

func (s *RefreshSchedulerImpl) loop(ctx context.Context, stop chan struct{}) {
	initial := time.NewTimer(s.delay)
	defer initial.Stop()
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.disarm(stop)
			return
		case <-stop:
			return
		case <-initial.C:
			s.fire(ctx, stop)
		case <-ticker.C:
			s.fire(ctx, stop)
		}
	}
}

// disarm marks the scheduler idle when the loop of the current arming exits
// on its own, so a later Start can re-arm it.
func (s *RefreshSchedulerImpl) disarm(stop chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop == stop {
		s.stop = nil
		s.enabled = false
		s.logger.Info("auto-refresh stopped: context done")
	}
}

func (s *RefreshSchedulerImpl) fire(ctx context.Context, stop chan struct{}) {
	select {
	case <-stop:
		return
	default:
	}
	s.tick(ctx, refresh.TriggerAutomatic, stop)
}

// tick runs one guarded pass. For automatic triggers, stop identifies the
// arming that scheduled the tick; a tick from a stopped arming is dropped.
func (s *RefreshSchedulerImpl) tick(ctx context.Context, trigger refresh.Trigger, stop chan struct{}) primary.TickOutcome {
	s.mu.Lock()
	now := s.now()

	if trigger == refresh.TriggerAutomatic && (stop == nil || s.stop != stop) {
		s.mu.Unlock()
		return primary.TickSkippedDisabled
	}

	guard := refresh.CanStartRefresh(refresh.StartRefreshContext{
		Trigger:      trigger,
		Running:      s.running,
		ThrottleOpen: s.limiter.TokensAt(now) >= 1,
	})
	if !guard.Allowed {
		s.mu.Unlock()
		s.logger.DebugContext(ctx, "refresh skipped", "trigger", string(trigger), "reason", guard.Reason)
		if guard.Reason == refresh.ReasonInFlight {
			return primary.TickSkippedInFlight
		}
		return primary.TickSkippedThrottled
	}

	if trigger == refresh.TriggerAutomatic {
		s.limiter.AllowN(now, 1)
		s.lastCallAt = now
	}
	s.running = true
	s.mu.Unlock()

	_, err := s.sync.RefreshOnce(ctxutil.WithTrigger(ctx, string(trigger)))

	s.mu.Lock()
	s.running = false
	s.lastRefreshAt = s.now()
	s.mu.Unlock()

	if err != nil {
		s.logger.WarnContext(ctx, "refresh pass failed", "trigger", string(trigger), "error", err)
	}
	return primary.TickRan
}

// Ensure RefreshSchedulerImpl implements the interface.
var _ primary.RefreshScheduler = (*RefreshSchedulerImpl)(nil)
