package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/checkin/internal/core/entry"
	"github.com/example/checkin/internal/core/refresh"
	"github.com/example/checkin/internal/ctxutil"
	"github.com/example/checkin/internal/ports/primary"
	"github.com/example/checkin/internal/ports/secondary"
)

// SyncServiceImpl implements the SyncService interface.
type SyncServiceImpl struct {
	store    *EntryStore
	gateway  secondary.TimelineGateway
	executor EffectExecutor
	logger   *slog.Logger
}

// NewSyncService creates a new SyncService with injected dependencies.
func NewSyncService(store *EntryStore, gateway secondary.TimelineGateway, executor EffectExecutor, logger *slog.Logger) *SyncServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncServiceImpl{
		store:    store,
		gateway:  gateway,
		executor: executor,
		logger:   logger.With("component", "sync"),
	}
}

// LoadEntries returns the local entries ordered by timestamp.
func (s *SyncServiceImpl) LoadEntries(ctx context.Context) ([]entry.Entry, error) {
	return entry.SortByTimestamp(s.store.Load(ctx)), nil
}

// RefreshOnce reads the local list, fetches the remote timeline and lets the
// remote list replace the local one. On fetch failure the store is untouched.
func (s *SyncServiceImpl) RefreshOnce(ctx context.Context) (*primary.RefreshResult, error) {
	local := s.store.Load(ctx)

	s.logger.DebugContext(ctx, "refreshing timeline",
		"trigger", ctxutil.TriggerFromContext(ctx),
		"local_count", len(local),
	)

	remote, fetchErr := s.gateway.FetchTimeline(ctx)

	input := refresh.PlanInput{Local: local}
	if fetchErr != nil {
		input.FailureReason = fetchErr.Error()
	} else {
		input.FetchOK = true
		input.Remote = remote
	}

	plan := refresh.PlanRefresh(input)

	if err := s.executor.Execute(ctx, plan.Effects); err != nil {
		return nil, fmt.Errorf("failed to apply refresh: %w", err)
	}

	return &primary.RefreshResult{
		Entries:  plan.Entries,
		Source:   plan.Source,
		NewCount: plan.NewCount,
		FetchErr: fetchErr,
	}, nil
}

// Ensure SyncServiceImpl implements the interface.
var _ primary.SyncService = (*SyncServiceImpl)(nil)
