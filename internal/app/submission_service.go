package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/checkin/internal/core/effects"
	"github.com/example/checkin/internal/core/entry"
	"github.com/example/checkin/internal/core/submission"
	"github.com/example/checkin/internal/ctxutil"
	"github.com/example/checkin/internal/ports/primary"
	"github.com/example/checkin/internal/ports/secondary"
)

// Refresher runs a manual refresh pass, respecting single-flight.
type Refresher interface {
	TriggerNow(ctx context.Context) primary.TickOutcome
}

// SubmissionServiceImpl implements the SubmissionService interface.
type SubmissionServiceImpl struct {
	store     *EntryStore
	gateway   secondary.TimelineGateway
	refresher Refresher
	executor  EffectExecutor
	now       func() time.Time
	logger    *slog.Logger
}

// NewSubmissionService creates a new SubmissionService with injected dependencies.
func NewSubmissionService(
	store *EntryStore,
	gateway secondary.TimelineGateway,
	refresher Refresher,
	executor EffectExecutor,
	logger *slog.Logger,
) *SubmissionServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubmissionServiceImpl{
		store:     store,
		gateway:   gateway,
		refresher: refresher,
		executor:  executor,
		now:       time.Now,
		logger:    logger.With("component", "submission"),
	}
}

// Submit validates the reflection, sends it, and records either the
// authoritative entry or an offline placeholder before refreshing.
func (s *SubmissionServiceImpl) Submit(ctx context.Context, req primary.SubmitRequest) (*primary.SubmitResult, error) {
	guard := entry.CanSubmit(entry.SubmitContext{UserText: req.UserText})
	if !guard.Allowed {
		if err := s.executor.Execute(ctx, submission.PlanValidation(guard.Reason)); err != nil {
			return nil, err
		}
		return &primary.SubmitResult{
			Outcome: primary.SubmitValidationError,
			Message: guard.Reason,
		}, nil
	}

	receipt, submitErr := s.gateway.SubmitCheckin(ctx, req.UserText)
	if submitErr == nil {
		return s.recordAccepted(ctx, req, receipt)
	}
	return s.recordOffline(ctx, req, submitErr)
}

func (s *SubmissionServiceImpl) recordAccepted(ctx context.Context, req primary.SubmitRequest, receipt *secondary.CheckinReceipt) (*primary.SubmitResult, error) {
	accepted := receipt.Entry
	accepted.Origin = entry.OriginServer
	accepted.UserText = strings.TrimSpace(req.UserText)

	if err := s.store.Append(ctx, accepted); err != nil {
		return nil, fmt.Errorf("failed to store submitted entry: %w", err)
	}

	refreshOutcome := s.triggerRefresh(ctx)

	effs := submission.PlanSuccess(accepted, receipt.SupportMessage)
	if err := s.executor.Execute(ctx, effs); err != nil {
		return nil, err
	}

	return &primary.SubmitResult{
		Outcome:        primary.SubmitSuccess,
		Entry:          &accepted,
		SupportMessage: receipt.SupportMessage,
		Message:        messageOf(effs),
		ClearInput:     true,
		Refresh:        refreshOutcome,
	}, nil
}

func (s *SubmissionServiceImpl) recordOffline(ctx context.Context, req primary.SubmitRequest, submitErr error) (*primary.SubmitResult, error) {
	placeholder, err := entry.NewOffline(req.UserText, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.store.Append(ctx, placeholder); err != nil {
		return nil, fmt.Errorf("failed to store offline entry: %w", err)
	}

	refreshOutcome := s.triggerRefresh(ctx)

	effs := submission.PlanFailure(placeholder, classifySubmitFailure(submitErr))
	if err := s.executor.Execute(ctx, effs); err != nil {
		return nil, err
	}

	return &primary.SubmitResult{
		Outcome:    primary.SubmitDegraded,
		Entry:      &placeholder,
		Message:    messageOf(effs),
		ClearInput: true,
		Refresh:    refreshOutcome,
		SubmitErr:  submitErr,
	}, nil
}

// triggerRefresh runs only after the local append has returned, so the
// refreshed view always includes at least the local copy.
func (s *SubmissionServiceImpl) triggerRefresh(ctx context.Context) primary.TickOutcome {
	if s.refresher == nil {
		return ""
	}
	outcome := s.refresher.TriggerNow(ctxutil.WithTrigger(ctx, "submission"))
	s.logger.DebugContext(ctx, "post-submission refresh", "outcome", string(outcome))
	return outcome
}

func classifySubmitFailure(err error) submission.FailureInput {
	var gwErr *secondary.GatewayError
	switch {
	case errors.Is(err, secondary.ErrTimeout):
		return submission.FailureInput{Kind: submission.FailureTimeout}
	case errors.Is(err, secondary.ErrServer) && errors.As(err, &gwErr) && gwErr.StatusCode != 0:
		return submission.FailureInput{
			Kind:       submission.FailureServer,
			StatusCode: gwErr.StatusCode,
			Detail:     gwErr.Detail,
		}
	case errors.Is(err, secondary.ErrNetwork):
		return submission.FailureInput{Kind: submission.FailureNetwork}
	default:
		return submission.FailureInput{Kind: submission.FailureOther}
	}
}

func messageOf(effs []effects.Effect) string {
	for _, e := range effs {
		if n, ok := e.(effects.NotifyEffect); ok {
			return n.Message
		}
	}
	return ""
}

// Ensure SubmissionServiceImpl implements the interface.
var _ primary.SubmissionService = (*SubmissionServiceImpl)(nil)
