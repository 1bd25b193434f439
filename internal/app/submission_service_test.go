package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/example/checkin/internal/core/effects"
	"github.com/example/checkin/internal/core/entry"
	"github.com/example/checkin/internal/core/submission"
	"github.com/example/checkin/internal/ports/primary"
	"github.com/example/checkin/internal/ports/secondary"
)

const reflection = "Slept well and the morning walk helped a lot."

func acceptedReceipt() *secondary.CheckinReceipt {
	return &secondary.CheckinReceipt{
		Entry: entry.Entry{
			ID:             "srv-new",
			Timestamp:      time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
			SentimentScore: 0.82,
			UserText:       reflection,
		},
		SupportMessage: "Keep it up!",
	}
}

func TestSubmit_ValidationRejectsShortText(t *testing.T) {
	h := newHarness()
	refresher := &mockRefresher{}
	svc := NewSubmissionService(h.store, h.gateway, refresher, h.executor, discardLogger())

	result, err := svc.Submit(context.Background(), primary.SubmitRequest{UserText: strings.Repeat("a", 19)})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.Outcome != primary.SubmitValidationError {
		t.Errorf("expected validation outcome, got %q", result.Outcome)
	}
	if result.ClearInput {
		t.Error("expected input to be kept on validation failure")
	}
	if result.Entry != nil {
		t.Error("expected no entry on validation failure")
	}
	if h.gateway.submitCount() != 0 {
		t.Error("expected no gateway call")
	}
	if h.slots.writeCount() != 0 {
		t.Error("expected no store write")
	}
	if refresher.calls != 0 {
		t.Error("expected no refresh")
	}
	note, ok := h.notifier.last()
	if !ok || note.Kind != effects.KindValidation || note.Severity != effects.SeverityError {
		t.Errorf("unexpected notification: %+v", note)
	}
}

func TestSubmit_Success(t *testing.T) {
	h := newHarness()
	h.gateway.receipt = acceptedReceipt()
	svc := h.submissionService()
	ctx := context.Background()

	typed := "  " + reflection + "\n"
	result, err := svc.Submit(ctx, primary.SubmitRequest{UserText: typed})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.Outcome != primary.SubmitSuccess {
		t.Fatalf("expected success, got %q", result.Outcome)
	}
	if !result.ClearInput {
		t.Error("expected input to be cleared")
	}
	if result.Refresh != primary.TickRan {
		t.Errorf("expected follow-up refresh to run, got %q", result.Refresh)
	}
	if result.SupportMessage != "Keep it up!" {
		t.Errorf("unexpected support message %q", result.SupportMessage)
	}
	if h.gateway.submitted[0] != typed {
		t.Errorf("expected text to be sent as typed, got %q", h.gateway.submitted[0])
	}

	stored := h.store.Load(ctx)
	if len(stored) != 1 || stored[0].ID != "srv-new" || stored[0].Origin != entry.OriginServer {
		t.Fatalf("unexpected store contents: %+v", stored)
	}

	note, ok := h.notifier.last()
	if !ok {
		t.Fatal("expected a notification")
	}
	if note.Kind != effects.KindSubmitted {
		t.Errorf("expected submitted notification last, got %+v", note)
	}
	if !strings.Contains(note.Message, "positive (82%)") || !strings.Contains(note.Message, "Keep it up!") {
		t.Errorf("unexpected message %q", note.Message)
	}
}

func TestSubmit_OfflineFallbackIsDurable(t *testing.T) {
	tests := []struct {
		name        string
		submitErr   error
		wantKind    error
		wantMessage string
	}{
		{
			name:        "network error",
			submitErr:   &secondary.GatewayError{Kind: secondary.ErrNetwork, Op: "submit checkin"},
			wantKind:    secondary.ErrNetwork,
			wantMessage: submission.FailureMessage(submission.FailureInput{Kind: submission.FailureNetwork}),
		},
		{
			name:        "timeout",
			submitErr:   &secondary.GatewayError{Kind: secondary.ErrTimeout, Op: "submit checkin"},
			wantKind:    secondary.ErrTimeout,
			wantMessage: submission.FailureMessage(submission.FailureInput{Kind: submission.FailureTimeout}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.seed(serverEntries(2))
			h.gateway.submitErr = tt.submitErr
			h.gateway.fetchErr = &secondary.GatewayError{Kind: secondary.ErrNetwork, Op: "fetch timeline"}
			svc := h.submissionService()
			ctx := context.Background()

			result, err := svc.Submit(ctx, primary.SubmitRequest{UserText: "  " + reflection})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if result.Outcome != primary.SubmitDegraded {
				t.Fatalf("expected degraded outcome, got %q", result.Outcome)
			}
			if !errors.Is(result.SubmitErr, tt.wantKind) {
				t.Errorf("expected %v submit error, got %v", tt.wantKind, result.SubmitErr)
			}
			if !result.ClearInput {
				t.Error("expected input to be cleared after saving offline")
			}

			stored := h.store.Load(ctx)
			if len(stored) != 3 {
				t.Fatalf("expected 3 stored entries, got %d", len(stored))
			}
			placeholder := stored[2]
			if placeholder.Origin != entry.OriginOffline || !strings.HasPrefix(placeholder.ID, entry.OfflineIDPrefix) {
				t.Errorf("expected offline placeholder, got %+v", placeholder)
			}
			if placeholder.SentimentScore != entry.NeutralSentiment || placeholder.AnomalyFlag {
				t.Errorf("unexpected placeholder scoring: %+v", placeholder)
			}
			if placeholder.UserText != reflection {
				t.Errorf("expected trimmed text, got %q", placeholder.UserText)
			}
			if !placeholder.Timestamp.Equal(h.clock.Now()) {
				t.Errorf("expected placeholder stamped now, got %v", placeholder.Timestamp)
			}

			notes := h.notifier.all()
			if len(notes) != 2 {
				t.Fatalf("expected refresh and submit notifications, got %+v", notes)
			}
			if notes[0].Kind != effects.KindDegraded {
				t.Errorf("expected degraded refresh first, got %+v", notes[0])
			}
			if notes[1].Kind != effects.KindOffline || notes[1].Message != tt.wantMessage {
				t.Errorf("expected %q last, got %+v", tt.wantMessage, notes[1])
			}
		})
	}
}

func TestSubmit_AppendsBeforeRefreshing(t *testing.T) {
	h := newHarness()
	h.gateway.submitErr = &secondary.GatewayError{Kind: secondary.ErrNetwork, Op: "submit checkin"}
	ctx := context.Background()

	var seen int
	refresher := &mockRefresher{}
	refresher.onCall = func() {
		seen = len(h.store.Load(ctx))
	}
	svc := NewSubmissionService(h.store, h.gateway, refresher, h.executor, discardLogger())

	if _, err := svc.Submit(ctx, primary.SubmitRequest{UserText: reflection}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if refresher.calls != 1 {
		t.Fatalf("expected one refresh, got %d", refresher.calls)
	}
	if seen != 1 {
		t.Errorf("expected refresh to see the appended entry, saw %d entries", seen)
	}
}

func TestSubmit_FailureMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "timeout",
			err:  &secondary.GatewayError{Kind: secondary.ErrTimeout},
			want: submission.FailureMessage(submission.FailureInput{Kind: submission.FailureTimeout}),
		},
		{
			name: "internal server error",
			err:  &secondary.GatewayError{Kind: secondary.ErrServer, StatusCode: 500},
			want: "Server error. The backend database might be unavailable. Your entry has been saved locally.",
		},
		{
			name: "other status with detail",
			err:  &secondary.GatewayError{Kind: secondary.ErrServer, StatusCode: 422, Detail: "text too long"},
			want: "Server error (422): text too long. Your entry has been saved locally.",
		},
		{
			name: "network",
			err:  &secondary.GatewayError{Kind: secondary.ErrNetwork},
			want: submission.FailureMessage(submission.FailureInput{Kind: submission.FailureNetwork}),
		},
		{
			name: "unclassified",
			err:  errors.New("boom"),
			want: "Failed to submit entry. Your entry has been saved locally.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.gateway.submitErr = tt.err
			svc := NewSubmissionService(h.store, h.gateway, &mockRefresher{}, h.executor, discardLogger())

			result, err := svc.Submit(context.Background(), primary.SubmitRequest{UserText: reflection})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result.Message != tt.want {
				t.Errorf("message = %q, want %q", result.Message, tt.want)
			}
		})
	}
}

func TestSubmit_StoreFailureIsAnError(t *testing.T) {
	h := newHarness()
	h.gateway.submitErr = &secondary.GatewayError{Kind: secondary.ErrNetwork}
	h.slots.writeErr = errDiskFull
	refresher := &mockRefresher{}
	svc := NewSubmissionService(h.store, h.gateway, refresher, h.executor, discardLogger())

	_, err := svc.Submit(context.Background(), primary.SubmitRequest{UserText: reflection})
	if err == nil {
		t.Fatal("expected error when the placeholder cannot be stored")
	}
	if !errors.Is(err, errDiskFull) {
		t.Errorf("expected wrapped disk error, got %v", err)
	}
	if refresher.calls != 0 {
		t.Error("expected no refresh after a failed append")
	}
}
