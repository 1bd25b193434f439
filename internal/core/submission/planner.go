// Package submission contains pure business logic for check-in submissions.
package submission

import (
	"fmt"
	"strings"

	"github.com/example/checkin/internal/core/effects"
	"github.com/example/checkin/internal/core/entry"
)

// FailureKind classifies why the remote submit failed.
type FailureKind string

const (
	FailureTimeout FailureKind = "timeout"
	FailureServer  FailureKind = "server"
	FailureNetwork FailureKind = "network"
	FailureOther   FailureKind = "other"
)

// MessageSubmitted is shown after a successful submission.
const MessageSubmitted = "Check-in submitted successfully! Chart updated."

// FailureInput describes a failed remote submit.
type FailureInput struct {
	Kind       FailureKind
	StatusCode int    // for FailureServer
	Detail     string // server-provided detail, if any
}

// PlanSuccess builds the notification for an accepted check-in.
// The service's support message and the sentiment label ride along.
func PlanSuccess(accepted entry.Entry, supportMessage string) []effects.Effect {
	msg := MessageSubmitted
	label := entry.SentimentLabel(accepted.SentimentScore)
	msg += fmt.Sprintf(" Sentiment: %s (%.0f%%).", label, accepted.SentimentScore*100)
	if s := strings.TrimSpace(supportMessage); s != "" {
		msg += " " + s
	}

	return []effects.Effect{
		effects.LogEffect{
			Level:   "info",
			Message: "check-in submitted",
			Fields: map[string]any{
				"id":        accepted.ID,
				"sentiment": accepted.SentimentScore,
				"anomaly":   accepted.AnomalyFlag,
			},
		},
		effects.NotifyEffect{
			Kind:     effects.KindSubmitted,
			Severity: effects.SeveritySuccess,
			Message:  msg,
		},
	}
}

// PlanFailure builds the notification for a check-in that was kept offline.
func PlanFailure(placeholder entry.Entry, in FailureInput) []effects.Effect {
	return []effects.Effect{
		effects.LogEffect{
			Level:   "warn",
			Message: "check-in saved offline",
			Fields: map[string]any{
				"id":     placeholder.ID,
				"reason": string(in.Kind),
				"status": in.StatusCode,
			},
		},
		effects.NotifyEffect{
			Kind:     effects.KindOffline,
			Severity: effects.SeverityWarning,
			Message:  FailureMessage(in),
		},
	}
}

// PlanValidation builds the notification for text that was too short.
func PlanValidation(reason string) []effects.Effect {
	return []effects.Effect{
		effects.NotifyEffect{
			Kind:     effects.KindValidation,
			Severity: effects.SeverityError,
			Message:  reason,
		},
	}
}

// FailureMessage explains a failed submit to the user.
func FailureMessage(in FailureInput) string {
	switch in.Kind {
	case FailureTimeout:
		return "Request timed out. The server might be starting up, please try again in a moment. Your entry has been saved locally."
	case FailureServer:
		if in.StatusCode == 500 {
			return "Server error. The backend database might be unavailable. Your entry has been saved locally."
		}
		detail := strings.TrimSpace(in.Detail)
		if detail == "" {
			detail = "Unknown error"
		}
		return fmt.Sprintf("Server error (%d): %s. Your entry has been saved locally.", in.StatusCode, detail)
	case FailureNetwork:
		return "Cannot connect to server. Please check your internet connection or try again later. Your entry has been saved locally."
	default:
		return "Failed to submit entry. Your entry has been saved locally."
	}
}
