// Package effects defines effect types as data structures representing I/O operations.
// This is the foundation of the Functional Core / Imperative Shell pattern.
// Effects are pure data - they describe what should happen, not how.
package effects

import "github.com/example/checkin/internal/core/entry"

// Effect is the base interface for all effects.
// Effects represent I/O operations as data that can be interpreted by the shell.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// Severity ranks a notification for the user.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// NotificationKind says what a notification is about.
type NotificationKind string

const (
	KindNewEntries NotificationKind = "new_entries"
	KindDegraded   NotificationKind = "degraded"
	KindNoData     NotificationKind = "no_data"
	KindSubmitted  NotificationKind = "submitted"
	KindOffline    NotificationKind = "saved_offline"
	KindValidation NotificationKind = "validation"
)

// LogEffect represents a logging operation.
type LogEffect struct {
	Level   string // "debug", "info", "warn", "error"
	Message string
	Fields  map[string]any
}

func (e LogEffect) EffectType() string { return "log" }

// NotifyEffect represents a user-visible notification.
type NotifyEffect struct {
	Kind     NotificationKind
	Severity Severity
	Message  string
	Count    int // new entries, for KindNewEntries
}

func (e NotifyEffect) EffectType() string { return "notify" }

// PersistEntriesEffect replaces the whole local entry list.
type PersistEntriesEffect struct {
	Entries []entry.Entry
}

func (e PersistEntriesEffect) EffectType() string { return "persist_entries" }
