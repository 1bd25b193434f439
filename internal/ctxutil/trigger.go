// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// TriggerKey is the context key for the refresh trigger.
// Exported so it can be used consistently across packages.
type TriggerKey struct{}

// WithTrigger returns a context tagged with what started the current refresh
// ("automatic", "manual", "submission").
func WithTrigger(ctx context.Context, trigger string) context.Context {
	return context.WithValue(ctx, TriggerKey{}, trigger)
}

// TriggerFromContext returns the refresh trigger from context, or empty string if not set.
func TriggerFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(TriggerKey{}).(string); ok {
		return v
	}
	return ""
}
