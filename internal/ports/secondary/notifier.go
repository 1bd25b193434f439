package secondary

import (
	"context"

	"github.com/example/checkin/internal/core/effects"
)

// Notifier defines the secondary port for user-visible notifications
// (the toast layer of a graphical client).
type Notifier interface {
	Notify(ctx context.Context, n effects.NotifyEffect)
}
