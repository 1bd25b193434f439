// Package cli contains the terminal adapters: notification output and entry rendering.
package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/example/checkin/internal/core/effects"
	"github.com/example/checkin/internal/ports/secondary"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

// Notifier prints notifications as single colored lines.
type Notifier struct {
	mu  sync.Mutex
	out io.Writer
}

// NewNotifier creates a Notifier writing to out.
func NewNotifier(out io.Writer) *Notifier {
	return &Notifier{out: out}
}

// Notify prints one notification.
func (n *Notifier) Notify(ctx context.Context, note effects.NotifyEffect) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "%s %s\n", severityMark(note.Severity), note.Message)
}

func severityMark(s effects.Severity) string {
	switch s {
	case effects.SeveritySuccess:
		return green("✓")
	case effects.SeverityWarning:
		return yellow("⚠")
	case effects.SeverityError:
		return red("✗")
	default:
		return cyan("ℹ")
	}
}

// Ensure Notifier implements the interface
var _ secondary.Notifier = (*Notifier)(nil)
