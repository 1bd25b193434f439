package secondary

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/checkin/internal/core/entry"
)

// TimelineGateway defines the secondary port for the remote analysis service.
// Implementations own their timeouts and never retry.
type TimelineGateway interface {
	// FetchTimeline returns every entry known to the service.
	FetchTimeline(ctx context.Context) ([]entry.Entry, error)

	// SubmitCheckin sends one reflection for analysis and storage.
	SubmitCheckin(ctx context.Context, userText string) (*CheckinReceipt, error)

	// Health checks that the service is up.
	Health(ctx context.Context) error
}

// CheckinReceipt is what the service returns for an accepted check-in.
type CheckinReceipt struct {
	Entry          entry.Entry
	SupportMessage string
}

// Gateway error kinds. Match with errors.Is.
var (
	ErrNetwork = errors.New("network error")
	ErrTimeout = errors.New("timeout")
	ErrServer  = errors.New("server error")
)

// GatewayError describes a failed call to the remote service.
type GatewayError struct {
	Kind       error  // ErrNetwork, ErrTimeout or ErrServer
	Op         string // "fetch timeline", "submit checkin", "health"
	StatusCode int    // set for ErrServer
	Detail     string // server-provided detail, if any
	Err        error  // underlying cause, if any
}

func (e *GatewayError) Error() string {
	switch {
	case e.Kind == ErrServer && e.Detail != "":
		return fmt.Sprintf("%s: %v (status %d): %s", e.Op, e.Kind, e.StatusCode, e.Detail)
	case e.Kind == ErrServer:
		return fmt.Sprintf("%s: %v (status %d)", e.Op, e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
}

// Is matches the error kind sentinels.
func (e *GatewayError) Is(target error) bool {
	return target == e.Kind
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
