// Package remote contains the HTTP client for the check-in analysis service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/example/checkin/internal/core/entry"
	"github.com/example/checkin/internal/ports/secondary"
)

// Defaults for Options.
const (
	DefaultBaseURL       = "http://localhost:8000"
	DefaultFetchTimeout  = 4 * time.Second
	DefaultSubmitTimeout = 30 * time.Second
	DefaultUserAgent     = "checkin/dev"
)

const (
	maxBodyBytes   = 4 << 20
	maxDetailRunes = 200
)

// Options configures a Gateway.
type Options struct {
	BaseURL       string
	FetchTimeout  time.Duration // timeline and health
	SubmitTimeout time.Duration
	UserAgent     string
	HTTPClient    *http.Client // nil uses a client without a global timeout
}

// Gateway implements secondary.TimelineGateway over HTTP/JSON.
type Gateway struct {
	base          *url.URL
	client        *http.Client
	fetchTimeout  time.Duration
	submitTimeout time.Duration
	userAgent     string
}

// NewGateway creates a Gateway for the service at opts.BaseURL.
func NewGateway(opts Options) (*Gateway, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme: %s", base.Scheme)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q: missing host", raw)
	}

	g := &Gateway{
		base:          base,
		client:        opts.HTTPClient,
		fetchTimeout:  opts.FetchTimeout,
		submitTimeout: opts.SubmitTimeout,
		userAgent:     opts.UserAgent,
	}
	if g.client == nil {
		g.client = &http.Client{}
	}
	if g.fetchTimeout <= 0 {
		g.fetchTimeout = DefaultFetchTimeout
	}
	if g.submitTimeout <= 0 {
		g.submitTimeout = DefaultSubmitTimeout
	}
	if g.userAgent == "" {
		g.userAgent = DefaultUserAgent
	}
	return g, nil
}

// BaseURL returns the service root.
func (g *Gateway) BaseURL() string {
	return g.base.String()
}

// wireEntry is an entry as the service sends it.
type wireEntry struct {
	ID             string  `json:"id"`
	Timestamp      string  `json:"timestamp"`
	SentimentScore float64 `json:"sentiment_score"`
	AnomalyFlag    bool    `json:"anomaly_flag"`
	SupportMessage *string `json:"support_message,omitempty"`
	UserText       *string `json:"user_text,omitempty"`
}

func (w wireEntry) toEntry() (entry.Entry, error) {
	if w.ID == "" {
		return entry.Entry{}, fmt.Errorf("entry without id")
	}
	ts, err := entry.ParseTimestamp(w.Timestamp)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("entry %s: %w", w.ID, err)
	}
	e := entry.Entry{
		ID:             w.ID,
		Timestamp:      ts,
		SentimentScore: w.SentimentScore,
		AnomalyFlag:    w.AnomalyFlag,
		Origin:         entry.OriginServer,
	}
	if w.UserText != nil {
		e.UserText = *w.UserText
	}
	return e, nil
}

type checkinRequest struct {
	UserText string `json:"user_text"`
}

// FetchTimeline returns every entry known to the service.
func (g *Gateway) FetchTimeline(ctx context.Context) ([]entry.Entry, error) {
	const op = "fetch timeline"

	var payload []wireEntry
	if err := g.do(ctx, op, http.MethodGet, "/timeline", nil, g.fetchTimeout, &payload); err != nil {
		return nil, err
	}

	entries := make([]entry.Entry, 0, len(payload))
	for _, w := range payload {
		e, err := w.toEntry()
		if err != nil {
			return nil, malformed(op, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// SubmitCheckin sends one reflection. The text is sent exactly as given.
func (g *Gateway) SubmitCheckin(ctx context.Context, userText string) (*secondary.CheckinReceipt, error) {
	const op = "submit checkin"

	body, err := json.Marshal(checkinRequest{UserText: userText})
	if err != nil {
		return nil, fmt.Errorf("failed to encode check-in: %w", err)
	}

	var payload wireEntry
	if err := g.do(ctx, op, http.MethodPost, "/checkin", body, g.submitTimeout, &payload); err != nil {
		return nil, err
	}

	e, err := payload.toEntry()
	if err != nil {
		return nil, malformed(op, err)
	}
	receipt := &secondary.CheckinReceipt{Entry: e}
	if payload.SupportMessage != nil {
		receipt.SupportMessage = *payload.SupportMessage
	}
	return receipt, nil
}

// Health checks GET /health.
func (g *Gateway) Health(ctx context.Context) error {
	return g.do(ctx, "health", http.MethodGet, "/health", nil, g.fetchTimeout, nil)
}

// do performs one request with its own deadline and decodes a 2xx body into out.
// It never retries.
func (g *Gateway) do(ctx context.Context, op, method, path string, body []byte, timeout time.Duration, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	endpoint := g.base.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return classifyTransport(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return classifyTransport(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &secondary.GatewayError{
			Kind:       secondary.ErrServer,
			Op:         op,
			StatusCode: resp.StatusCode,
			Detail:     errorDetail(raw),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return malformed(op, err)
	}
	return nil
}

// classifyTransport maps a client error to a gateway error kind.
func classifyTransport(op string, err error) error {
	kind := secondary.ErrNetwork
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = secondary.ErrTimeout
	}
	return &secondary.GatewayError{Kind: kind, Op: op, Err: err}
}

func malformed(op string, err error) error {
	return &secondary.GatewayError{
		Kind:   secondary.ErrServer,
		Op:     op,
		Detail: "malformed response",
		Err:    err,
	}
}

// errorDetail extracts a FastAPI-style {"detail": ...} message, falling back
// to the trimmed body.
func errorDetail(raw []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Detail) > 0 {
		var s string
		if err := json.Unmarshal(envelope.Detail, &s); err == nil {
			return s
		}
		return string(envelope.Detail)
	}
	text := strings.TrimSpace(string(raw))
	if utf8.RuneCountInString(text) > maxDetailRunes {
		text = string([]rune(text)[:maxDetailRunes]) + "..."
	}
	return text
}

// Ensure Gateway implements the interface
var _ secondary.TimelineGateway = (*Gateway)(nil)
