package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"docstore/internal/shared/config"
	"docstore/internal/shared/metrics"
	"docstore/internal/shared/telemetry"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultContentType = "text/plain"
	defaultMaxReply    = 16 << 20
)

// Forwarder relays a chat message and its context to the agent.
type Forwarder struct {
	Config config.AgentConfig
	Client *http.Client

	// MaxReplyBytes caps the agent reply; larger replies are rejected, never
	// cut. Zero means 16MB.
	MaxReplyBytes int64
}

// NewForwarder constructs a Forwarder whose client enforces the agent timeout.
func NewForwarder(cfg config.AgentConfig) *Forwarder {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Forwarder{
		Config: cfg,
		Client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Forward issues exactly one POST to the agent. Validation and configuration
// problems are reported before any network activity.
func (f *Forwarder) Forward(ctx context.Context, req Request) (Reply, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrInvalidRequest
	}
	endpoint := strings.TrimSpace(f.Config.URL)
	if endpoint == "" {
		return nil, ErrMisconfigured
	}

	items := req.Items
	if items == nil {
		items = []ContextItem{}
	}
	payload := ForwardPayload{
		Input: message,
		MCPContext: MCPContext{
			Source:    req.SourceURL,
			Documents: items,
		},
		Metadata: Metadata{Via: ForwardVia},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode forward payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMisconfigured, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if f.Config.Auth != "" {
		httpReq.Header.Set("Authorization", f.Config.Auth)
	}

	start := time.Now()
	resp, err := f.client().Do(httpReq)
	if err != nil {
		return nil, f.unavailable(start, len(items), err)
	}
	defer resp.Body.Close()

	limit := f.maxReply()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, f.unavailable(start, len(items), err)
	}
	if int64(len(raw)) > limit {
		return nil, f.unavailable(start, len(items), fmt.Errorf("agent reply exceeds %d bytes", limit))
	}

	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && json.Valid(trimmed) {
		f.observe(metrics.OutcomeStructured, start, resp.StatusCode, len(items))
		return StructuredReply{AgentResponse: json.RawMessage(trimmed), Sent: payload}, nil
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}
	f.observe(metrics.OutcomeRaw, start, resp.StatusCode, len(items))
	return RawReply{StatusCode: resp.StatusCode, ContentType: contentType, Body: raw}, nil
}

func (f *Forwarder) maxReply() int64 {
	if f.MaxReplyBytes > 0 {
		return f.MaxReplyBytes
	}
	return defaultMaxReply
}

func (f *Forwarder) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return &http.Client{Timeout: defaultTimeout}
}

func (f *Forwarder) unavailable(start time.Time, docs int, err error) error {
	elapsed := time.Since(start)
	metrics.ObserveAgentForward(metrics.OutcomeUnavailable, elapsed)
	var urlErr interface{ Timeout() bool }
	timeout := errors.As(err, &urlErr) && urlErr.Timeout()
	telemetry.Warn("chat.agent_unavailable", map[string]any{
		"documents":   docs,
		"duration_ms": float64(elapsed.Microseconds()) / 1000.0,
		"timeout":     timeout,
		"error":       err,
	})
	return &UpstreamError{Err: err}
}

func (f *Forwarder) observe(outcome string, start time.Time, status, docs int) {
	elapsed := time.Since(start)
	metrics.ObserveAgentForward(outcome, elapsed)
	telemetry.Info("chat.forwarded", map[string]any{
		"outcome":         outcome,
		"upstream_status": status,
		"documents":       docs,
		"duration_ms":     float64(elapsed.Microseconds()) / 1000.0,
	})
}
