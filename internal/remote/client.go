// Package remote talks to the entry backend: a single HTTP endpoint that
// accepts JSON "submit" and "prefill" actions and answers with an
// {ok, message, data} envelope.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bcfl/predict/internal/logger"
	"github.com/google/uuid"
)

// Actions understood by the backend.
const (
	ActionSubmit  = "submit"
	ActionPrefill = "prefill"
)

// DefaultTimeout bounds a call when the client is built without one.
const DefaultTimeout = 30 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

var (
	// ErrTransport wraps failures to reach the backend or non-JSON error
	// responses.
	ErrTransport = errors.New("backend unreachable")
	// ErrDecode wraps responses that are not a valid JSON envelope.
	ErrDecode = errors.New("invalid backend response")
)

// RejectedError is returned when the backend answers ok=false.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return "backend rejected request"
	}
	return "backend rejected request: " + e.Message
}

// SubmitRequest is the body of a submit call.
type SubmitRequest struct {
	Action string            `json:"action"`
	Data   map[string]string `json:"data"`
}

// PrefillRequest is the body of a prefill call.
type PrefillRequest struct {
	Action string `json:"action"`
	Token  string `json:"token"`
}

// Response is the envelope returned for both actions.
type Response struct {
	OK      bool           `json:"ok"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// Client issues requests against one endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	timeout  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-call timeout. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient creates a client for endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{},
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the configured URL.
func (c *Client) Endpoint() string { return c.endpoint }

// NewSubmitRequest builds the submit body for a trimmed form payload.
func NewSubmitRequest(data map[string]string) SubmitRequest {
	return SubmitRequest{Action: ActionSubmit, Data: data}
}

// Submit sends a completed entry. A nil error means the backend answered
// ok=true; ok=false yields a *RejectedError.
func (c *Client) Submit(ctx context.Context, data map[string]string) (*Response, error) {
	return c.do(ctx, NewSubmitRequest(data))
}

// Prefill fetches a previously saved entry by token.
func (c *Client) Prefill(ctx context.Context, token string) (*Response, error) {
	return c.do(ctx, PrefillRequest{Action: ActionPrefill, Token: token})
}

func (c *Client) do(ctx context.Context, payload any) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrTransport, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn("Request %s failed after %s: %v", reqID, time.Since(start), err)
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrTransport, err)
	}
	logger.Debug("Request %s: status=%d bytes=%d in %s", reqID, resp.StatusCode, len(raw), time.Since(start))

	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if !out.OK {
		return &out, &RejectedError{Message: out.Message}
	}
	return &out, nil
}
