// Package testfixtures provides a mock backend and shared fixtures for TUI tests.
//
// MockBackend stands in for the remote service. It is thread-safe because
// the model runs submissions on a tea.Cmd goroutine:
//
//	be := testfixtures.NewMockBackend()
//	be.Resp = &remote.Response{OK: true, Message: "Entry saved."}
//	// ... drive the model ...
//	require.Equal(t, 1, be.SubmitCalls())
package testfixtures

import (
	"context"
	"maps"
	"sync"

	"github.com/bcfl/predict/internal/remote"
)

// MockBackend is a mock implementation of the wizard backend.
type MockBackend struct {
	mu sync.Mutex

	// Resp and Err are returned by both Submit and Prefill.
	Resp *remote.Response
	Err  error
	// Block makes calls wait for context cancellation.
	Block bool

	submitCalls  int
	prefillCalls int
	submitted    map[string]string
	token        string
}

// NewMockBackend creates a backend that answers with an empty OK response.
func NewMockBackend() *MockBackend {
	return &MockBackend{Resp: &remote.Response{OK: true}}
}

// Submit records the payload and returns the configured response.
func (b *MockBackend) Submit(ctx context.Context, data map[string]string) (*remote.Response, error) {
	b.mu.Lock()
	b.submitCalls++
	b.submitted = maps.Clone(data)
	block, resp, err := b.Block, b.Resp, b.Err
	b.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return resp, err
}

// Prefill records the token and returns the configured response.
func (b *MockBackend) Prefill(ctx context.Context, token string) (*remote.Response, error) {
	b.mu.Lock()
	b.prefillCalls++
	b.token = token
	block, resp, err := b.Block, b.Resp, b.Err
	b.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return resp, err
}

// SubmitCalls returns how many times Submit was called.
func (b *MockBackend) SubmitCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.submitCalls
}

// PrefillCalls returns how many times Prefill was called.
func (b *MockBackend) PrefillCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.prefillCalls
}

// Submitted returns a copy of the last submitted payload.
func (b *MockBackend) Submitted() map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return maps.Clone(b.submitted)
}

// Token returns the last prefill token.
func (b *MockBackend) Token() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.token
}
