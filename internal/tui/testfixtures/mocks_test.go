package testfixtures

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bcfl/predict/internal/entry"
	"github.com/bcfl/predict/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockBackend_RecordsCalls(t *testing.T) {
	be := NewMockBackend()
	be.Resp = &remote.Response{OK: true, Message: "saved"}

	resp, err := be.Submit(context.Background(), map[string]string{"email": "a@b.com"})
	require.NoError(t, err)
	assert.Equal(t, "saved", resp.Message)
	assert.Equal(t, 1, be.SubmitCalls())
	assert.Equal(t, "a@b.com", be.Submitted()["email"])

	_, err = be.Prefill(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, 1, be.PrefillCalls())
	assert.Equal(t, "tok", be.Token())
}

func TestMockBackend_Error(t *testing.T) {
	be := NewMockBackend()
	be.Err = errors.New("boom")
	_, err := be.Submit(context.Background(), nil)
	assert.EqualError(t, err, "boom")
}

func TestMockBackend_BlockUntilCancelled(t *testing.T) {
	be := NewMockBackend()
	be.Block = true

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := be.Prefill(ctx, "tok")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFilledEntry_Valid(t *testing.T) {
	s := entry.NewFormState()
	for id, v := range FilledEntry() {
		require.True(t, s.Set(id, v), id)
	}
	assert.True(t, entry.ValidateAll(s).Valid())
}
