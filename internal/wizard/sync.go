package wizard

import (
	"context"
	"errors"

	"github.com/bcfl/predict/internal/entry"
	"github.com/bcfl/predict/internal/journal"
	"github.com/bcfl/predict/internal/logger"
	"github.com/bcfl/predict/internal/remote"
)

var (
	// ErrBusy is returned when a backend call is already in flight.
	ErrBusy = errors.New("a request is already in progress")
	// ErrNoBackend is returned when the controller has no backend.
	ErrNoBackend = errors.New("no backend configured")
)

// BeginSubmit disables the controls, shows the in-flight status and returns
// the payload to send. It returns false when a call is already running.
func (c *Controller) BeginSubmit() (map[string]string, bool) {
	if c.busy {
		return nil, false
	}
	c.busy = true
	c.status = Status{Text: MsgSubmitting, Kind: StatusNeutral}
	c.record(journal.TypeSubmit, journal.ActionStart, "")
	return c.state.Trimmed(), true
}

// CompleteSubmit re-enables the controls and turns the backend answer into a
// status message. The form is left as is on every path.
func (c *Controller) CompleteSubmit(resp *remote.Response, err error) {
	c.busy = false

	var rejected *remote.RejectedError
	switch {
	case errors.As(err, &rejected):
		msg := rejected.Message
		if msg == "" {
			msg = MsgSubmitFailed
		}
		c.status = Status{Text: msg, Kind: StatusError}
		c.record(journal.TypeSubmit, journal.ActionReject, msg)
	case err != nil:
		logger.Warn("Submit failed: %v", err)
		c.status = Status{Text: MsgNetworkError, Kind: StatusError}
		c.record(journal.TypeSubmit, journal.ActionError, err.Error())
	default:
		var msg string
		if resp != nil {
			msg = resp.Message
		}
		c.status = Status{Text: msg, Kind: StatusSuccess}
		c.record(journal.TypeSubmit, journal.ActionOK, msg)
		logger.Info("Entry submitted")
	}
}

// Submit sends the entry synchronously. Errors are also reflected in Status.
func (c *Controller) Submit(ctx context.Context) (err error) {
	if c.backend == nil {
		return ErrNoBackend
	}
	data, ok := c.BeginSubmit()
	if !ok {
		return ErrBusy
	}

	var resp *remote.Response
	defer func() { c.CompleteSubmit(resp, err) }()

	resp, err = c.backend.Submit(ctx, data)
	return err
}

// BeginPrefill shows the loading status and disables the controls. It returns
// false when a call is already running.
func (c *Controller) BeginPrefill() bool {
	if c.busy {
		return false
	}
	c.busy = true
	c.status = Status{Text: MsgLoading, Kind: StatusNeutral}
	c.record(journal.TypePrefill, journal.ActionStart, "")
	return true
}

// CompletePrefill applies a prefill answer. On success the returned values
// are written into the form, the token is kept for resubmission, derived
// options are rebuilt and the gate opens. Every path ends on step 0.
func (c *Controller) CompletePrefill(token string, resp *remote.Response, err error) {
	c.busy = false
	c.showStep(entry.StepContact)

	var rejected *remote.RejectedError
	switch {
	case errors.As(err, &rejected):
		msg := rejected.Message
		if msg == "" {
			msg = MsgPrefillFailed
		}
		c.status = Status{Text: msg, Kind: StatusError}
		c.record(journal.TypePrefill, journal.ActionReject, msg)
		return
	case err != nil:
		logger.Warn("Prefill failed: %v", err)
		c.status = Status{Text: MsgPrefillError, Kind: StatusError}
		c.record(journal.TypePrefill, journal.ActionError, err.Error())
		return
	}

	var data map[string]any
	if resp != nil {
		data = resp.Data
	}
	applied := c.state.Apply(data)
	c.state.Set(entry.FieldToken, token)
	c.rebuild()
	c.loaded = c.state.Clone()
	c.gated = false
	c.errors = entry.Errors{}

	c.status = Status{Text: MsgPrefillOK, Kind: StatusSuccess}
	c.record(journal.TypePrefill, journal.ActionOK, "")
	logger.Info("Entry loaded: %d fields", len(applied))
}

// Prefill loads a saved entry synchronously.
func (c *Controller) Prefill(ctx context.Context, token string) (err error) {
	if c.backend == nil {
		return ErrNoBackend
	}
	if !c.BeginPrefill() {
		return ErrBusy
	}

	var resp *remote.Response
	defer func() { c.CompletePrefill(token, resp, err) }()

	resp, err = c.backend.Prefill(ctx, token)
	return err
}
