package wizard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/bcfl/predict/internal/entry"
	"github.com/bcfl/predict/internal/journal"
	"github.com/bcfl/predict/internal/remote"
	"github.com/bcfl/predict/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	resp *remote.Response
	err  error

	submitted map[string]string
	token     string
	// inFlight observes the controller while the call runs.
	inFlight func()
}

func (f *fakeBackend) Submit(_ context.Context, data map[string]string) (*remote.Response, error) {
	f.submitted = data
	if f.inFlight != nil {
		f.inFlight()
	}
	return f.resp, f.err
}

func (f *fakeBackend) Prefill(_ context.Context, token string) (*remote.Response, error) {
	f.token = token
	if f.inFlight != nil {
		f.inFlight()
	}
	return f.resp, f.err
}

type fakeRecorder struct {
	events []journal.Event
}

func (r *fakeRecorder) Record(_ context.Context, ev journal.Event) error {
	r.events = append(r.events, ev)
	return nil
}

func fillContact(c *Controller) {
	c.SetValue(entry.FieldEmail, "a@b.com")
	c.SetValue(entry.FieldLeaderboardName, "Team A")
}

// fillClasses picks a winner and a distinct rank for every class of a step.
func fillClasses(c *Controller, step int, rankOffset int) {
	for i, wc := range entry.ClassesForStep(step) {
		c.SetValue(wc.WinnerID(), fmt.Sprintf("Lifter %s", wc.Code))
		c.SetValue(wc.ConfidenceID(), strconv.Itoa(rankOffset+i+1))
	}
}

func fillAll(c *Controller) {
	fillContact(c)
	fillClasses(c, entry.StepWomen, 0)
	fillClasses(c, entry.StepMen, 8)
	c.SetValue(entry.FieldFemaleBest, "Lifter 47w")
	c.SetValue(entry.FieldMaleBest, "Lifter 59m")
}

func TestNew_InitialState(t *testing.T) {
	c := New(Options{})

	assert.Equal(t, entry.StepContact, c.Step())
	assert.Equal(t, "Step 1 of 4 – Contact details", c.StepLabel())
	assert.False(t, c.BackVisible())
	assert.Equal(t, "Next", c.ForwardLabel())
	assert.Equal(t, Status{}, c.Status())
	assert.False(t, c.Busy())
	assert.False(t, c.Loaded())
	assert.Len(t, c.ConfidenceOptions("c47w"), entry.MaxConfidence+1)
}

func TestNext_InvalidStepStays(t *testing.T) {
	c := New(Options{})

	assert.Equal(t, Invalid, c.Next())
	assert.Equal(t, entry.StepContact, c.Step())
	assert.Equal(t, entry.MsgEmailRequired, c.Error(entry.FieldEmail))
	assert.Equal(t, entry.MsgLeaderboardRequired, c.Error(entry.FieldLeaderboardName))
}

func TestNext_ClearsStaleErrors(t *testing.T) {
	c := New(Options{})
	require.Equal(t, Invalid, c.Next())

	c.SetValue(entry.FieldEmail, "a@b.com")
	require.Equal(t, Invalid, c.Next())
	assert.Empty(t, c.Error(entry.FieldEmail))
	assert.Equal(t, entry.MsgLeaderboardRequired, c.Error(entry.FieldLeaderboardName))
}

func TestNext_WalksAllSteps(t *testing.T) {
	c := New(Options{})
	fillAll(c)

	labels := []string{
		"Step 2 of 4 – Women's classes",
		"Step 3 of 4 – Men's classes",
		"Step 4 of 4 – Best lifters & submit",
	}
	for i, label := range labels {
		require.Equal(t, Advanced, c.Next(), "step %d", i)
		assert.Equal(t, label, c.StepLabel())
		assert.True(t, c.BackVisible())
	}
	assert.Equal(t, "Submit", c.ForwardLabel())
	assert.Equal(t, SubmitRequired, c.Next())
	assert.Equal(t, entry.StepBestLifters, c.Step())
}

func TestNext_InvalidTotalBlocks(t *testing.T) {
	c := New(Options{})
	fillAll(c)
	require.Equal(t, Advanced, c.Next())

	c.SetValue("t47w", "2000.5")
	assert.Equal(t, Invalid, c.Next())
	assert.Equal(t, entry.MsgTotalFormat, c.Error("t47w"))

	c.SetValue("t47w", "865.5")
	assert.Equal(t, Advanced, c.Next())
}

func TestBack(t *testing.T) {
	c := New(Options{})
	assert.False(t, c.Back())

	fillContact(c)
	require.Equal(t, Advanced, c.Next())

	// Back does not validate: the women's step is empty.
	assert.True(t, c.Back())
	assert.Equal(t, entry.StepContact, c.Step())
	assert.False(t, c.BackVisible())
}

func TestShowStep_ClearsStatus(t *testing.T) {
	c := New(Options{Backend: &fakeBackend{err: remote.ErrTransport}})
	fillAll(c)
	for c.Step() < entry.StepBestLifters {
		require.Equal(t, Advanced, c.Next())
	}
	require.Error(t, c.Submit(context.Background()))
	require.NotEmpty(t, c.Status().Text)

	c.Back()
	assert.Equal(t, Status{}, c.Status())
}

func TestSetValue_RebuildsConfidence(t *testing.T) {
	c := New(Options{})
	require.True(t, c.SetValue("c47w", "3"))

	assert.Contains(t, c.ConfidenceOptions("c47w"), "3")
	assert.NotContains(t, c.ConfidenceOptions("c52w"), "3")

	c.SetValue("c47w", "")
	assert.Contains(t, c.ConfidenceOptions("c52w"), "3")
}

func TestSetValue_UnknownField(t *testing.T) {
	c := New(Options{})
	assert.False(t, c.SetValue("nope", "x"))
}

func TestSetValue_RebuildsCandidates(t *testing.T) {
	c := New(Options{})
	c.SetValue("w47w", "Jane")
	c.SetValue("w52w", "Jane")
	c.SetValue("w59m", "Carl")

	assert.Equal(t, []string{"Jane"}, c.Candidates().Female)
	assert.Equal(t, []string{"", "Jane"}, c.BestLifterOptions(entry.Female))
	assert.Equal(t, []string{"", "Carl"}, c.BestLifterOptions(entry.Male))

	c.SetValue("w47w", "Amy")
	assert.Equal(t, []string{"Amy", "Jane"}, c.Candidates().Female)
}

func TestWinnerOptions(t *testing.T) {
	r, err := roster.Parse([]byte("classes:\n  47w: [Jane, Amy]\n"))
	require.NoError(t, err)
	c := New(Options{Roster: r})

	wc, _ := entry.ClassByCode("47w")
	assert.Equal(t, []string{"", "Jane", "Amy"}, c.WinnerOptions(wc))

	c.SetValue("w47w", "Zoe")
	assert.Equal(t, []string{"", "Jane", "Amy", "Zoe"}, c.WinnerOptions(wc))

	other, _ := entry.ClassByCode("52w")
	assert.Nil(t, c.WinnerOptions(other))
}

func TestGate(t *testing.T) {
	c := New(Options{Gated: true})
	fillContact(c)

	assert.True(t, c.IsGated())
	assert.Equal(t, Gated, c.Next())
	assert.Equal(t, Status{Text: MsgGateClosed, Kind: StatusError}, c.Status())

	c.AcknowledgeGate()
	assert.False(t, c.IsGated())
	assert.Empty(t, c.Status().Text)
	assert.Equal(t, Advanced, c.Next())
}

func TestSubmit_Success(t *testing.T) {
	be := &fakeBackend{resp: &remote.Response{OK: true, Message: "Entry saved."}}
	c := New(Options{Backend: be})
	fillAll(c)
	c.SetValue("t47w", "  865.5 ")

	require.NoError(t, c.Submit(context.Background()))
	assert.Equal(t, Status{Text: "Entry saved.", Kind: StatusSuccess}, c.Status())
	assert.False(t, c.Busy())
	assert.Equal(t, "865.5", be.submitted["t47w"])
	assert.Equal(t, "a@b.com", be.submitted[entry.FieldEmail])
	assert.Len(t, be.submitted, len(entry.FieldIDs()))
	// Form is left as is.
	assert.Equal(t, "Team A", c.Value(entry.FieldLeaderboardName))
}

func TestSubmit_Rejected(t *testing.T) {
	be := &fakeBackend{
		resp: &remote.Response{OK: false, Message: "Deadline passed"},
		err:  &remote.RejectedError{Message: "Deadline passed"},
	}
	c := New(Options{Backend: be})
	fillAll(c)

	err := c.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, Status{Text: "Deadline passed", Kind: StatusError}, c.Status())
	assert.False(t, c.Busy(), "controls re-enabled")
}

func TestSubmit_RejectedWithoutMessage(t *testing.T) {
	c := New(Options{Backend: &fakeBackend{err: &remote.RejectedError{}}})

	require.Error(t, c.Submit(context.Background()))
	assert.Equal(t, Status{Text: MsgSubmitFailed, Kind: StatusError}, c.Status())
}

func TestSubmit_NetworkError(t *testing.T) {
	c := New(Options{Backend: &fakeBackend{err: fmt.Errorf("%w: refused", remote.ErrTransport)}})

	require.Error(t, c.Submit(context.Background()))
	assert.Equal(t, Status{Text: MsgNetworkError, Kind: StatusError}, c.Status())
	assert.False(t, c.Busy())
}

func TestSubmit_DisablesControlsInFlight(t *testing.T) {
	be := &fakeBackend{resp: &remote.Response{OK: true}}
	c := New(Options{Backend: be})
	fillContact(c)

	be.inFlight = func() {
		assert.True(t, c.Busy())
		assert.Equal(t, Status{Text: MsgSubmitting, Kind: StatusNeutral}, c.Status())
		assert.Equal(t, Ignored, c.Next())
		assert.False(t, c.Back())
		assert.ErrorIs(t, c.Submit(context.Background()), ErrBusy)
	}
	require.NoError(t, c.Submit(context.Background()))
	assert.False(t, c.Busy())
}

func TestSubmit_NoBackend(t *testing.T) {
	c := New(Options{})
	assert.ErrorIs(t, c.Submit(context.Background()), ErrNoBackend)
	assert.ErrorIs(t, c.Prefill(context.Background(), "tok"), ErrNoBackend)
}

func TestPrefill_PopulatesFields(t *testing.T) {
	be := &fakeBackend{resp: &remote.Response{OK: true, Data: map[string]any{
		"email": "x@y.com",
		"w47w":  "Jane",
		"c47w":  float64(3),
		"bogus": "ignored",
		"w52w":  nil,
	}}}
	c := New(Options{Backend: be, Gated: true})
	c.SetValue("w52w", "Keep")

	require.NoError(t, c.Prefill(context.Background(), "tok-1"))
	assert.Equal(t, "tok-1", be.token)
	assert.Equal(t, "x@y.com", c.Value(entry.FieldEmail))
	assert.Equal(t, "Jane", c.Value("w47w"))
	assert.Equal(t, "3", c.Value("c47w"))
	assert.Equal(t, "Keep", c.Value("w52w"))
	assert.Equal(t, "tok-1", c.Value(entry.FieldToken))

	assert.Equal(t, entry.StepContact, c.Step())
	assert.Equal(t, Status{Text: MsgPrefillOK, Kind: StatusSuccess}, c.Status())
	assert.False(t, c.IsGated())
	assert.True(t, c.Loaded())
	assert.NotContains(t, c.ConfidenceOptions("c52w"), "3")
	assert.Equal(t, []string{"Jane", "Keep"}, c.Candidates().Female)
}

func TestPrefill_ReturnsToFirstStep(t *testing.T) {
	be := &fakeBackend{resp: &remote.Response{OK: true, Data: map[string]any{"email": "x@y.com"}}}
	c := New(Options{Backend: be})
	fillContact(c)
	require.Equal(t, Advanced, c.Next())

	require.NoError(t, c.Prefill(context.Background(), "tok"))
	assert.Equal(t, entry.StepContact, c.Step())
}

func TestPrefill_Rejected(t *testing.T) {
	c := New(Options{Backend: &fakeBackend{err: &remote.RejectedError{Message: "Unknown token"}}, Gated: true})

	require.Error(t, c.Prefill(context.Background(), "bad"))
	assert.Equal(t, Status{Text: "Unknown token", Kind: StatusError}, c.Status())
	assert.Equal(t, entry.StepContact, c.Step())
	assert.Empty(t, c.Value(entry.FieldToken))
	assert.True(t, c.IsGated())
	assert.False(t, c.Loaded())
}

func TestPrefill_RejectedWithoutMessage(t *testing.T) {
	c := New(Options{Backend: &fakeBackend{err: &remote.RejectedError{}}})

	require.Error(t, c.Prefill(context.Background(), "bad"))
	assert.Equal(t, MsgPrefillFailed, c.Status().Text)
}

func TestPrefill_NetworkError(t *testing.T) {
	c := New(Options{Backend: &fakeBackend{err: errors.Join(remote.ErrTransport, context.DeadlineExceeded)}})

	require.Error(t, c.Prefill(context.Background(), "tok"))
	assert.Equal(t, Status{Text: MsgPrefillError, Kind: StatusError}, c.Status())
	assert.False(t, c.Busy())
	assert.Equal(t, entry.StepContact, c.Step())
}

func TestPrefill_LoadingStatus(t *testing.T) {
	be := &fakeBackend{resp: &remote.Response{OK: true}}
	c := New(Options{Backend: be})
	be.inFlight = func() {
		assert.Equal(t, Status{Text: MsgLoading, Kind: StatusNeutral}, c.Status())
		assert.True(t, c.Busy())
	}
	require.NoError(t, c.Prefill(context.Background(), "tok"))
}

func TestPrefill_DuplicateRanksFlagged(t *testing.T) {
	be := &fakeBackend{resp: &remote.Response{OK: true, Data: map[string]any{"c47w": "5", "c52w": "5"}}}
	c := New(Options{Backend: be})
	fillContact(c)
	require.NoError(t, c.Prefill(context.Background(), "tok"))
	require.Equal(t, Advanced, c.Next())

	assert.Equal(t, Invalid, c.Next())
	assert.Empty(t, c.Error("c47w"))
	assert.Equal(t, entry.MsgConfidenceTaken, c.Error("c52w"))
}

func TestPrefill_RanksOutOfRangeLeftBlank(t *testing.T) {
	full := New(Options{})
	fillAll(full)
	data := map[string]any{}
	for id, v := range full.State().Trimmed() {
		data[id] = v
	}
	data["c47w"] = "99"
	data["c52w"] = "abc"

	be := &fakeBackend{resp: &remote.Response{OK: true, Data: data}}
	c := New(Options{Backend: be})
	require.NoError(t, c.Prefill(context.Background(), "tok"))

	assert.Empty(t, c.Value("c47w"))
	assert.Empty(t, c.Value("c52w"))
	for _, id := range entry.ConfidenceIDs() {
		if v := c.Value(id); v != "" {
			assert.Contains(t, c.ConfidenceOptions(id), v, id)
		}
	}

	require.Equal(t, Advanced, c.Next())
	assert.Equal(t, Invalid, c.Next())
	assert.Equal(t, entry.StepWomen, c.Step())
	assert.Equal(t, entry.MsgConfidenceRequired, c.Error("c47w"))
	assert.Equal(t, entry.MsgConfidenceRequired, c.Error("c52w"))
	assert.Nil(t, be.submitted)
}

func TestJournal_RecordsEvents(t *testing.T) {
	rec := &fakeRecorder{}
	c := New(Options{Journal: rec, Backend: &fakeBackend{err: &remote.RejectedError{Message: "Deadline passed"}}})
	c.Next()
	fillContact(c)
	c.Next()
	_ = c.Submit(context.Background())

	var got []string
	for _, ev := range rec.events {
		got = append(got, ev.Type+"/"+ev.Action)
	}
	assert.Equal(t, []string{
		"step/enter",
		"validation/failed",
		"step/enter",
		"submit/start",
		"submit/rejected",
	}, got)
	assert.Equal(t, "anonymous", rec.events[0].Session)
	assert.Equal(t, "team-a", rec.events[2].Session)
	assert.Equal(t, entry.StepWomen, rec.events[2].Step)
	assert.Equal(t, "Deadline passed", rec.events[4].Detail)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "advanced", Advanced.String())
	assert.Equal(t, "submit", SubmitRequired.String())
	assert.Equal(t, "outcome(42)", Outcome(42).String())
}
