// Package wizard holds the entry wizard's state machine: the current step,
// the form values, per-field errors, the status line and the glue to the
// backend and the activity journal. It knows nothing about rendering.
package wizard

import (
	"context"
	"fmt"
	"time"

	"github.com/bcfl/predict/internal/entry"
	"github.com/bcfl/predict/internal/journal"
	"github.com/bcfl/predict/internal/logger"
	"github.com/bcfl/predict/internal/remote"
	"github.com/bcfl/predict/internal/roster"
)

// Status line messages.
const (
	MsgSubmitting    = "Submitting your entry…"
	MsgLoading       = "Loading your saved entry…"
	MsgSubmitFailed  = "Something went wrong."
	MsgNetworkError  = "Network error. Please try again."
	MsgPrefillFailed = "Could not load entry."
	MsgPrefillError  = "Error loading entry. You can still submit a new one."
	MsgPrefillOK     = "Entry loaded. You can review and resubmit before the deadline."
	MsgGateClosed    = "Please confirm you have listened to the episode before continuing."
)

var stepLabels = [entry.StepCount]string{
	"Step 1 of 4 – Contact details",
	"Step 2 of 4 – Women's classes",
	"Step 3 of 4 – Men's classes",
	"Step 4 of 4 – Best lifters & submit",
}

// StatusKind selects how the status line is styled.
type StatusKind int

const (
	StatusNeutral StatusKind = iota
	StatusError
	StatusSuccess
)

// Status is the transient message under the form.
type Status struct {
	Text string
	Kind StatusKind
}

// Outcome reports what Next did.
type Outcome int

const (
	// Ignored means controls were disabled.
	Ignored Outcome = iota
	// Invalid means the current step failed validation.
	Invalid
	// Gated means the gate has not been acknowledged.
	Gated
	// Advanced means the wizard moved to the following step.
	Advanced
	// SubmitRequired means the last step validated and a submit must follow.
	SubmitRequired
)

func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case Invalid:
		return "invalid"
	case Gated:
		return "gated"
	case Advanced:
		return "advanced"
	case SubmitRequired:
		return "submit"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Backend is the remote side of the wizard.
type Backend interface {
	Submit(ctx context.Context, data map[string]string) (*remote.Response, error)
	Prefill(ctx context.Context, token string) (*remote.Response, error)
}

// Recorder receives journal events.
type Recorder interface {
	Record(ctx context.Context, ev journal.Event) error
}

// Options configures a Controller. Every field is optional.
type Options struct {
	Roster  *roster.Roster
	Backend Backend
	Journal Recorder
	Gated   bool
}

// Controller is the wizard state. It is not safe for concurrent use; the
// Bubble Tea update loop owns it.
type Controller struct {
	step   int
	state  entry.FormState
	errors entry.Errors
	status Status
	busy   bool
	gated  bool

	// loaded is the entry as the backend returned it, nil until a prefill
	// succeeds.
	loaded entry.FormState

	confidence map[string][]string
	candidates entry.Candidates

	roster  *roster.Roster
	backend Backend
	journal Recorder
}

// New returns a controller at step 0 with an empty form.
func New(opts Options) *Controller {
	r := opts.Roster
	if r == nil {
		r = roster.Empty()
	}
	c := &Controller{
		state:   entry.NewFormState(),
		errors:  entry.Errors{},
		gated:   opts.Gated,
		roster:  r,
		backend: opts.Backend,
		journal: opts.Journal,
	}
	c.rebuild()
	c.showStep(entry.StepContact)
	return c
}

// Step returns the current step index.
func (c *Controller) Step() int { return c.step }

// StepLabel returns the heading of the current step.
func (c *Controller) StepLabel() string { return stepLabels[c.step] }

// BackVisible reports whether the back control is shown.
func (c *Controller) BackVisible() bool { return c.step > entry.StepContact }

// ForwardLabel returns "Submit" on the last step and "Next" elsewhere.
func (c *Controller) ForwardLabel() string {
	if c.step == entry.StepBestLifters {
		return "Submit"
	}
	return "Next"
}

// Busy reports whether a backend call is in flight. Controls are disabled
// while busy.
func (c *Controller) Busy() bool { return c.busy }

// Status returns the status line.
func (c *Controller) Status() Status { return c.status }

// IsGated reports whether the gate still blocks step 0.
func (c *Controller) IsGated() bool { return c.gated }

// AcknowledgeGate opens the gate.
func (c *Controller) AcknowledgeGate() {
	if !c.gated {
		return
	}
	c.gated = false
	if c.status.Text == MsgGateClosed {
		c.status = Status{}
	}
}

// Value returns the trimmed value of a field.
func (c *Controller) Value(id string) string { return c.state.Get(id) }

// State returns a copy of the form values.
func (c *Controller) State() entry.FormState { return c.state.Clone() }

// Error returns the validation message of a field, or "".
func (c *Controller) Error(id string) string { return c.errors.For(id) }

// Errors returns a copy of the current validation messages.
func (c *Controller) Errors() entry.Errors {
	out := make(entry.Errors, len(c.errors))
	for k, v := range c.errors {
		out[k] = v
	}
	return out
}

// SetValue writes a field and rebuilds the derived option sets. Unknown ids
// are ignored and reported as false.
func (c *Controller) SetValue(id, value string) bool {
	if !c.state.Set(id, value) {
		return false
	}
	c.rebuild()
	return true
}

// Next validates the current step and advances, or reports that the entry
// is ready to submit.
func (c *Controller) Next() Outcome {
	if c.busy {
		return Ignored
	}
	if c.step == entry.StepContact && c.gated {
		c.status = Status{Text: MsgGateClosed, Kind: StatusError}
		return Gated
	}
	if !c.ValidateStep() {
		return Invalid
	}
	if c.step < entry.StepBestLifters {
		c.showStep(c.step + 1)
		return Advanced
	}
	return SubmitRequired
}

// Back moves to the previous step without validating.
func (c *Controller) Back() bool {
	if c.busy || c.step == entry.StepContact {
		return false
	}
	c.showStep(c.step - 1)
	return true
}

// ValidateStep clears the current step's error slots, re-runs its checks
// and reports whether all of them passed.
func (c *Controller) ValidateStep() bool {
	for _, slot := range entry.StepSlots(c.step) {
		delete(c.errors, slot)
	}
	errs := entry.ValidateStep(c.step, c.state)
	for slot, msg := range errs {
		c.errors[slot] = msg
	}
	if !errs.Valid() {
		logger.Debug("Step %d failed validation: %d errors", c.step, len(errs))
		c.record(journal.TypeValidation, journal.ActionFailed, fmt.Sprintf("%d errors", len(errs)))
	}
	return errs.Valid()
}

// ConfidenceOptions returns the selectable ranks of a confidence field,
// blank placeholder first.
func (c *Controller) ConfidenceOptions(id string) []string { return c.confidence[id] }

// Candidates returns the current best-lifter candidates.
func (c *Controller) Candidates() entry.Candidates { return c.candidates }

// WinnerOptions returns the roster athletes of a class. A nil result means
// the class takes free text. A current value missing from the roster is
// kept as an option so restored entries survive.
func (c *Controller) WinnerOptions(wc entry.WeightClass) []string {
	athletes := c.roster.Athletes(wc.Code)
	if len(athletes) == 0 {
		return nil
	}
	return withCurrent(append([]string{""}, athletes...), c.state.Get(wc.WinnerID()))
}

// BestLifterOptions returns the options of a best-lifter field: blank, then
// the candidates of that gender.
func (c *Controller) BestLifterOptions(g entry.Gender) []string {
	id := entry.FieldMaleBest
	if g == entry.Female {
		id = entry.FieldFemaleBest
	}
	return withCurrent(append([]string{""}, c.candidates.For(g)...), c.state.Get(id))
}

func withCurrent(opts []string, current string) []string {
	if current == "" {
		return opts
	}
	for _, o := range opts {
		if o == current {
			return opts
		}
	}
	return append(opts, current)
}

// showStep enters a step: label, back visibility and forward label derive
// from c.step, and the status line is cleared.
func (c *Controller) showStep(step int) {
	c.step = step
	c.status = Status{}
	c.record(journal.TypeStep, journal.ActionEnter, stepLabels[step])
}

func (c *Controller) rebuild() {
	c.confidence = entry.ConfidenceOptions(c.state)
	c.candidates = entry.BestLifterCandidates(c.state)
}

func (c *Controller) record(eventType, action, detail string) {
	if c.journal == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ev := journal.Event{
		Session: journal.SessionToken(c.state.Get(entry.FieldLeaderboardName)),
		Type:    eventType,
		Action:  action,
		Step:    c.step,
		Detail:  detail,
	}
	if err := c.journal.Record(ctx, ev); err != nil {
		logger.Warn("Failed to record %s event: %v", eventType, err)
	}
}
