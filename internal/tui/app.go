// Package tui renders the entry wizard as a Bubble Tea program.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/bcfl/predict/internal/entry"
	"github.com/bcfl/predict/internal/logger"
	"github.com/bcfl/predict/internal/tui/theme"
	"github.com/bcfl/predict/internal/wizard"
	uv "github.com/charmbracelet/ultraviolet"
)

const appTitle = "BCFL Predictions"

// Options configures the wizard program.
type Options struct {
	Controller *wizard.Controller
	Backend    wizard.Backend
	// Token, when set, loads a saved entry on start.
	Token string
}

// Model is the Bubble Tea model wrapping a wizard.Controller.
type Model struct {
	ctrl    *wizard.Controller
	backend wizard.Backend
	token   string

	ctx    context.Context
	cancel context.CancelFunc // cancels the in-flight request, nil when idle

	steps [entry.StepCount][]*field
	focus int

	spinner  spinner.Model
	review   viewport.Model
	showDiff bool

	width    int
	height   int
	quitting bool
}

// New builds the model. ctx bounds every request the model issues.
func New(ctx context.Context, opts Options) *Model {
	ctrl := opts.Controller
	if ctrl == nil {
		ctrl = wizard.New(wizard.Options{Backend: opts.Backend})
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Current().Primary))

	vp := viewport.New(
		viewport.WithWidth(60),
		viewport.WithHeight(10),
	)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	m := &Model{
		ctrl:    ctrl,
		backend: opts.Backend,
		token:   opts.Token,
		ctx:     ctx,
		spinner: s,
		review:  vp,
		width:   80,
		height:  40,
	}
	m.buildFields()
	m.syncInputs()
	m.refreshReview()
	_ = m.focusCurrent()
	return m
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, opts Options) (*Model, error) {
	m := New(ctx, opts)
	p := tea.NewProgram(m)

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}
	final, ok := finalModel.(*Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}
	return final, nil
}

// Controller returns the wrapped controller.
func (m *Model) Controller() *wizard.Controller { return m.ctrl }

func (m *Model) buildFields() {
	c := m.ctrl
	m.steps[entry.StepContact] = []*field{
		newField(entry.FieldEmail, "Email", "you@example.com", nil),
		newField(entry.FieldLeaderboardName, "Leaderboard name", "Shown on the public leaderboard", nil),
	}
	for _, step := range []int{entry.StepWomen, entry.StepMen} {
		var fields []*field
		for _, wc := range entry.ClassesForStep(step) {
			cid := wc.ConfidenceID()
			fields = append(fields,
				newField(wc.WinnerID(), wc.Label+" winner", "Select winner…", func() []string {
					return c.WinnerOptions(wc)
				}),
				newField(cid, wc.Label+" confidence", "Select rating…", func() []string {
					return c.ConfidenceOptions(cid)
				}),
				newField(wc.TotalID(), wc.Label+" winning total (optional)", "e.g. 865 or 865.5", nil),
			)
		}
		m.steps[step] = fields
	}
	m.steps[entry.StepBestLifters] = []*field{
		newField(entry.FieldFemaleBest, "Best female lifter", "Select lifter…", func() []string {
			return c.BestLifterOptions(entry.Female)
		}),
		newField(entry.FieldMaleBest, "Best male lifter", "Select lifter…", func() []string {
			return c.BestLifterOptions(entry.Male)
		}),
	}
}

// Init focuses the first field and starts a prefill when a token was given.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.focusCurrent()}
	if m.token != "" {
		cmds = append(cmds, m.startPrefill())
	}
	return tea.Batch(cmds...)
}

// Update handles messages for the wizard.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.refreshReview()
		return m, nil

	case spinner.TickMsg:
		if m.ctrl.Busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case submitDoneMsg:
		m.finishRequest()
		m.ctrl.CompleteSubmit(msg.resp, msg.err)
		return m, nil

	case prefillDoneMsg:
		m.finishRequest()
		m.ctrl.CompletePrefill(msg.token, msg.resp, msg.err)
		m.syncInputs()
		m.refreshReview()
		return m, m.setFocus(0)

	case entryEditedMsg:
		_ = os.Remove(msg.path)
		if msg.err != nil {
			logger.Warn("Editor returned error: %v", msg.err)
			return m, nil
		}
		if _, err := m.ctrl.ImportYAML(msg.data); err != nil {
			logger.Warn("Ignoring edited entry: %v", err)
			return m, nil
		}
		m.syncInputs()
		m.refreshReview()
		return m, nil

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}

	// Forward remaining messages (cursor blink) to the focused text input.
	if f := m.focused(); f != nil && !f.isSelect() {
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		m.cancelRequest()
		m.quitting = true
		return tea.Quit
	}
	// Controls are disabled while a request is in flight.
	if m.ctrl.Busy() {
		return nil
	}

	switch key {
	case "esc":
		if m.ctrl.Step() == entry.StepContact {
			m.quitting = true
			return tea.Quit
		}
		m.ctrl.Back()
		return m.enterStep()

	case "enter":
		switch m.ctrl.Next() {
		case wizard.Advanced:
			return m.enterStep()
		case wizard.SubmitRequired:
			return m.startSubmit()
		case wizard.Invalid:
			return m.focusFirstError()
		}
		return nil

	case "ctrl+g":
		m.ctrl.AcknowledgeGate()
		return nil

	case "ctrl+e":
		data, err := m.ctrl.ExportYAML()
		if err != nil {
			logger.Warn("Failed to export entry: %v", err)
			return nil
		}
		return openEditor(data)

	case "ctrl+d":
		if m.ctrl.Step() == entry.StepBestLifters && m.ctrl.Loaded() {
			m.showDiff = !m.showDiff
			m.refreshReview()
		}
		return nil

	case "pgup", "pgdown":
		if m.ctrl.Step() == entry.StepBestLifters {
			var cmd tea.Cmd
			m.review, cmd = m.review.Update(msg)
			return cmd
		}
		return nil

	case "tab", "down":
		return m.setFocus(m.focus + 1)

	case "shift+tab", "up":
		return m.setFocus(m.focus - 1)

	case "left", "right", "space":
		if f := m.focused(); f != nil && f.isSelect() {
			delta := 1
			if key == "left" {
				delta = -1
			}
			m.ctrl.SetValue(f.id, f.cycle(m.ctrl.Value(f.id), delta))
			m.refreshReview()
			return nil
		}
	}

	f := m.focused()
	if f == nil || f.isSelect() {
		return nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	m.ctrl.SetValue(f.id, f.input.Value())
	m.refreshReview()
	return cmd
}

func (m *Model) startSubmit() tea.Cmd {
	data, ok := m.ctrl.BeginSubmit()
	if !ok {
		return nil
	}
	backend := m.backend
	if backend == nil {
		m.ctrl.CompleteSubmit(nil, wizard.ErrNoBackend)
		return nil
	}
	ctx := m.requestContext()
	return tea.Batch(
		func() tea.Msg {
			resp, err := backend.Submit(ctx, data)
			return submitDoneMsg{resp: resp, err: err}
		},
		m.spinner.Tick,
	)
}

func (m *Model) startPrefill() tea.Cmd {
	backend := m.backend
	if backend == nil || !m.ctrl.BeginPrefill() {
		return nil
	}
	token := m.token
	ctx := m.requestContext()
	return tea.Batch(
		func() tea.Msg {
			resp, err := backend.Prefill(ctx, token)
			return prefillDoneMsg{token: token, resp: resp, err: err}
		},
		m.spinner.Tick,
	)
}

func (m *Model) requestContext() context.Context {
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	return ctx
}

func (m *Model) finishRequest() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Model) cancelRequest() {
	if m.cancel != nil {
		logger.Info("Cancelling in-flight request")
	}
	m.finishRequest()
}

// enterStep resets focus and the review pane after a step change.
func (m *Model) enterStep() tea.Cmd {
	m.showDiff = false
	m.refreshReview()
	return m.setFocus(0)
}

func (m *Model) fields() []*field { return m.steps[m.ctrl.Step()] }

func (m *Model) focused() *field {
	fields := m.fields()
	if m.focus < 0 || m.focus >= len(fields) {
		return nil
	}
	return fields[m.focus]
}

// setFocus moves focus to idx, wrapping around the step's fields.
func (m *Model) setFocus(idx int) tea.Cmd {
	fields := m.fields()
	if len(fields) == 0 {
		return nil
	}
	for _, f := range m.steps {
		for _, ff := range f {
			ff.blur()
		}
	}
	m.focus = (idx%len(fields) + len(fields)) % len(fields)
	return m.focusCurrent()
}

func (m *Model) focusCurrent() tea.Cmd {
	if f := m.focused(); f != nil {
		return f.focus()
	}
	return nil
}

func (m *Model) focusFirstError() tea.Cmd {
	for i, f := range m.fields() {
		if m.ctrl.Error(f.id) != "" {
			return m.setFocus(i)
		}
	}
	return nil
}

// syncInputs copies controller values into every text input.
func (m *Model) syncInputs() {
	for _, fields := range m.steps {
		for _, f := range fields {
			f.sync(m.ctrl.Value(f.id))
		}
	}
}

func (m *Model) contentWidth() int {
	w := m.width - 10
	if w < 60 {
		w = 60
	}
	if w > 100 {
		w = 100
	}
	return w - 6 // Border and padding
}

// refreshReview re-renders the review pane of the last step.
func (m *Model) refreshReview() {
	w := m.contentWidth()
	h := m.height - 22
	if h < 5 {
		h = 5
	}
	m.review.SetWidth(w)
	m.review.SetHeight(h)

	if m.showDiff {
		diff := m.ctrl.Diff()
		if diff == "" {
			diff = "No changes since the entry was loaded."
		}
		m.review.SetContent(renderDiff(diff))
		return
	}
	m.review.SetContent(renderMarkdown(m.ctrl.Summary(), w))
}

// View renders the wizard UI.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true
	if m.quitting {
		return view
	}

	content := m.renderModal(m.renderStep())

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(content).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

// renderStep renders the fields of the current step, windowed around the
// focused field when they do not fit.
func (m *Model) renderStep() string {
	s := theme.Current().S()
	step := m.ctrl.Step()
	width := m.contentWidth()

	var sections []string
	if step == entry.StepContact && m.ctrl.IsGated() {
		sections = append(sections, s.Notice.Render("Listen to this week's episode first, then press ctrl+g to unlock the form."), "")
	}

	fields := m.fields()
	perField := 3
	visible := (m.height - 16) / perField
	if step == entry.StepBestLifters || visible >= len(fields) {
		visible = len(fields)
	}
	if visible < 2 {
		visible = 2
	}
	start := 0
	if m.focus >= visible {
		start = m.focus - visible + 1
	}
	end := min(start+visible, len(fields))

	if start > 0 {
		sections = append(sections, s.Placeholder.Render(fmt.Sprintf("  ↑ %d more", start)))
	}
	for i := start; i < end; i++ {
		f := fields[i]
		sections = append(sections, f.view(m.ctrl.Value(f.id), m.ctrl.Error(f.id), i == m.focus, width))
	}
	if end < len(fields) {
		sections = append(sections, s.Placeholder.Render(fmt.Sprintf("  ↓ %d more", len(fields)-end)))
	}

	if step == entry.StepBestLifters {
		title := "Review"
		if m.showDiff {
			title = "Changes since loaded"
		}
		sections = append(sections, "", s.LabelFocused.Render(title), m.review.View())
	}
	return strings.Join(sections, "\n")
}

// renderModal wraps the step content in a modal container with title,
// status line, buttons and hints.
func (m *Model) renderModal(stepContent string) string {
	s := theme.Current().S()
	width := m.contentWidth()

	var sections []string
	sections = append(sections, s.ModalTitle.Render(appTitle+" - "+m.ctrl.StepLabel()))
	sections = append(sections, renderProgress(m.ctrl.Step()), "")
	sections = append(sections, stepContent, "")

	status := m.ctrl.Status()
	line := renderStatus(status)
	if m.ctrl.Busy() {
		line = m.spinner.View() + " " + line
	}
	sections = append(sections, line)
	sections = append(sections, renderButtons(width, navButtons(m.ctrl.BackVisible(), m.ctrl.Busy(), m.ctrl.ForwardLabel())...))
	sections = append(sections, m.hints())

	modal := s.ModalContainer.Width(width + 6).Render(strings.Join(sections, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func (m *Model) hints() string {
	pairs := []string{"tab", "next field"}
	if f := m.focused(); f != nil && f.isSelect() {
		pairs = append(pairs, "←→", "choose")
	}
	pairs = append(pairs, "enter", strings.ToLower(m.ctrl.ForwardLabel()))
	if m.ctrl.Step() == entry.StepContact {
		pairs = append(pairs, "esc", "quit")
	} else {
		pairs = append(pairs, "esc", "back")
	}
	if m.ctrl.Step() == entry.StepBestLifters && m.ctrl.Loaded() {
		pairs = append(pairs, "ctrl+d", "changes")
	}
	if os.Getenv("EDITOR") != "" {
		pairs = append(pairs, "ctrl+e", "edit")
	}
	return renderHintBar(pairs...)
}
