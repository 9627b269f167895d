package tui

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/bcfl/predict/internal/tui/theme"
)

// field is one form control. It is a select when options returns a non-nil
// list and a text input otherwise; winner fields switch between the two
// depending on whether the roster lists athletes for the class.
type field struct {
	id          string
	label       string
	placeholder string
	options     func() []string
	input       textinput.Model
}

func newField(id, label, placeholder string, options func() []string) *field {
	t := theme.Current()
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.SetStyles(textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Secondary)),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
		},
		Cursor: textinput.CursorStyle{
			Color: lipgloss.Color(t.Primary),
			Shape: tea.CursorBar,
			Blink: true,
		},
	})
	ti.SetWidth(40)

	return &field{
		id:          id,
		label:       label,
		placeholder: placeholder,
		options:     options,
		input:       ti,
	}
}

// choices returns the select options, or nil for a text field.
func (f *field) choices() []string {
	if f.options == nil {
		return nil
	}
	return f.options()
}

func (f *field) isSelect() bool { return f.choices() != nil }

// cycle returns the option delta steps away from current, wrapping around.
func (f *field) cycle(current string, delta int) string {
	opts := f.choices()
	if len(opts) == 0 {
		return current
	}
	idx := 0
	for i, o := range opts {
		if o == current {
			idx = i
			break
		}
	}
	idx = ((idx+delta)%len(opts) + len(opts)) % len(opts)
	return opts[idx]
}

func (f *field) focus() tea.Cmd {
	if f.isSelect() {
		return nil
	}
	return f.input.Focus()
}

func (f *field) blur() { f.input.Blur() }

// sync copies the controller value into the text input.
func (f *field) sync(value string) {
	if f.input.Value() != value {
		f.input.SetValue(value)
	}
}

// view renders the label, the control and the error line.
func (f *field) view(value, errMsg string, focused bool, width int) string {
	s := theme.Current().S()

	label := s.Label.Render(f.label)
	if focused {
		label = s.LabelFocused.Render("› " + f.label)
	}

	var control string
	if f.isSelect() {
		text := s.Value.Render(value)
		if value == "" {
			text = s.Placeholder.Render(f.placeholder)
		}
		if focused {
			control = s.HintKey.Render("◂ ") + text + s.HintKey.Render(" ▸")
		} else {
			control = "  " + text
		}
	} else {
		f.input.SetWidth(max(width-4, 10))
		control = "  " + f.input.View()
	}

	out := label + "\n" + control
	if errMsg != "" {
		out += "\n  " + s.FieldError.Render(errMsg)
	}
	return out
}
