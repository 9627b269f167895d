package tui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/bcfl/predict/internal/tui/theme"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Normal state (enabled)
	ButtonDisabled                    // Disabled state (grayed out)
	ButtonFocused                     // Focused/highlighted state
	ButtonHidden                      // Takes no space
)

// Button represents a single button in the button bar.
type Button struct {
	Label string
	State ButtonState
}

// renderButtons renders the buttons centered in width.
func renderButtons(width int, buttons ...Button) string {
	s := theme.Current().S()

	var rendered []string
	for _, btn := range buttons {
		switch btn.State {
		case ButtonHidden:
			continue
		case ButtonDisabled:
			rendered = append(rendered, s.ButtonDisabled.Render(btn.Label))
		case ButtonFocused:
			rendered = append(rendered, s.ButtonFocused.Render(btn.Label))
		default:
			rendered = append(rendered, s.ButtonNormal.Render(btn.Label))
		}
	}
	if len(rendered) == 0 {
		return ""
	}
	return lipgloss.Place(width, 1, lipgloss.Center, lipgloss.Center, strings.Join(rendered, ""))
}

// navButtons builds the back/forward pair for the current step. Back is
// hidden on the first step and both are disabled while a request runs.
func navButtons(backVisible, busy bool, forwardLabel string) []Button {
	back := Button{Label: "← Back", State: ButtonNormal}
	if !backVisible {
		back.State = ButtonHidden
	}
	forward := Button{Label: forwardLabel + " →", State: ButtonFocused}
	if busy {
		if back.State != ButtonHidden {
			back.State = ButtonDisabled
		}
		forward.State = ButtonDisabled
	}
	return []Button{back, forward}
}
