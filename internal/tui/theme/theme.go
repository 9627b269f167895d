package theme

import (
	"sync"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	// Semantic colors
	Primary   string // lipgloss.Color is a string type
	Secondary string

	// Background hierarchy (dark→light)
	BgBase     string
	BgMantle   string
	BgSurface0 string

	// Foreground hierarchy (dim→bright)
	FgMuted  string
	FgSubtle string
	FgBase   string

	// Status colors
	Success string
	Error   string

	// Diff colors
	DiffInsertFg string
	DiffDeleteFg string

	// Lazy-built styles
	styles     *Styles
	stylesOnce sync.Once
}

// S returns the pre-built styles for this theme.
// Styles are lazily initialized on first call.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	c := lipgloss.Color
	button := lipgloss.NewStyle().Padding(0, 2).MarginLeft(1).MarginRight(1)

	return &Styles{
		ModalContainer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.Secondary)).
			Background(c(t.BgBase)).
			Padding(1, 2),
		ModalTitle: lipgloss.NewStyle().
			Foreground(c(t.Primary)).
			Bold(true),

		Label:        lipgloss.NewStyle().Foreground(c(t.FgSubtle)),
		LabelFocused: lipgloss.NewStyle().Foreground(c(t.Secondary)).Bold(true),
		Value:        lipgloss.NewStyle().Foreground(c(t.FgBase)),
		Placeholder:  lipgloss.NewStyle().Foreground(c(t.FgMuted)),
		FieldError:   lipgloss.NewStyle().Foreground(c(t.Error)),
		Notice:       lipgloss.NewStyle().Foreground(c(t.Primary)).Italic(true),

		StatusNeutral: lipgloss.NewStyle().Foreground(c(t.FgSubtle)),
		StatusError:   lipgloss.NewStyle().Foreground(c(t.Error)),
		StatusSuccess: lipgloss.NewStyle().Foreground(c(t.Success)),

		HintKey:       lipgloss.NewStyle().Foreground(c(t.FgSubtle)).Bold(true),
		HintDesc:      lipgloss.NewStyle().Foreground(c(t.FgMuted)),
		HintSeparator: lipgloss.NewStyle().Foreground(c(t.BgSurface0)),

		ButtonNormal:   button.Foreground(c(t.FgBase)).Background(c(t.BgSurface0)),
		ButtonDisabled: button.Foreground(c(t.FgMuted)).Background(c(t.BgMantle)),
		ButtonFocused:  button.Foreground(c(t.BgBase)).Background(c(t.Secondary)).Bold(true),

		DiffInsert: lipgloss.NewStyle().Foreground(c(t.DiffInsertFg)),
		DiffDelete: lipgloss.NewStyle().Foreground(c(t.DiffDeleteFg)),
		DiffHeader: lipgloss.NewStyle().Foreground(c(t.Primary)).Bold(true),
	}
}

var (
	current     *Theme
	currentOnce sync.Once
)

// Current returns the active theme.
func Current() *Theme {
	currentOnce.Do(func() {
		current = NewCatppuccinMocha()
	})
	return current
}
