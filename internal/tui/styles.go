package tui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/bcfl/predict/internal/entry"
	"github.com/bcfl/predict/internal/tui/theme"
	"github.com/bcfl/predict/internal/wizard"
)

// renderHintBar renders a hint bar with the given key-description pairs.
// Example: renderHintBar("tab", "next field", "enter", "next", "esc", "back")
// Returns: "tab next field • enter next • esc back"
func renderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}
	s := theme.Current().S()

	var b strings.Builder
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString(" " + s.HintSeparator.Render("•") + " ")
		}
		b.WriteString(s.HintKey.Render(pairs[i]) + " " + s.HintDesc.Render(pairs[i+1]))
	}
	return b.String()
}

// renderStatus styles the status line by kind.
func renderStatus(st wizard.Status) string {
	s := theme.Current().S()
	switch st.Kind {
	case wizard.StatusError:
		return s.StatusError.Render(st.Text)
	case wizard.StatusSuccess:
		return s.StatusSuccess.Render(st.Text)
	default:
		return s.StatusNeutral.Render(st.Text)
	}
}

// renderProgress draws one segment per step, blending from primary to
// secondary, with steps not yet reached dimmed.
func renderProgress(step int) string {
	t := theme.Current()
	segments := make([]string, entry.StepCount)
	for i := range segments {
		color := t.BgSurface0
		if i <= step {
			color = theme.InterpolateColor(t.Primary, t.Secondary, float64(i)/float64(entry.StepCount-1))
		}
		segments[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("━━━━")
	}
	return strings.Join(segments, " ")
}

// renderDiff colors a unified diff line by line.
func renderDiff(diff string) string {
	s := theme.Current().S()
	lines := strings.Split(strings.TrimSuffix(diff, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "@@"):
			lines[i] = s.DiffHeader.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = s.DiffInsert.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = s.DiffDelete.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
