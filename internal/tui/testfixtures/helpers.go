package testfixtures

import (
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/ansi"
)

// Initialize test environment
func init() {
	// Ascii profile keeps rendered views free of escape sequences
	lipgloss.Writer.Profile = colorprofile.Ascii
}

// Canonical terminal size for view tests
const (
	TestTermWidth  = 100
	TestTermHeight = 50
)

// Plain strips ANSI sequences from rendered output.
func Plain(s string) string {
	return ansi.Strip(s)
}
