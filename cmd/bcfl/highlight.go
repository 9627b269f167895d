package main

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/colorprofile"
)

// highlightJSON colors JSON for the terminal at the given color depth.
// Profiles without color get the source unchanged.
func highlightJSON(source string, profile colorprofile.Profile) string {
	var formatter chroma.Formatter
	switch profile {
	case colorprofile.TrueColor:
		formatter = formatters.Get("terminal16m")
	case colorprofile.ANSI256:
		formatter = formatters.Get("terminal256")
	case colorprofile.ANSI:
		formatter = formatters.Get("terminal16")
	default:
		return source
	}

	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return source
	}
	return trimLines(strings.TrimRight(buf.String(), "\n"))
}

// trimLines drops trailing whitespace so highlighted output diffs cleanly.
func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}
