package wizard

import (
	"context"
	"strings"
	"testing"

	"github.com/bcfl/predict/internal/entry"
	"github.com/bcfl/predict/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalYAML_FieldOrder(t *testing.T) {
	s := entry.NewFormState()
	s.Set(entry.FieldEmail, "a@b.com")
	s.Set("t47w", "865")

	out, err := MarshalYAML(s)
	require.NoError(t, err)

	text := string(out)
	assert.True(t, strings.HasPrefix(text, "email: a@b.com\n"), text)
	assert.Contains(t, text, `t47w: "865"`)
	assert.Less(t, strings.Index(text, "w47w:"), strings.Index(text, "w59m:"))
	assert.Less(t, strings.Index(text, "t120pm:"), strings.Index(text, "femaleBest:"))
}

func TestImportYAML(t *testing.T) {
	c := New(Options{})
	c.SetValue("w52w", "Keep")

	applied, err := c.ImportYAML([]byte("email: a@b.com\nc47w: 4\nt47w: 865.5\nw52w: null\nunknown: x\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"c47w", "email", "t47w"}, applied)
	assert.Equal(t, "a@b.com", c.Value(entry.FieldEmail))
	assert.Equal(t, "4", c.Value("c47w"))
	assert.Equal(t, "865.5", c.Value("t47w"))
	assert.Equal(t, "Keep", c.Value("w52w"))
	assert.NotContains(t, c.ConfidenceOptions("c52w"), "4")
}

func TestImportYAML_RankOutOfRange(t *testing.T) {
	c := New(Options{})
	c.SetValue("c47w", "3")

	_, err := c.ImportYAML([]byte("c47w: 99\nc52w: 4\n"))
	require.NoError(t, err)
	assert.Empty(t, c.Value("c47w"))
	assert.Equal(t, "4", c.Value("c52w"))
	assert.Contains(t, c.ConfidenceOptions("c47w"), "3", "rank 3 is free again")
}

func TestImportYAML_Invalid(t *testing.T) {
	c := New(Options{})
	_, err := c.ImportYAML([]byte("email: [unterminated"))
	assert.Error(t, err)
}

func TestExportImport_RoundTrip(t *testing.T) {
	c := New(Options{})
	fillAll(c)
	out, err := c.ExportYAML()
	require.NoError(t, err)

	other := New(Options{})
	_, err = other.ImportYAML(out)
	require.NoError(t, err)
	assert.Equal(t, c.State().Trimmed(), other.State().Trimmed())
}

func TestDiff(t *testing.T) {
	c := New(Options{Backend: &fakeBackend{resp: &remote.Response{OK: true, Data: map[string]any{
		"email": "x@y.com",
		"w47w":  "Jane",
	}}}})
	assert.Empty(t, c.Diff(), "nothing loaded")

	require.NoError(t, c.Prefill(context.Background(), "tok"))
	assert.Empty(t, c.Diff(), "unchanged")

	c.SetValue("w47w", "Amy")
	diff := c.Diff()
	assert.Contains(t, diff, "--- loaded")
	assert.Contains(t, diff, "+++ current")
	assert.Contains(t, diff, "-w47w: Jane")
	assert.Contains(t, diff, "+w47w: Amy")
}

func TestSummary(t *testing.T) {
	c := New(Options{})
	fillContact(c)
	c.SetValue("w47w", "Jane")
	c.SetValue("c47w", "1")
	c.SetValue("t47w", "300")
	c.SetValue(entry.FieldMaleBest, "A|B")

	md := c.Summary()
	assert.Contains(t, md, "- **Email:** a@b.com")
	assert.Contains(t, md, "## Women's classes")
	assert.Contains(t, md, "| 47 kg | Jane | 1 | 300 |")
	assert.Contains(t, md, "| 59 kg | - | - | - |")
	assert.Contains(t, md, "- **Female:** -")
	assert.Contains(t, md, `- **Male:** A\|B`)
}
