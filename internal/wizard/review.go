package wizard

import (
	"fmt"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/bcfl/predict/internal/entry"
	"github.com/bcfl/predict/internal/journal"
	"gopkg.in/yaml.v3"
)

// Loaded reports whether the form came from a saved entry.
func (c *Controller) Loaded() bool { return c.loaded != nil }

// Diff returns a unified diff from the loaded entry to the current values,
// or "" when nothing was loaded or nothing changed.
func (c *Controller) Diff() string {
	if c.loaded == nil {
		return ""
	}
	before, err := MarshalYAML(c.loaded)
	if err != nil {
		return ""
	}
	after, err := MarshalYAML(c.state)
	if err != nil {
		return ""
	}
	if string(before) == string(after) {
		return ""
	}
	return udiff.Unified("loaded", "current", string(before), string(after))
}

// ExportYAML encodes the form values in field order.
func (c *Controller) ExportYAML() ([]byte, error) {
	return MarshalYAML(c.state)
}

// ImportYAML applies edited values the same way a prefill does: unknown keys
// and nulls are skipped and derived options are rebuilt. It returns the ids
// that were written.
func (c *Controller) ImportYAML(data []byte) ([]string, error) {
	values, err := UnmarshalYAML(data)
	if err != nil {
		return nil, err
	}
	applied := c.state.Apply(values)
	c.rebuild()
	c.record(journal.TypeImport, journal.ActionApplied, fmt.Sprintf("%d fields", len(applied)))
	return applied, nil
}

// MarshalYAML encodes s as a YAML mapping in entry.FieldIDs order.
func MarshalYAML(s entry.FormState) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, id := range entry.FieldIDs() {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: id},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s.Get(id)},
		)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding entry: %w", err)
	}
	return out, nil
}

// UnmarshalYAML decodes a YAML mapping of field values.
func UnmarshalYAML(data []byte) (map[string]any, error) {
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parsing entry: %w", err)
	}
	return values, nil
}

// Summary renders every pick as markdown for the review step.
func (c *Controller) Summary() string {
	var b strings.Builder

	b.WriteString("## Contact\n\n")
	fmt.Fprintf(&b, "- **Email:** %s\n", orDash(c.state.Get(entry.FieldEmail)))
	fmt.Fprintf(&b, "- **Leaderboard name:** %s\n", orDash(c.state.Get(entry.FieldLeaderboardName)))

	writeClasses(&b, "Women's classes", entry.WomenClasses, c.state)
	writeClasses(&b, "Men's classes", entry.MenClasses, c.state)

	b.WriteString("\n## Best lifters\n\n")
	fmt.Fprintf(&b, "- **Female:** %s\n", orDash(c.state.Get(entry.FieldFemaleBest)))
	fmt.Fprintf(&b, "- **Male:** %s\n", orDash(c.state.Get(entry.FieldMaleBest)))
	return b.String()
}

func writeClasses(b *strings.Builder, title string, classes []entry.WeightClass, s entry.FormState) {
	fmt.Fprintf(b, "\n## %s\n\n", title)
	b.WriteString("| Class | Winner | Confidence | Total |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, wc := range classes {
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
			wc.Label,
			orDash(s.Get(wc.WinnerID())),
			orDash(s.Get(wc.ConfidenceID())),
			orDash(s.Get(wc.TotalID())),
		)
	}
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return strings.ReplaceAll(v, "|", `\|`)
}
