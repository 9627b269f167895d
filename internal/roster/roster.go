// Package roster loads the athletes entered in each weight class. The roster
// supplies the options of the winner fields; a class without athletes takes
// a free-text winner.
package roster

import (
	"fmt"
	"os"
	"strings"

	"github.com/bcfl/predict/internal/entry"
	"github.com/bcfl/predict/internal/logger"
	"gopkg.in/yaml.v3"
)

// Roster maps weight-class code to the ordered athlete names of that class.
type Roster struct {
	Classes map[string][]string `yaml:"classes"`
}

// Empty returns a roster without athletes.
func Empty() *Roster {
	return &Roster{Classes: map[string][]string{}}
}

// Load reads a roster YAML file. An empty path yields an empty roster.
//
//	classes:
//	  47w: [Jane Doe, Amy Smith]
//	  120pm: [Carl Jones]
func Load(path string) (*Roster, error) {
	if path == "" {
		return Empty(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster: %w", err)
	}
	return Parse(data)
}

// Parse decodes roster YAML, dropping blank and repeated names and rejecting
// unknown class codes.
func Parse(data []byte) (*Roster, error) {
	var raw Roster
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing roster: %w", err)
	}

	r := Empty()
	for code, names := range raw.Classes {
		if _, ok := entry.ClassByCode(code); !ok {
			return nil, fmt.Errorf("roster: unknown weight class %q", code)
		}
		seen := make(map[string]bool, len(names))
		for _, n := range names {
			n = strings.TrimSpace(n)
			if n == "" || seen[n] {
				continue
			}
			seen[n] = true
			r.Classes[code] = append(r.Classes[code], n)
		}
	}
	logger.Debug("Roster loaded: %d classes", len(r.Classes))
	return r, nil
}

// Athletes returns the athletes of a class, or nil when the class has none.
func (r *Roster) Athletes(code string) []string {
	if r == nil {
		return nil
	}
	return r.Classes[code]
}
