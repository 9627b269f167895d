package testfixtures

import (
	"strconv"

	"github.com/bcfl/predict/internal/entry"
)

// Fixed values used across wizard tests
const (
	FixedEmail       = "a@b.com"
	FixedLeaderboard = "Team A"
	FixedFemaleBest  = "Lifter 47w"
	FixedMaleBest    = "Lifter 59m"
)

// FilledEntry returns a complete entry that passes every step's validation.
// Winners are "Lifter <code>" and confidence ranks follow class order.
func FilledEntry() map[string]string {
	out := map[string]string{
		entry.FieldEmail:           FixedEmail,
		entry.FieldLeaderboardName: FixedLeaderboard,
		entry.FieldFemaleBest:      FixedFemaleBest,
		entry.FieldMaleBest:        FixedMaleBest,
	}
	for i, wc := range entry.AllClasses() {
		out[wc.WinnerID()] = "Lifter " + wc.Code
		out[wc.ConfidenceID()] = strconv.Itoa(i + 1)
	}
	return out
}

// RosterYAML is a small roster listing athletes for the two lightest women's classes.
const RosterYAML = `classes:
  47w: [Jane, Amy]
  52w: [Kim Lee]
`
