// Package entry holds the prediction entry data model: the fixed weight
// classes, the field identifiers derived from them, and the pure functions
// that validate a step and derive option sets from the current values.
package entry

import (
	"fmt"
	"sort"
	"strings"
)

// Gender partitions the weight classes and the best-lifter awards.
type Gender string

const (
	Female Gender = "female"
	Male   Gender = "male"
)

// Fixed field identifiers that are not tied to a weight class.
const (
	FieldEmail           = "email"
	FieldLeaderboardName = "leaderboardName"
	FieldToken           = "token"
	FieldFemaleBest      = "femaleBest"
	FieldMaleBest        = "maleBest"
)

// Step indices of the wizard.
const (
	StepContact = iota
	StepWomen
	StepMen
	StepBestLifters

	StepCount
)

// MaxConfidence is the highest confidence rank; ranks run 1..MaxConfidence.
const MaxConfidence = 16

// WeightClass is a fixed competition category with its own winner,
// confidence and total fields.
type WeightClass struct {
	Gender Gender
	Label  string // Display label, e.g. "84+ kg"
	Code   string // Field id suffix, e.g. "84pw"
}

// WinnerID returns the id of the winner field (e.g. "w47w").
func (w WeightClass) WinnerID() string { return "w" + w.Code }

// ConfidenceID returns the id of the confidence field (e.g. "c47w").
func (w WeightClass) ConfidenceID() string { return "c" + w.Code }

// TotalID returns the id of the total field (e.g. "t47w").
func (w WeightClass) TotalID() string { return "t" + w.Code }

// WomenClasses lists the women's classes in display order.
var WomenClasses = []WeightClass{
	{Female, "47 kg", "47w"},
	{Female, "52 kg", "52w"},
	{Female, "57 kg", "57w"},
	{Female, "63 kg", "63w"},
	{Female, "69 kg", "69w"},
	{Female, "76 kg", "76w"},
	{Female, "84 kg", "84w"},
	{Female, "84+ kg", "84pw"},
}

// MenClasses lists the men's classes in display order.
var MenClasses = []WeightClass{
	{Male, "59 kg", "59m"},
	{Male, "66 kg", "66m"},
	{Male, "74 kg", "74m"},
	{Male, "83 kg", "83m"},
	{Male, "93 kg", "93m"},
	{Male, "105 kg", "105m"},
	{Male, "120 kg", "120m"},
	{Male, "120+ kg", "120pm"},
}

// AllClasses returns women's then men's classes.
func AllClasses() []WeightClass {
	all := make([]WeightClass, 0, len(WomenClasses)+len(MenClasses))
	all = append(all, WomenClasses...)
	return append(all, MenClasses...)
}

// ClassesForStep returns the weight classes edited on a step, or nil for
// steps without class fields.
func ClassesForStep(step int) []WeightClass {
	switch step {
	case StepWomen:
		return WomenClasses
	case StepMen:
		return MenClasses
	}
	return nil
}

// ClassByCode looks up a weight class by its code.
func ClassByCode(code string) (WeightClass, bool) {
	for _, wc := range AllClasses() {
		if wc.Code == code {
			return wc, true
		}
	}
	return WeightClass{}, false
}

// ConfidenceIDs returns the ids of all 16 confidence fields in display order.
func ConfidenceIDs() []string {
	all := AllClasses()
	ids := make([]string, len(all))
	for i, wc := range all {
		ids[i] = wc.ConfidenceID()
	}
	return ids
}

// FieldIDs returns every field id of the form in display order, including
// the hidden token field.
func FieldIDs() []string {
	ids := []string{FieldEmail, FieldLeaderboardName, FieldToken}
	for _, wc := range AllClasses() {
		ids = append(ids, wc.WinnerID(), wc.ConfidenceID(), wc.TotalID())
	}
	return append(ids, FieldFemaleBest, FieldMaleBest)
}

var knownFields = func() map[string]bool {
	m := make(map[string]bool)
	for _, id := range FieldIDs() {
		m[id] = true
	}
	return m
}()

var confidenceFields = func() map[string]bool {
	m := make(map[string]bool)
	for _, id := range ConfidenceIDs() {
		m[id] = true
	}
	return m
}()

func isConfidenceID(id string) bool { return confidenceFields[id] }

// IsField reports whether id names a field of the form.
func IsField(id string) bool {
	return knownFields[id]
}

// FormState maps field id to its current string value.
type FormState map[string]string

// NewFormState returns a state with every field present and empty.
func NewFormState() FormState {
	s := make(FormState, len(knownFields))
	for id := range knownFields {
		s[id] = ""
	}
	return s
}

// Get returns the trimmed value of a field.
func (s FormState) Get(id string) string {
	return strings.TrimSpace(s[id])
}

// Set writes a field value. Unknown ids are ignored and reported as false.
func (s FormState) Set(id, value string) bool {
	if !IsField(id) {
		return false
	}
	s[id] = value
	return true
}

// Clone returns an independent copy.
func (s FormState) Clone() FormState {
	c := make(FormState, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// Trimmed returns the submit payload: every field's trimmed value keyed by id.
func (s FormState) Trimmed() map[string]string {
	out := make(map[string]string, len(knownFields))
	for id := range knownFields {
		out[id] = s.Get(id)
	}
	return out
}

// Apply writes every known key of data into the state and returns the ids
// that were written. Unknown keys and nil values are skipped; other scalars
// are stringified. A confidence value that is not a rank is written blank,
// as a select without a matching option would be.
func (s FormState) Apply(data map[string]any) []string {
	var applied []string
	for k, v := range data {
		if v == nil || !IsField(k) {
			continue
		}
		value := stringify(v)
		if isConfidenceID(k) && !ValidConfidence(strings.TrimSpace(value)) {
			value = ""
		}
		s[k] = value
		applied = append(applied, k)
	}
	sort.Strings(applied)
	return applied
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// JSON numbers decode as float64; keep integers free of a decimal point.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprint(t)
	}
}
