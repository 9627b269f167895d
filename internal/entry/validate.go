package entry

import (
	"regexp"
	"strconv"
)

// Error messages shown in the per-field error slots.
const (
	MsgEmailRequired       = "Please enter a valid email."
	MsgLeaderboardRequired = "Please enter a leaderboard name."
	MsgWinnerRequired      = "Please select a winner."
	MsgConfidenceRequired  = "Please choose a confidence rating."
	MsgConfidenceTaken     = "Confidence rating already used."
	MsgTotalFormat         = "Total must be 0–2000 in 0.5 steps (e.g. 865 or 865.5)."
	MsgFemaleBestRequired  = "Please enter a female lifter from the list."
	MsgMaleBestRequired    = "Please enter a male lifter from the list."
)

// MaxTotal is the largest accepted total in kilograms.
const MaxTotal = 2000

var totalPattern = regexp.MustCompile(`^(?:[0-9]|[1-9][0-9]{1,2}|1[0-9]{3}|2000)(?:\.0|\.5)?$`)

// ValidTotal reports whether v is an integer 0..2000 or a half step thereof.
// The pattern alone admits "2000.5", so the range is checked as well.
func ValidTotal(v string) bool {
	if !totalPattern.MatchString(v) {
		return false
	}
	f, err := strconv.ParseFloat(v, 64)
	return err == nil && f <= MaxTotal
}

// ErrorSlot returns the id of the error slot for a field.
func ErrorSlot(fieldID string) string {
	if fieldID == FieldLeaderboardName {
		return "leaderboardError"
	}
	return fieldID + "Error"
}

// Errors maps error slot id to message.
type Errors map[string]string

// Valid reports whether no check failed.
func (e Errors) Valid() bool { return len(e) == 0 }

// For returns the message for a field, or "".
func (e Errors) For(fieldID string) string { return e[ErrorSlot(fieldID)] }

func (e Errors) add(fieldID, msg string) { e[ErrorSlot(fieldID)] = msg }

// StepSlots returns every error slot that belongs to a step. The controller
// clears these before re-validating.
func StepSlots(step int) []string {
	var ids []string
	switch step {
	case StepContact:
		ids = []string{FieldEmail, FieldLeaderboardName}
	case StepWomen, StepMen:
		for _, wc := range ClassesForStep(step) {
			ids = append(ids, wc.WinnerID(), wc.ConfidenceID(), wc.TotalID())
		}
	case StepBestLifters:
		ids = []string{FieldFemaleBest, FieldMaleBest}
	}
	slots := make([]string, len(ids))
	for i, id := range ids {
		slots[i] = ErrorSlot(id)
	}
	return slots
}

// ValidateStep runs every check of a step against s. All checks run, so the
// result lists every failing field at once.
func ValidateStep(step int, s FormState) Errors {
	errs := Errors{}
	switch step {
	case StepContact:
		if s.Get(FieldEmail) == "" {
			errs.add(FieldEmail, MsgEmailRequired)
		}
		if s.Get(FieldLeaderboardName) == "" {
			errs.add(FieldLeaderboardName, MsgLeaderboardRequired)
		}

	case StepWomen, StepMen:
		classes := ClassesForStep(step)
		for _, wc := range classes {
			if s.Get(wc.WinnerID()) == "" {
				errs.add(wc.WinnerID(), MsgWinnerRequired)
			}
		}
		taken := ConfidenceConflicts(s)
		for _, wc := range classes {
			id := wc.ConfidenceID()
			switch {
			case !ValidConfidence(s.Get(id)):
				errs.add(id, MsgConfidenceRequired)
			case taken[id]:
				errs.add(id, MsgConfidenceTaken)
			}
		}
		for _, wc := range classes {
			if v := s.Get(wc.TotalID()); v != "" && !ValidTotal(v) {
				errs.add(wc.TotalID(), MsgTotalFormat)
			}
		}

	case StepBestLifters:
		if s.Get(FieldFemaleBest) == "" {
			errs.add(FieldFemaleBest, MsgFemaleBestRequired)
		}
		if s.Get(FieldMaleBest) == "" {
			errs.add(FieldMaleBest, MsgMaleBestRequired)
		}
	}
	return errs
}

// ValidateAll validates every step and merges the results.
func ValidateAll(s FormState) Errors {
	all := Errors{}
	for step := 0; step < StepCount; step++ {
		for slot, msg := range ValidateStep(step, s) {
			all[slot] = msg
		}
	}
	return all
}
