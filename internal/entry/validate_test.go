package entry

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completeState returns a state that passes every step.
func completeState() FormState {
	s := NewFormState()
	s.Set(FieldEmail, "a@b.com")
	s.Set(FieldLeaderboardName, "Team A")
	for i, wc := range AllClasses() {
		s.Set(wc.WinnerID(), "Lifter "+wc.Code)
		s.Set(wc.ConfidenceID(), strconv.Itoa(i+1))
	}
	s.Set(FieldFemaleBest, "Lifter 47w")
	s.Set(FieldMaleBest, "Lifter 59m")
	return s
}

func TestValidTotal(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"0", true},
		{"9", true},
		{"865", true},
		{"865.5", true},
		{"865.0", true},
		{"1999.5", true},
		{"2000", true},
		{"2000.0", true},
		{"2000.5", false},
		{"2001", false},
		{"-1", false},
		{"100.3", false},
		{"abc", false},
		{"0865", false},
		{"865.", false},
		{".5", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidTotal(tt.input))
		})
	}
}

func TestValidTotal_AllHalfSteps(t *testing.T) {
	for i := 0; i <= 2*MaxTotal; i++ {
		v := strconv.Itoa(i / 2)
		if i%2 == 1 {
			v += ".5"
		}
		require.True(t, ValidTotal(v), "expected %q to pass", v)
	}
}

func TestValidateStep_Contact(t *testing.T) {
	s := NewFormState()
	s.Set(FieldEmail, "a@b.com")
	s.Set(FieldLeaderboardName, "Team A")
	require.True(t, ValidateStep(StepContact, s).Valid())

	errs := ValidateStep(StepContact, NewFormState())
	require.False(t, errs.Valid())
	assert.Equal(t, MsgEmailRequired, errs["emailError"])
	assert.Equal(t, MsgLeaderboardRequired, errs["leaderboardError"])
}

func TestValidateStep_WhitespaceIsEmpty(t *testing.T) {
	s := NewFormState()
	s.Set(FieldEmail, "   ")
	s.Set(FieldLeaderboardName, "Team A")

	errs := ValidateStep(StepContact, s)
	assert.Equal(t, MsgEmailRequired, errs.For(FieldEmail))
	assert.Empty(t, errs.For(FieldLeaderboardName))
}

func TestValidateStep_ClassStepsReportEveryField(t *testing.T) {
	for _, step := range []int{StepWomen, StepMen} {
		t.Run(strconv.Itoa(step), func(t *testing.T) {
			errs := ValidateStep(step, NewFormState())
			// 8 winners + 8 confidences, totals are optional.
			require.Len(t, errs, 16)
			for _, wc := range ClassesForStep(step) {
				assert.Equal(t, MsgWinnerRequired, errs.For(wc.WinnerID()))
				assert.Equal(t, MsgConfidenceRequired, errs.For(wc.ConfidenceID()))
				assert.Empty(t, errs.For(wc.TotalID()))
			}
		})
	}
}

func TestValidateStep_TotalFormat(t *testing.T) {
	s := completeState()
	s.Set("t47w", "865.5")
	require.True(t, ValidateStep(StepWomen, s).Valid())

	s.Set("t47w", "2000.5")
	errs := ValidateStep(StepWomen, s)
	require.False(t, errs.Valid())
	assert.Equal(t, MsgTotalFormat, errs["t47wError"])

	s.Set("t120pm", "abc")
	errs = ValidateStep(StepMen, s)
	assert.Equal(t, MsgTotalFormat, errs["t120pmError"])
}

func TestValidateStep_DuplicateConfidence(t *testing.T) {
	s := completeState()
	s.Set("c59m", s.Get("c47w"))

	assert.True(t, ValidateStep(StepWomen, s).Valid(), "first holder keeps the rank")
	errs := ValidateStep(StepMen, s)
	assert.Equal(t, MsgConfidenceTaken, errs.For("c59m"))
}

func TestValidateStep_ConfidenceOutOfRange(t *testing.T) {
	s := completeState()
	s.Set("c47w", "99")
	s.Set("c120pm", "abc")

	errs := ValidateStep(StepWomen, s)
	assert.Equal(t, MsgConfidenceRequired, errs.For("c47w"))
	errs = ValidateStep(StepMen, s)
	assert.Equal(t, MsgConfidenceRequired, errs.For("c120pm"))
	assert.False(t, ValidateAll(s).Valid())
}

func TestValidateStep_BestLifters(t *testing.T) {
	errs := ValidateStep(StepBestLifters, NewFormState())
	assert.Equal(t, MsgFemaleBestRequired, errs["femaleBestError"])
	assert.Equal(t, MsgMaleBestRequired, errs["maleBestError"])

	require.True(t, ValidateStep(StepBestLifters, completeState()).Valid())
}

func TestValidateStep_RequiredFieldEmptyFails(t *testing.T) {
	for step := StepContact; step <= StepMen; step++ {
		for _, slot := range StepSlots(step) {
			id := slot[:len(slot)-len("Error")]
			if slot == "leaderboardError" {
				id = FieldLeaderboardName
			}
			if id[0] == 't' {
				continue // totals are optional
			}
			s := completeState()
			s.Set(id, "")
			errs := ValidateStep(step, s)
			require.False(t, errs.Valid(), "step %d with %s empty", step, id)
			require.NotEmpty(t, errs.For(id))
		}
	}
}

func TestValidateAll(t *testing.T) {
	require.True(t, ValidateAll(completeState()).Valid())

	s := completeState()
	s.Set(FieldEmail, "")
	s.Set(FieldMaleBest, "")
	errs := ValidateAll(s)
	assert.Len(t, errs, 2)
}

func TestErrorSlot(t *testing.T) {
	assert.Equal(t, "leaderboardError", ErrorSlot(FieldLeaderboardName))
	assert.Equal(t, "emailError", ErrorSlot(FieldEmail))
	assert.Equal(t, "c84pwError", ErrorSlot("c84pw"))
}
