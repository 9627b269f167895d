package entry

// Candidates holds the best-lifter options per gender.
type Candidates struct {
	Female []string
	Male   []string
}

// For returns the list for a gender.
func (c Candidates) For(g Gender) []string {
	if g == Female {
		return c.Female
	}
	return c.Male
}

// BestLifterCandidates collects the distinct chosen winners of each gender in
// first-seen order across the winner fields.
func BestLifterCandidates(s FormState) Candidates {
	var c Candidates
	seen := map[Gender]map[string]bool{Female: {}, Male: {}}
	for _, wc := range AllClasses() {
		name := s.Get(wc.WinnerID())
		if name == "" || seen[wc.Gender][name] {
			continue
		}
		seen[wc.Gender][name] = true
		if wc.Gender == Female {
			c.Female = append(c.Female, name)
		} else {
			c.Male = append(c.Male, name)
		}
	}
	return c
}
