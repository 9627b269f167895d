package entry

import "strconv"

// confidenceValues is "1".."16".
var confidenceValues = func() []string {
	v := make([]string, MaxConfidence)
	for i := range v {
		v[i] = strconv.Itoa(i + 1)
	}
	return v
}()

// ValidConfidence reports whether v is one of the ranks "1".."16".
func ValidConfidence(v string) bool {
	n, err := strconv.Atoi(v)
	return err == nil && n >= 1 && n <= MaxConfidence && strconv.Itoa(n) == v
}

// ConfidenceOptions computes the option list of every confidence field from
// the current selections. Each list starts with the blank placeholder "",
// followed by every rank that this field holds or that no field holds.
// The result depends only on the selections, so repeated calls agree.
func ConfidenceOptions(s FormState) map[string][]string {
	ids := ConfidenceIDs()
	chosen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if v := s.Get(id); v != "" {
			chosen[v] = true
		}
	}

	options := make(map[string][]string, len(ids))
	for _, id := range ids {
		current := s.Get(id)
		opts := []string{""}
		for _, v := range confidenceValues {
			if v == current || !chosen[v] {
				opts = append(opts, v)
			}
		}
		options[id] = opts
	}
	return options
}

// ConfidenceConflicts returns the confidence fields whose rank is already
// held by an earlier field in display order. Interactive selection cannot
// produce conflicts; restored data can.
func ConfidenceConflicts(s FormState) map[string]bool {
	seen := make(map[string]bool)
	conflicts := make(map[string]bool)
	for _, id := range ConfidenceIDs() {
		v := s.Get(id)
		if v == "" {
			continue
		}
		if seen[v] {
			conflicts[id] = true
			continue
		}
		seen[v] = true
	}
	return conflicts
}
