package services

// CohortStats summarizes completion across a cohort for a set of weeks.
type CohortStats struct {
	Total       int         `json:"total"`
	PerWeek     map[int]int `json:"per_week"`
	AllComplete int         `json:"all_complete"`
}

// ComputeCohortStats counts, per requested week, the participants with
// a submitted record of the given kind, plus how many submitted every
// requested week. Submission (a set timestamp) is the completion
// signal; content fullness is already gated at submit time. Weeks in
// the response trees but not in weeks are ignored. An empty cohort
// yields all zeros.
func ComputeCohortStats(participants []*Participant, responses map[string]ResponseTree, weeks []int, kind Kind) CohortStats {
	stats := CohortStats{Total: len(participants), PerWeek: make(map[int]int, len(weeks))}
	for _, w := range weeks {
		stats.PerWeek[w] = 0
	}
	for _, p := range participants {
		tree := responses[p.ID]
		all := len(weeks) > 0
		for _, w := range weeks {
			if tree.Week(w, kind).Submitted() {
				stats.PerWeek[w]++
			} else {
				all = false
			}
		}
		if all {
			stats.AllComplete++
		}
	}
	return stats
}
