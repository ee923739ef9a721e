package services

// CategoryTotal sums the answer values of a stored category response.
// Unanswered questions count as 0. Safe on nil.
func CategoryTotal(cr *CategoryResponse) int {
	if cr == nil {
		return 0
	}
	sum := 0
	for _, a := range cr.Questions {
		sum += a.Value
	}
	return sum
}

// AnswerAt returns the stored answer for a template question index.
// A response shorter than the template (data drift) yields the
// unanswered default rather than panicking.
func AnswerAt(cr *CategoryResponse, idx int) Answer {
	if cr == nil || idx < 0 || idx >= len(cr.Questions) {
		return Answer{}
	}
	return cr.Questions[idx]
}
