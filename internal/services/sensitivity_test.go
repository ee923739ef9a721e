package services

import "testing"

func TestClassify(t *testing.T) {
	r := &ScoreRange{Low: [2]int{3, 4}, Medium: [2]int{5, 7}, High: [2]int{8, 9}}
	cases := []struct {
		score int
		want  Tier
	}{
		{3, TierLow},
		{4, TierLow},
		{5, TierMedium},
		{6, TierMedium},
		{7, TierMedium},
		{8, TierHigh},
		{9, TierHigh},
		{2, TierOutOfRange},
		{10, TierOutOfRange},
		{0, TierOutOfRange},
	}
	for _, c := range cases {
		if got := Classify(c.score, r); got != c.want {
			t.Fatalf("Classify(%d)=%s, want %s", c.score, got, c.want)
		}
	}
}

func TestClassifyMissingRange(t *testing.T) {
	if got := Classify(5, nil); got != TierNotApplicable {
		t.Fatalf("Classify without range = %s, want %s", got, TierNotApplicable)
	}
}

func TestClassifyGapIsNotConflatedWithMissingConfig(t *testing.T) {
	// A gap between intervals is a data inconsistency, not missing
	// configuration. The two diagnostics must stay distinguishable.
	gapped := &ScoreRange{Low: [2]int{1, 2}, Medium: [2]int{5, 6}, High: [2]int{8, 9}}
	got := Classify(3, gapped)
	if got != TierOutOfRange {
		t.Fatalf("Classify in gap = %s, want %s", got, TierOutOfRange)
	}
	if got == TierNotApplicable {
		t.Fatalf("gap classified as not-applicable")
	}
	if Classify(3, nil) == TierOutOfRange {
		t.Fatalf("missing range classified as out-of-range")
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// Overlapping intervals are a configuration mistake, but the
	// contract is still deterministic: low, then medium, then high.
	overlap := &ScoreRange{Low: [2]int{1, 5}, Medium: [2]int{5, 7}, High: [2]int{7, 9}}
	if got := Classify(5, overlap); got != TierLow {
		t.Fatalf("Classify(5)=%s, want %s", got, TierLow)
	}
	if got := Classify(7, overlap); got != TierMedium {
		t.Fatalf("Classify(7)=%s, want %s", got, TierMedium)
	}
}
