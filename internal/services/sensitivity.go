package services

// Tier is the sensitivity classification derived from a category total.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
	// TierNotApplicable means the category has no configured score range.
	TierNotApplicable Tier = "na"
	// TierOutOfRange means a range is configured but the score falls in
	// none of its intervals. Kept distinct from N/A so a configuration
	// inconsistency stays visible instead of looking like missing config.
	TierOutOfRange Tier = "out_of_range"
)

// Classify maps a category total onto a sensitivity tier using the
// category's configured range. Intervals are inclusive on both ends and
// tested low, medium, high; first match wins.
func Classify(score int, r *ScoreRange) Tier {
	if r == nil {
		return TierNotApplicable
	}
	switch {
	case score >= r.Low[0] && score <= r.Low[1]:
		return TierLow
	case score >= r.Medium[0] && score <= r.Medium[1]:
		return TierMedium
	case score >= r.High[0] && score <= r.High[1]:
		return TierHigh
	}
	return TierOutOfRange
}
