package utils

// Minimal server-side i18n for fixed keys.
// UI strings should live in the frontend; server provides only essentials.

var translations = map[string]map[string]string{
	"en": {
		"health.ok":         "ok",
		"tier.low":          "Low",
		"tier.medium":       "Medium",
		"tier.high":         "High",
		"tier.na":           "N/A",
		"tier.out_of_range": "Range error",
	},
	"ko": {
		"health.ok":         "정상",
		"tier.low":          "낮음",
		"tier.medium":       "보통",
		"tier.high":         "높음",
		"tier.na":           "N/A",
		"tier.out_of_range": "범위 오류",
	},
}

// T returns the translated string for key in locale; falls back to English.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m, ok := translations["en"]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}

// TierLabel resolves the display text for a sensitivity tier value.
func TierLabel(locale, tier string) string {
	return T(locale, "tier."+tier)
}
