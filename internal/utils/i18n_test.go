package utils

import "testing"

func TestT_Fallback(t *testing.T) {
	if got := T("fr", "health.ok"); got != "ok" {
		t.Fatalf("fallback to en failed: %s", got)
	}
}

func TestTierLabel(t *testing.T) {
	if got := TierLabel("ko", "high"); got != "높음" {
		t.Fatalf("ko high label = %s", got)
	}
	if got := TierLabel("en", "out_of_range"); got != "Range error" {
		t.Fatalf("en out_of_range label = %s", got)
	}
	if got := TierLabel("fr", "low"); got != "Low" {
		t.Fatalf("fallback label = %s", got)
	}
}
