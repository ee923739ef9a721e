package utils

import "testing"

func TestDetermineLocale_QueryParamWins(t *testing.T) {
	got := DetermineLocale("ko-KR", "en-US,en;q=0.9,ko;q=0.8", []string{"en", "ko"}, "en")
	if got != "ko" {
		t.Fatalf("want ko, got %s", got)
	}
}

func TestDetermineLocale_AcceptLanguageOrder(t *testing.T) {
	got := DetermineLocale("", "en-US,en;q=0.9,ko;q=0.8", []string{"en", "ko"}, "en")
	if got != "en" {
		t.Fatalf("want en, got %s", got)
	}
}

func TestDetermineLocale_AcceptLanguagePrefersHigherQ(t *testing.T) {
	got := DetermineLocale("", "ko;q=0.9,en;q=0.8", []string{"en", "ko"}, "en")
	if got != "ko" {
		t.Fatalf("want ko, got %s", got)
	}
}

func TestDetermineLocale_DefaultFallback(t *testing.T) {
	got := DetermineLocale("", "fr-FR,es;q=0.9", []string{"en", "ko"}, "en")
	if got != "en" {
		t.Fatalf("want en fallback, got %s", got)
	}
}
