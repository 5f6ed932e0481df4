package ui

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	// 3-byte runes; any cut between byte 1 and 2 of a rune is invalid.
	abstract := strings.Repeat("研", 100)

	for _, max := range []int{239, 240, 241, 300} {
		got := truncate(abstract, max)
		if !utf8.ValidString(got) {
			t.Errorf("truncate(_, %d) produced invalid UTF-8: %q", max, got)
		}
		if len(got) > max+len("...") {
			t.Errorf("truncate(_, %d) kept %d bytes", max, len(got))
		}
	}
}

func TestTruncateLeavesShortStringsAlone(t *testing.T) {
	if got := truncate("short", 240); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
}

func TestPaperMetaSkipsEmptyParts(t *testing.T) {
	if got := paperMeta("", 0, 0); got != "" {
		t.Errorf("paperMeta with no parts = %q", got)
	}
	got := paperMeta("Doe et al.", 2021, 14)
	for _, part := range []string{"Doe et al.", "2021", "14 citations"} {
		if !strings.Contains(got, part) {
			t.Errorf("paperMeta missing %q: %q", part, got)
		}
	}
}
