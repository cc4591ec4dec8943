package llm

import (
	"strings"
	"testing"
)

func TestSanitizeTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Fix importer tests", "Fix importer tests"},
		{"\"Quoted title\"", "Quoted title"},
		{"1. Numbered title", "Numbered title"},
		{"- Bulleted title", "Bulleted title"},
		{"\n\n  spaced  \n", "spaced"},
		{"", ""},
		{"   \n\t\n", ""},
	}
	for _, c := range cases {
		if got := SanitizeTitle(c.in); got != c.want {
			t.Fatalf("SanitizeTitle(%q) = %q, want %q", c.in, got, c.want)
		}
	}

	long := strings.Repeat("word ", 20)
	if got := SanitizeTitle(long); len([]rune(got)) != titleMaxRunes {
		t.Fatalf("long title not truncated: %q (%d runes)", got, len([]rune(got)))
	}
}
