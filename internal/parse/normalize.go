package parse

import (
	"regexp"
	"strings"
)

var (
	reCR         = regexp.MustCompile(`\r+`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
)

// Normalize collapses noisy whitespace ahead of pattern matching: NBSP
// becomes a plain space, runs of spaces/tabs collapse to one space, carriage
// returns are dropped, and the result is trimmed. Line breaks survive.
// Idempotent: normalizing already-normalized text is a no-op.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, " ", " ")
	s = reCR.ReplaceAllString(s, "")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
