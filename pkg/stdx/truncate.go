package stdx

import "unicode/utf8"

// Truncate cuts s to at most limit bytes and marks the cut with an ellipsis. The cut
// never splits a multi-byte rune. A limit of zero or less keeps the whole string.
func Truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
