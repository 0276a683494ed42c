package utils

import "strings"

// Truncate collapses runs of whitespace in s and shortens the result to
// maxLen runes, marking the cut with an ellipsis.
func Truncate(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if maxLen < 0 || len(runes) <= maxLen {
		return s
	}
	return strings.TrimRight(string(runes[:maxLen]), " ") + "..."
}
