// Package decklist normalizes pasted card lists and exports resolved decks
// as plain text.
package decklist

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/papercomputeco/similicana/pkg/card"
)

// quantityPrefix matches a leading "4 " style count on a decklist line.
var quantityPrefix = regexp.MustCompile(`^\d+\s+`)

// Normalize turns free-text input into a list of card names. Each line is
// trimmed, blank lines are dropped, a leading quantity is stripped and exact
// duplicates are removed keeping the first occurrence.
func Normalize(input string) []string {
	lines := strings.Split(input, "\n")
	seen := make(map[string]struct{}, len(lines))
	names := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		name := quantityPrefix.ReplaceAllString(line, "")
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}

		seen[name] = struct{}{}
		names = append(names, name)
	}

	return names
}

// Export renders the resolved deck as one "<count> <name>" line per entry.
func Export(entries []card.DeckEntry) string {
	var sb strings.Builder
	for i, e := range entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%d %s", e.FinalCount, e.Name))
	}
	return sb.String()
}

// CardCount returns the total number of cards across entries.
func CardCount(entries []card.DeckEntry) int {
	total := 0
	for _, e := range entries {
		total += e.FinalCount
	}
	return total
}
