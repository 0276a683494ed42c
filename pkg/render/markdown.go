package render

import (
	"fmt"
	"strings"
)

// Markdown writes a result view as markdown, for glamour or for pasting.
func Markdown(view ResultView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", view.Target.Name)
	writeAttributeTable(&b, view.Target)

	if len(view.Similar) == 0 {
		b.WriteString("\n_No similar cards found._\n")
		return b.String()
	}

	for i, c := range view.Similar {
		fmt.Fprintf(&b, "\n## %d. %s (%s%%)\n\n", i+1, c.Name, c.Overall)
		writeAttributeTable(&b, c)
		if len(c.Breakdown) > 0 {
			b.WriteString("\n| Factor | Similarity |\n|---|---|\n")
			for _, s := range c.Breakdown {
				fmt.Fprintf(&b, "| %s | %s%% |\n", s.Label, s.Percent)
			}
		}
		if c.CardTraderURL != "" {
			fmt.Fprintf(&b, "\n[%s](%s)\n", PriceLinkText, c.CardTraderURL)
		}
	}
	return b.String()
}

// BatchMarkdown writes batch results as one section per source card.
func BatchMarkdown(view BatchView) string {
	var b strings.Builder
	for _, g := range view.Groups {
		fmt.Fprintf(&b, "## Similar to %s\n\n", g.Source)
		if len(g.Cards) == 0 {
			b.WriteString("_No similar cards found._\n\n")
			continue
		}
		header := []string{"Card", "Overall"}
		for _, s := range g.Cards[0].Scores {
			header = append(header, s.Label)
		}
		fmt.Fprintf(&b, "| %s |\n|%s\n", strings.Join(header, " | "), strings.Repeat("---|", len(header)))
		for _, c := range g.Cards {
			row := []string{escapeCell(c.Name), c.Overall + "%"}
			for _, s := range c.Scores {
				row = append(row, s.Percent+"%")
			}
			fmt.Fprintf(&b, "| %s |\n", strings.Join(row, " | "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeAttributeTable(b *strings.Builder, c CardView) {
	b.WriteString("| Attribute | Value |\n|---|---|\n")
	for _, a := range c.Attributes {
		value := a.Value
		if len(a.Colors) > 0 {
			value = strings.Join(a.Colors, " / ")
		}
		if a.Delta != "" {
			value += " " + a.Delta
		}
		fmt.Fprintf(b, "| %s | %s |\n", a.Label, escapeCell(value))
	}
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
