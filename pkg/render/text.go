package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papercomputeco/similicana/pkg/card"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	scoreStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	linkStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true)
	cardStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
	targetStyle   = cardStyle.BorderForeground(lipgloss.Color("212"))
)

// Text draws a result view for the terminal. width bounds the card boxes;
// zero leaves them unbounded.
func Text(view ResultView, width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Target card"))
	b.WriteString("\n")
	b.WriteString(CardText(view.Target, width))
	b.WriteString("\n")

	if len(view.Similar) == 0 {
		b.WriteString(dimStyle.Render("No similar cards found."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(titleStyle.Render(fmt.Sprintf("Similar cards (%d)", len(view.Similar))))
	b.WriteString("\n")
	for _, c := range view.Similar {
		b.WriteString(CardText(c, width))
		b.WriteString("\n")
	}
	return b.String()
}

// CardText draws one card box.
func CardText(c CardView, width int) string {
	var lines []string
	if !c.Target {
		lines = append(lines, scoreStyle.Render("Overall Similarity: "+c.Overall+"%"))
	}

	for _, a := range c.Attributes {
		value := a.Value
		if len(a.Colors) > 0 {
			value = strings.Join(a.Colors, " / ")
		}
		line := labelStyle.Render(a.Label+":") + " " + value
		if a.Delta != "" {
			style := negativeStyle
			if a.Positive() {
				style = positiveStyle
			}
			line += " " + style.Render(a.Delta)
		}
		if a.Tooltip != "" {
			line += " " + dimStyle.Render("["+a.Tooltip+"]")
		}
		lines = append(lines, line)
	}

	if len(c.Breakdown) > 0 {
		lines = append(lines, "", labelStyle.Render("Similarity Breakdown:"))
		for _, s := range c.Breakdown {
			lines = append(lines, fmt.Sprintf("  %-12s %6s%%", s.Label+":", s.Percent))
		}
	}

	if c.CardTraderURL != "" {
		lines = append(lines, "", linkStyle.Render(PriceLinkText)+" "+dimStyle.Render(c.CardTraderURL))
	}
	if c.Action != nil {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("%s: similicana find %q", ClickHint, c.Action.SimpleName)))
	}

	style := cardStyle
	if c.Target {
		style = targetStyle
	}
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// BatchText draws batch results. Collapsed groups only show their header.
func BatchText(view BatchView, width int) string {
	if len(view.Groups) == 0 {
		return dimStyle.Render("No results.") + "\n"
	}

	var b strings.Builder
	for _, g := range view.Groups {
		b.WriteString(titleStyle.Render(fmt.Sprintf("%s Similar to %s", g.Chevron(), g.Source)))
		b.WriteString("\n")
		if g.Collapsed {
			continue
		}
		for _, c := range g.Cards {
			b.WriteString(CompactText(c, width))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// CompactText draws a compact card on one or two lines.
func CompactText(c CompactCard, width int) string {
	scores := make([]string, 0, len(c.Scores))
	for _, s := range c.Scores {
		scores = append(scores, labelStyle.Render(s.Label+":")+" "+s.Percent+"%")
	}
	line := fmt.Sprintf("  %s %s  %s", c.Name, scoreStyle.Render(c.Overall+"%"), strings.Join(scores, "  "))
	if width > 0 {
		return lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
	return line
}

// DeckText draws the final deck table.
func DeckText(view DeckView) string {
	if len(view.Entries) == 0 {
		return dimStyle.Render("No cards in the final deck.") + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Final deck (%d cards)", view.CardCount)))
	b.WriteString("\n")
	for _, e := range view.Entries {
		b.WriteString(fmt.Sprintf("  %3d  %s\n", e.FinalCount, e.Name))
	}
	return b.String()
}

// FactorLine is a one line breakdown such as "Ability 90.0% · Cost 100.0%",
// used where a full card box does not fit.
func FactorLine(c CardView, factors []card.Factor) string {
	parts := make([]string, 0, len(factors))
	for _, s := range c.Breakdown {
		for _, f := range factors {
			if s.Factor == f {
				parts = append(parts, s.Label+" "+s.Percent+"%")
			}
		}
	}
	return strings.Join(parts, " · ")
}
