// Package render turns backend responses into comparative view models and
// draws them as terminal text, HTML fragments or markdown.
package render

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/papercomputeco/similicana/pkg/card"
)

const (
	// ClickHint is shown under every similar card image.
	ClickHint = "Click to find similar cards"

	// PriceLinkText labels the CardTrader link.
	PriceLinkText = "Check price on CardTrader"

	noMechanics = "None"
)

// Page identifies where a card is rendered. It decides whether the find
// similar action re-searches in place or navigates to the single-card page.
type Page string

const (
	PageSingle Page = "single"
	PageBatch  Page = "batch"
	PageDeck   Page = "deck"
)

// Action is the "find similar" affordance of a similar card.
type Action struct {
	SimpleName string

	// InPlace is true on the single-card page, where choosing the action
	// re-runs the search without leaving the page.
	InPlace bool
}

// Href returns the single-card page link for the action.
func (a Action) Href() string {
	return "/?card=" + url.QueryEscape(a.SimpleName)
}

// Attribute is one labelled value on a card.
type Attribute struct {
	Label string
	Value string

	// Colors holds the stacked labels of a dual color. It is nil for every
	// other attribute.
	Colors []string

	// Delta is the signed difference to the target, such as "(+2)". Empty
	// when not applicable.
	Delta string

	// Tooltip is "<pct>% similar" for the attribute's factor, or empty.
	Tooltip string
}

// Positive reports whether Delta is an increase.
func (a Attribute) Positive() bool {
	return strings.HasPrefix(a.Delta, "(+")
}

// Score is one factor of the similarity breakdown.
type Score struct {
	Factor  card.Factor
	Label   string
	Percent string
}

// CardView is a fully rendered card.
type CardView struct {
	Name          string
	SimpleName    string
	ImageURL      string
	CardTraderURL string

	// Target is true for the searched card, which has no score or diffs.
	Target bool

	// Overall is the overall similarity with one decimal, e.g. "81.2".
	Overall string

	Attributes []Attribute
	Breakdown  []Score
	Action     *Action
}

// ResultView is a target card and its similar cards in backend order.
type ResultView struct {
	Target  CardView
	Similar []CardView
}

// Results builds the comparative view of a single-card search.
func Results(target card.Card, similar []card.Card, page Page) ResultView {
	view := ResultView{
		Target:  buildCard(target, nil, page),
		Similar: make([]CardView, 0, len(similar)),
	}
	for _, c := range similar {
		view.Similar = append(view.Similar, buildCard(c, &target.Details, page))
	}
	return view
}

// attributeField ties a printed attribute to its similarity factor.
type attributeField struct {
	label  string
	factor card.Factor
	value  func(d card.Details) string
	stat   func(d card.Details) card.Stat
}

var attributeFields = []attributeField{
	{label: "Name", value: func(d card.Details) string { return d.FullName }},
	{label: "Color", factor: card.FactorInkColor, value: func(d card.Details) string { return strings.Join(d.Colors(), " / ") }},
	{label: "Cost", factor: card.FactorInkCost, stat: func(d card.Details) card.Stat { return d.Cost }},
	{label: "Strength", factor: card.FactorStrength, stat: func(d card.Details) card.Stat { return d.Strength }},
	{label: "Willpower", factor: card.FactorWillpower, stat: func(d card.Details) card.Stat { return d.Willpower }},
	{label: "Lore", factor: card.FactorLorePoints, stat: func(d card.Details) card.Stat { return d.Lore }},
	{label: "Text", factor: card.FactorAbility, value: func(d card.Details) string { return d.FullText }},
	{label: "Mechanics", factor: card.FactorMechanics, value: formatMechanics},
}

// buildCard renders c. target is nil when c is itself the target.
func buildCard(c card.Card, target *card.Details, page Page) CardView {
	view := CardView{
		Name:          c.Name(),
		SimpleName:    simpleName(c),
		ImageURL:      c.ImageURL,
		CardTraderURL: c.CardTraderURL,
		Target:        target == nil,
	}

	for _, field := range attributeFields {
		attr := Attribute{Label: field.label}
		switch {
		case field.stat != nil:
			s := field.stat(c.Details)
			attr.Value = s.String()
			if target != nil {
				attr.Delta = FormatDelta(field.stat(*target), s)
			}
		default:
			attr.Value = field.value(c.Details)
		}
		if field.factor == card.FactorInkColor {
			if colors := c.Details.Colors(); len(colors) > 1 {
				attr.Colors = colors
			}
		}
		if field.factor != "" && target != nil {
			attr.Tooltip = Tooltip(c.Score(field.factor))
		}
		view.Attributes = append(view.Attributes, attr)
	}

	if target == nil {
		return view
	}

	view.Overall = Percent(c.OverallSimilarity)
	for _, f := range card.Factors {
		view.Breakdown = append(view.Breakdown, Score{Factor: f, Label: f.Label(), Percent: Percent(c.Score(f))})
	}
	view.Action = &Action{SimpleName: view.SimpleName, InPlace: page == PageSingle}

	return view
}

// Percent formats a score as a percentage with one decimal. Scores outside
// [0,1] are clamped.
func Percent(score float64) string {
	return fmt.Sprintf("%.1f", unit(score)*100)
}

// WholePercent formats a score as a clamped whole percentage.
func WholePercent(score float64) string {
	return fmt.Sprintf("%.0f", unit(score)*100)
}

func unit(score float64) float64 {
	return min(max(score, 0), 1)
}

// Tooltip returns "<pct>% similar", or "" for a zero score.
func Tooltip(score float64) string {
	if score <= 0 {
		return ""
	}
	return Percent(score) + "% similar"
}

// FormatDelta returns the signed difference current minus target as
// "(+2)" or "(-1)". It is empty when either side is undefined or the
// values are equal.
func FormatDelta(target, current card.Stat) string {
	d, ok := target.Delta(current)
	if !ok || d == 0 {
		return ""
	}
	if d > 0 {
		return fmt.Sprintf("(+%d)", d)
	}
	return fmt.Sprintf("(%d)", d)
}

func formatMechanics(d card.Details) string {
	if len(d.Mechanics) == 0 {
		return noMechanics
	}
	return strings.Join(d.Mechanics, ", ")
}

func simpleName(c card.Card) string {
	if c.Details.SimpleName != "" {
		return c.Details.SimpleName
	}
	return c.SimpleName
}
