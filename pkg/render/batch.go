package render

import (
	"strconv"

	"github.com/papercomputeco/similicana/pkg/card"
	"github.com/papercomputeco/similicana/pkg/decklist"
)

// CompactCard is the condensed card used in batch results.
type CompactCard struct {
	Name     string
	ImageURL string
	Overall  string
	Scores   []Score
	Action   Action
}

// BatchGroup is the collapsible section for one source card.
type BatchGroup struct {
	ID     string
	Source string
	Cards  []CompactCard

	// Collapsed hides Cards. Groups start expanded.
	Collapsed bool
}

// Chevron returns the toggle indicator for the group: ▼ to expand a
// collapsed group, ▲ to collapse an expanded one. The page script flips it
// the same way.
func (g BatchGroup) Chevron() string {
	if g.Collapsed {
		return "▼"
	}
	return "▲"
}

// Toggle flips the group's visibility.
func (g *BatchGroup) Toggle() {
	g.Collapsed = !g.Collapsed
}

// BatchView is the rendered result of a batch search.
type BatchView struct {
	Groups []BatchGroup
}

// Batch builds one group per result in backend order.
func Batch(results []card.SimilarResponse) BatchView {
	view := BatchView{Groups: make([]BatchGroup, 0, len(results))}
	for i, r := range results {
		group := BatchGroup{ID: groupID(i)}
		if r.TargetCard != nil {
			group.Source = r.TargetCard.Name()
		}
		for _, c := range r.SimilarCards {
			group.Cards = append(group.Cards, Compact(c))
		}
		view.Groups = append(view.Groups, group)
	}
	return view
}

// Compact builds the compact card for a similar card.
func Compact(c card.Card) CompactCard {
	cc := CompactCard{
		Name:     c.Name(),
		ImageURL: c.ImageURL,
		Overall:  Percent(c.OverallSimilarity),
		Action:   Action{SimpleName: simpleName(c)},
	}
	for _, f := range card.CompactFactors {
		cc.Scores = append(cc.Scores, Score{Factor: f, Label: f.CompactLabel(), Percent: WholePercent(c.Score(f))})
	}
	return cc
}

// DeckView is the rendered result of a deck analysis.
type DeckView struct {
	// AnalysisHTML is the backend supplied analysis markup.
	AnalysisHTML string
	Entries      []card.DeckEntry
	CardCount    int
	Export       string
}

// Deck builds the deck view.
func Deck(analysis *card.DeckAnalysis) DeckView {
	if analysis == nil {
		return DeckView{}
	}
	return DeckView{
		AnalysisHTML: analysis.HTML,
		Entries:      analysis.FinalDeck,
		CardCount:    decklist.CardCount(analysis.FinalDeck),
		Export:       decklist.Export(analysis.FinalDeck),
	}
}

func groupID(i int) string {
	return "group-" + strconv.Itoa(i)
}
