package testutils

import (
	"strings"

	"github.com/papercomputeco/similicana/pkg/card"
)

// Undefined marks a stat the card does not have when passed to NewCard.
const Undefined = -1

// NewCard builds a card fixture. Pass Undefined for missing stats.
func NewCard(fullName, color string, cost, strength, willpower, lore int) card.Card {
	simple := strings.ToLower(fullName)
	return card.Card{
		SimpleName:    simple,
		ImageURL:      "https://images.example.com/" + strings.ReplaceAll(simple, " ", "-") + ".png",
		CardTraderURL: "https://www.cardtrader.com/cards/" + strings.ReplaceAll(simple, " ", "-"),
		Details: card.Details{
			FullName:   fullName,
			SimpleName: simple,
			Color:      color,
			Cost:       stat(cost),
			Strength:   stat(strength),
			Willpower:  stat(willpower),
			Lore:       stat(lore),
			FullText:   "Shift 5 (You may pay 5 ink to play this on top of one of your characters named " + fullName + ".)",
			Type:       "Character",
			Inkwell:    true,
			Mechanics:  []string{"Shift"},
		},
	}
}

// WithSimilarity returns c scored against a target.
func WithSimilarity(c card.Card, overall float64, scores map[card.Factor]float64) card.Card {
	c.OverallSimilarity = overall
	c.Similarities = scores
	return c
}

func stat(v int) card.Stat {
	if v == Undefined {
		return card.Stat{}
	}
	return card.NewStat(v)
}
