package render_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/similicana/pkg/card"
	"github.com/papercomputeco/similicana/pkg/render"
	testutils "github.com/papercomputeco/similicana/pkg/utils/test"
)

func attr(c render.CardView, label string) render.Attribute {
	for _, a := range c.Attributes {
		if a.Label == label {
			return a
		}
	}
	Fail("no attribute " + label)
	return render.Attribute{}
}

var _ = Describe("Results", func() {
	var (
		target  card.Card
		similar card.Card
		view    render.ResultView
	)

	BeforeEach(func() {
		target = testutils.NewCard("Mickey Mouse - True Friend", "Amber", 3, 3, 3, 2)
		similar = testutils.WithSimilarity(
			testutils.NewCard("Minnie Mouse - Beloved Princess", "Amber-Amethyst", 5, 2, 3, testutils.Undefined),
			0.8123,
			map[card.Factor]float64{card.FactorInkCost: 0.5, card.FactorAbility: 0.912, card.FactorInkColor: 0.25},
		)
		view = render.Results(target, []card.Card{similar}, render.PageSingle)
	})

	It("renders the target without score, diffs or action", func() {
		t := view.Target
		Expect(t.Target).To(BeTrue())
		Expect(t.Overall).To(BeEmpty())
		Expect(t.Breakdown).To(BeEmpty())
		Expect(t.Action).To(BeNil())
		for _, a := range t.Attributes {
			Expect(a.Delta).To(BeEmpty())
			Expect(a.Tooltip).To(BeEmpty())
		}
	})

	It("lists attributes in display order", func() {
		labels := []string{}
		for _, a := range view.Target.Attributes {
			labels = append(labels, a.Label)
		}
		Expect(labels).To(Equal([]string{"Name", "Color", "Cost", "Strength", "Willpower", "Lore", "Text", "Mechanics"}))
	})

	It("formats the overall score and breakdown with one decimal", func() {
		s := view.Similar[0]
		Expect(s.Overall).To(Equal("81.2"))
		Expect(s.Breakdown).To(HaveLen(10))
		Expect(s.Breakdown[0]).To(Equal(render.Score{Factor: card.FactorInkCost, Label: "Ink Cost", Percent: "50.0"}))
		Expect(s.Breakdown[1].Percent).To(Equal("0.0"))
	})

	It("computes signed deltas against the target", func() {
		s := view.Similar[0]
		Expect(attr(s, "Cost").Delta).To(Equal("(+2)"))
		Expect(attr(s, "Cost").Positive()).To(BeTrue())
		Expect(attr(s, "Strength").Delta).To(Equal("(-1)"))
		Expect(attr(s, "Strength").Positive()).To(BeFalse())
		Expect(attr(s, "Willpower").Delta).To(BeEmpty())
	})

	It("omits the delta when a value is undefined", func() {
		lore := attr(view.Similar[0], "Lore")
		Expect(lore.Value).To(BeEmpty())
		Expect(lore.Delta).To(BeEmpty())
	})

	It("stacks dual colors without a delta", func() {
		color := attr(view.Similar[0], "Color")
		Expect(color.Colors).To(Equal([]string{"Amber", "Amethyst"}))
		Expect(color.Value).To(Equal("Amber / Amethyst"))
		Expect(color.Delta).To(BeEmpty())
		Expect(attr(view.Target, "Color").Colors).To(BeNil())
	})

	It("adds tooltips only for nonzero scores", func() {
		s := view.Similar[0]
		Expect(attr(s, "Text").Tooltip).To(Equal("91.2% similar"))
		Expect(attr(s, "Color").Tooltip).To(Equal("25.0% similar"))
		Expect(attr(s, "Strength").Tooltip).To(BeEmpty())
		Expect(attr(s, "Name").Tooltip).To(BeEmpty())
	})

	It("joins mechanics or shows None", func() {
		Expect(attr(view.Target, "Mechanics").Value).To(Equal("Shift"))

		bare := target
		bare.Details.Mechanics = nil
		v := render.Results(bare, nil, render.PageSingle)
		Expect(attr(v.Target, "Mechanics").Value).To(Equal("None"))

		bare.Details.Mechanics = []string{"Evasive", "Ward"}
		v = render.Results(bare, nil, render.PageSingle)
		Expect(attr(v.Target, "Mechanics").Value).To(Equal("Evasive, Ward"))
	})

	It("re-searches in place on the single-card page and navigates elsewhere", func() {
		Expect(view.Similar[0].Action.InPlace).To(BeTrue())
		Expect(view.Similar[0].Action.Href()).To(Equal("/?card=minnie+mouse+-+beloved+princess"))

		other := render.Results(target, []card.Card{similar}, render.PageBatch)
		Expect(other.Similar[0].Action.InPlace).To(BeFalse())
	})
})

var _ = Describe("FormatDelta", func() {
	DescribeTable("deltas",
		func(target, current card.Stat, expected string) {
			Expect(render.FormatDelta(target, current)).To(Equal(expected))
		},
		Entry("increase", card.NewStat(3), card.NewStat(5), "(+2)"),
		Entry("decrease", card.NewStat(4), card.NewStat(3), "(-1)"),
		Entry("equal", card.NewStat(3), card.NewStat(3), ""),
		Entry("undefined target", card.Stat{}, card.NewStat(3), ""),
		Entry("undefined current", card.NewStat(3), card.Stat{}, ""),
	)
})

var _ = Describe("Percent", func() {
	DescribeTable("clamps scores to 0-100",
		func(score float64, one, whole string) {
			Expect(render.Percent(score)).To(Equal(one))
			Expect(render.WholePercent(score)).To(Equal(whole))
		},
		Entry("in range", 0.456, "45.6", "46"),
		Entry("above one", 1.2, "100.0", "100"),
		Entry("below zero", -0.3, "0.0", "0"),
	)

	It("omits the tooltip for a negative score", func() {
		Expect(render.Tooltip(-0.1)).To(BeEmpty())
	})
})

var _ = Describe("Tooltip", func() {
	It("omits zero scores", func() {
		Expect(render.Tooltip(0)).To(BeEmpty())
		Expect(render.Tooltip(0.4567)).To(Equal("45.7% similar"))
	})
})

var _ = Describe("Batch", func() {
	It("builds one collapsible group per source card with compact cards", func() {
		target := testutils.NewCard("Elsa - Snow Queen", "Amethyst", 8, 4, 6, 3)
		anna := testutils.WithSimilarity(testutils.NewCard("Anna - Heir to Arendelle", "Amber", 3, 2, 3, 1), 0.705,
			map[card.Factor]float64{card.FactorAbility: 0.904, card.FactorMechanics: 0.5, card.FactorInkCost: 0.996})

		view := render.Batch([]card.SimilarResponse{{TargetCard: &target, SimilarCards: []card.Card{anna}}})
		Expect(view.Groups).To(HaveLen(1))

		g := view.Groups[0]
		Expect(g.Source).To(Equal("Elsa - Snow Queen"))
		Expect(g.Collapsed).To(BeFalse())
		Expect(g.Chevron()).To(Equal("▲"))

		cc := g.Cards[0]
		Expect(cc.Overall).To(Equal("70.5"))
		Expect(cc.Scores).To(Equal([]render.Score{
			{Factor: card.FactorAbility, Label: "Ability", Percent: "90"},
			{Factor: card.FactorMechanics, Label: "Mechanics", Percent: "50"},
			{Factor: card.FactorInkCost, Label: "Cost", Percent: "100"},
		}))
		Expect(cc.Action.InPlace).To(BeFalse())

		g.Toggle()
		Expect(g.Collapsed).To(BeTrue())
		Expect(g.Chevron()).To(Equal("▼"))
		g.Toggle()
		Expect(g.Chevron()).To(Equal("▲"))
	})
})

var _ = Describe("Deck", func() {
	It("builds the table and export text", func() {
		view := render.Deck(&card.DeckAnalysis{
			HTML:      "<h2>Analysis</h2>",
			FinalDeck: []card.DeckEntry{{Name: "Elsa - Snow Queen", FinalCount: 4}, {Name: "Be Prepared", FinalCount: 2}},
		})
		Expect(view.CardCount).To(Equal(6))
		Expect(view.Export).To(Equal("4 Elsa - Snow Queen\n2 Be Prepared"))
		Expect(view.AnalysisHTML).To(Equal("<h2>Analysis</h2>"))
	})

	It("handles a nil analysis", func() {
		Expect(render.Deck(nil).Entries).To(BeEmpty())
	})
})
