package render_test

import (
	"bytes"

	"github.com/charmbracelet/x/ansi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/similicana/pkg/card"
	"github.com/papercomputeco/similicana/pkg/render"
	testutils "github.com/papercomputeco/similicana/pkg/utils/test"
)

var _ = Describe("output formats", func() {
	var view render.ResultView

	BeforeEach(func() {
		target := testutils.NewCard("Stitch - Rock Star", "Amber", 6, 3, 5, 3)
		similar := testutils.WithSimilarity(testutils.NewCard("Stitch - Carefree Surfer", "Amber-Sapphire", 7, 4, 8, 2), 0.66,
			map[card.Factor]float64{card.FactorAbility: 0.7})
		view = render.Results(target, []card.Card{similar}, render.PageSingle)
	})

	Describe("Text", func() {
		It("draws the target, scores, deltas and hints", func() {
			out := ansi.Strip(render.Text(view, 0))
			Expect(out).To(ContainSubstring("Target card"))
			Expect(out).To(ContainSubstring("Similar cards (1)"))
			Expect(out).To(ContainSubstring("Overall Similarity: 66.0%"))
			Expect(out).To(ContainSubstring("Cost: 7 (+1)"))
			Expect(out).To(ContainSubstring("Lore: 2 (-1)"))
			Expect(out).To(ContainSubstring("Color: Amber / Sapphire"))
			Expect(out).To(ContainSubstring("[70.0% similar]"))
			Expect(out).To(ContainSubstring(render.PriceLinkText))
			Expect(out).To(ContainSubstring(render.ClickHint))
		})

		It("says when nothing is similar", func() {
			view.Similar = nil
			Expect(ansi.Strip(render.Text(view, 60))).To(ContainSubstring("No similar cards found."))
		})
	})

	Describe("HTML", func() {
		It("renders the results fragment with escaped values", func() {
			view.Similar[0].Name = "<Stitch>"

			var buf bytes.Buffer
			Expect(render.HTML(&buf, "results", view)).To(Succeed())
			out := buf.String()
			Expect(out).To(ContainSubstring(`class="card-display target-card"`))
			Expect(out).To(ContainSubstring("Overall Similarity: 66.0%"))
			Expect(out).To(ContainSubstring(`data-tooltip="70.0% similar"`))
			Expect(out).To(ContainSubstring(`<span class="value-difference positive">(&#43;1)</span>`))
			Expect(out).To(ContainSubstring(`class="dual-color"`))
			Expect(out).To(ContainSubstring(`href="/?card=stitch&#43;-&#43;carefree&#43;surfer"`))
			Expect(out).To(ContainSubstring("&lt;Stitch&gt;"))
			Expect(out).To(ContainSubstring(render.ClickHint))
		})

		It("passes backend deck markup through and shows the export", func() {
			deck := render.Deck(&card.DeckAnalysis{HTML: "<h2>Curve</h2>", FinalDeck: []card.DeckEntry{{Name: "Be Prepared", FinalCount: 2}}})

			var buf bytes.Buffer
			Expect(render.HTML(&buf, "deck", deck)).To(Succeed())
			Expect(buf.String()).To(ContainSubstring("<h2>Curve</h2>"))
			Expect(buf.String()).To(ContainSubstring("<pre>2 Be Prepared</pre>"))
		})

		It("marks expanded groups ▲ and collapsed groups ▼", func() {
			target := testutils.NewCard("Elsa - Snow Queen", "Amethyst", 8, 4, 6, 3)
			anna := testutils.WithSimilarity(testutils.NewCard("Anna - Heir to Arendelle", "Amber", 3, 2, 3, 1), 0.7, nil)
			batch := render.Batch([]card.SimilarResponse{
				{TargetCard: &target, SimilarCards: []card.Card{anna}},
				{TargetCard: &target},
			})
			batch.Groups[1].Toggle()

			var buf bytes.Buffer
			Expect(render.HTML(&buf, "batch", batch)).To(Succeed())
			out := buf.String()
			Expect(out).To(ContainSubstring(`aria-expanded="true">
      <span>Similar to Elsa - Snow Queen</span>
      <span class="toggle-icon">▲</span>`))
			Expect(out).To(ContainSubstring(`aria-expanded="false">
      <span>Similar to Elsa - Snow Queen</span>
      <span class="toggle-icon">▼</span>`))
			Expect(out).To(ContainSubstring(`class="similar-cards-grid hidden" id="` + batch.Groups[1].ID + `"`))
		})

		It("fails for an unknown fragment", func() {
			var buf bytes.Buffer
			Expect(render.HTML(&buf, "nope", view)).To(HaveOccurred())
		})
	})

	Describe("Markdown", func() {
		It("writes attribute and breakdown tables", func() {
			md := render.Markdown(view)
			Expect(md).To(HavePrefix("# Stitch - Rock Star\n"))
			Expect(md).To(ContainSubstring("## 1. Stitch - Carefree Surfer (66.0%)"))
			Expect(md).To(ContainSubstring("| Cost | 7 (+1) |"))
			Expect(md).To(ContainSubstring("| Ability | 70.0% |"))
		})

		It("writes batch groups as tables", func() {
			target := testutils.NewCard("Stitch - Rock Star", "Amber", 6, 3, 5, 3)
			similar := testutils.WithSimilarity(testutils.NewCard("Lilo | Galactic Hero", "Amber", 2, 1, 3, 1), 0.5, nil)
			md := render.BatchMarkdown(render.Batch([]card.SimilarResponse{{TargetCard: &target, SimilarCards: []card.Card{similar}}}))
			Expect(md).To(ContainSubstring("## Similar to Stitch - Rock Star"))
			Expect(md).To(ContainSubstring("| Card | Overall | Ability | Mechanics | Cost |"))
			Expect(md).To(ContainSubstring(`| Lilo \| Galactic Hero | 50.0% | 0% | 0% | 0% |`))
		})
	})
})
