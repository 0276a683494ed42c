package client_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/similicana/pkg/card"
	"github.com/papercomputeco/similicana/pkg/client"
	"github.com/papercomputeco/similicana/pkg/logger"
	"github.com/papercomputeco/similicana/pkg/progress"
	"github.com/papercomputeco/similicana/pkg/utils"
	testutils "github.com/papercomputeco/similicana/pkg/utils/test"
	"github.com/papercomputeco/similicana/pkg/weights"
)

var _ = Describe("Client", func() {
	var (
		backend *testutils.MockBackend
		c       *client.Client
		ctx     context.Context
	)

	BeforeEach(func() {
		backend = testutils.NewMockBackend()
		DeferCleanup(backend.Close)

		var err error
		c, err = client.New(backend.URL()+"/", client.WithLogger(logger.Nop()))
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()

		elsa := testutils.NewCard("Elsa - Snow Queen", "Amethyst", 8, 4, 6, 3)
		anna := testutils.WithSimilarity(testutils.NewCard("Anna - Heir to Arendelle", "Amber-Amethyst", 3, 2, 3, 1), 0.71, map[card.Factor]float64{card.FactorAbility: 0.9})
		olaf := testutils.WithSimilarity(testutils.NewCard("Olaf - Friendly Snowman", "Amethyst", 1, 1, 2, 1), 0.52, nil)
		backend.AddCard(elsa, anna, olaf)
	})

	Describe("New", func() {
		It("rejects URLs that are not http", func() {
			_, err := client.New("ftp://cards")
			Expect(err).To(MatchError(ContainSubstring("must use http or https")))
			_, err = client.New("http://")
			Expect(err).To(MatchError(ContainSubstring("no host")))
		})

		It("trims the trailing slash", func() {
			Expect(c.BaseURL()).To(Equal(backend.URL()))
		})
	})

	Describe("Ready", func() {
		It("reports the backend status", func() {
			ready, err := c.Ready(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(ready).To(BeTrue())

			backend.Set(func(b *testutils.MockBackend) { b.Ready = false })
			ready, err = c.Ready(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(ready).To(BeFalse())
		})

		It("identifies itself on every request", func() {
			_, err := c.Ready(ctx)
			Expect(err).NotTo(HaveOccurred())

			var header http.Header
			backend.Set(func(b *testutils.MockBackend) { header = b.LastHeader })
			Expect(header.Get("User-Agent")).To(Equal(utils.UserAgent()))
			Expect(header.Get("X-Request-ID")).NotTo(BeEmpty())
		})

		It("wraps transport failures", func() {
			backend.Close()
			_, err := c.Ready(ctx)
			Expect(err).To(MatchError(ContainSubstring("/status")))
			Expect(client.IsAPIError(err)).To(BeFalse())
		})
	})

	Describe("SearchCards", func() {
		It("posts the term as a form", func() {
			matches, err := c.SearchCards(ctx, "elsa")
			Expect(err).NotTo(HaveOccurred())
			Expect(matches).To(HaveLen(1))
			Expect(matches[0].Name).To(Equal("Elsa - Snow Queen"))

			backend.Set(func(b *testutils.MockBackend) {
				Expect(b.LastForm).To(HaveKeyWithValue("search_term", "elsa"))
			})
		})

		It("returns an empty list for short terms", func() {
			matches, err := c.SearchCards(ctx, "e")
			Expect(err).NotTo(HaveOccurred())
			Expect(matches).NotTo(BeNil())
			Expect(matches).To(BeEmpty())
		})
	})

	Describe("FindSimilar", func() {
		It("returns the target and similar cards", func() {
			resp, err := c.FindSimilar(ctx, "Elsa - Snow Queen", 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.TargetCard.Name()).To(Equal("Elsa - Snow Queen"))
			Expect(resp.SimilarCards).To(HaveLen(2))
			Expect(resp.SimilarCards[0].Score(card.FactorAbility)).To(Equal(0.9))
			Expect(resp.SimilarCards[0].Details.Colors()).To(Equal([]string{"Amber", "Amethyst"}))

			backend.Set(func(b *testutils.MockBackend) {
				Expect(b.LastForm).To(HaveKeyWithValue("result_count", "5"))
			})
		})

		It("limits results to the requested count", func() {
			resp, err := c.FindSimilar(ctx, "elsa - snow queen", 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.SimilarCards).To(HaveLen(1))
		})

		It("returns the backend message verbatim as an APIError", func() {
			_, err := c.FindSimilar(ctx, "Missing Card", 5)
			var apiErr *client.APIError
			Expect(errors.As(err, &apiErr)).To(BeTrue())
			Expect(apiErr.Error()).To(Equal("Card 'missing card' not found"))
			Expect(apiErr.Detail()).To(ContainSubstring("/find_similar"))
		})

		It("reads error messages from failed statuses", func() {
			backend.Set(func(b *testutils.MockBackend) {
				b.Status = http.StatusServiceUnavailable
				b.StatusBody = `{"error": "System is still initializing, please wait..."}`
			})
			_, err := c.FindSimilar(ctx, "elsa", 5)
			Expect(client.IsAPIError(err)).To(BeTrue())
			Expect(err.Error()).To(Equal("System is still initializing, please wait..."))
		})

		It("wraps ErrUnexpectedStatus for bare failures", func() {
			backend.Set(func(b *testutils.MockBackend) { b.Status = http.StatusBadGateway })
			_, err := c.FindSimilar(ctx, "elsa", 5)
			Expect(err).To(MatchError(client.ErrUnexpectedStatus))
			Expect(err.Error()).To(ContainSubstring("502"))
		})
	})

	Describe("FindSimilarBatch", func() {
		It("returns one group per found card", func() {
			results, err := c.FindSimilarBatch(ctx, []string{"Elsa - Snow Queen", "Nobody"}, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].SimilarCards).To(HaveLen(2))

			backend.Set(func(b *testutils.MockBackend) {
				Expect(b.LastJSON).To(HaveKeyWithValue("result_count", BeNumerically("==", 2)))
			})
		})

		It("turns an error object into an APIError", func() {
			backend.Set(func(b *testutils.MockBackend) { b.BatchError = "No cards provided" })
			_, err := c.FindSimilarBatch(ctx, nil, 5)
			Expect(client.IsAPIError(err)).To(BeTrue())
			Expect(err.Error()).To(Equal("No cards provided"))
		})
	})

	Describe("AnalyzeDeck", func() {
		It("decodes the analysis and final deck", func() {
			backend.Set(func(b *testutils.MockBackend) {
				b.Deck = map[string]any{
					"html":       "<p>Deck looks good</p>",
					"final_deck": []map[string]any{{"name": "Elsa - Snow Queen", "final_count": 4, "image_url": "x"}},
				}
			})

			analysis, err := c.AnalyzeDeck(ctx, "4 Elsa - Snow Queen", true)
			Expect(err).NotTo(HaveOccurred())
			Expect(analysis.HTML).To(Equal("<p>Deck looks good</p>"))
			Expect(analysis.FinalDeck).To(Equal([]card.DeckEntry{{Name: "Elsa - Snow Queen", FinalCount: 4, ImageURL: "x"}}))

			backend.Set(func(b *testutils.MockBackend) {
				Expect(b.LastJSON).To(HaveKeyWithValue("decklist", "4 Elsa - Snow Queen"))
				Expect(b.LastJSON).To(HaveKeyWithValue("ignoreCollection", true))
			})
		})

		It("reports a final deck that is not a list but keeps the HTML", func() {
			backend.Set(func(b *testutils.MockBackend) {
				b.Deck = map[string]any{"html": "<p>partial</p>", "final_deck": "oops"}
			})

			analysis, err := c.AnalyzeDeck(ctx, "Elsa", false)
			Expect(err).To(MatchError(client.ErrUnexpectedDeckFormat))
			Expect(analysis.HTML).To(Equal("<p>partial</p>"))
		})

		It("returns the backend error", func() {
			backend.Set(func(b *testutils.MockBackend) {
				b.Deck = map[string]any{"error": "Decklist is empty"}
			})
			_, err := c.AnalyzeDeck(ctx, "", false)
			Expect(err).To(MatchError("Decklist is empty"))
		})
	})

	Describe("UpdateWeights", func() {
		It("posts the vector keyed by factor", func() {
			Expect(c.UpdateWeights(ctx, weights.Defaults())).To(Succeed())
			backend.Set(func(b *testutils.MockBackend) {
				Expect(b.Weights).To(HaveKeyWithValue("ability", 0.24))
				Expect(b.Weights).To(HaveLen(10))
			})
		})

		It("rejects an invalid vector without a request", func() {
			v := weights.Defaults()
			v[card.FactorAbility] = 0.9
			Expect(c.UpdateWeights(ctx, v)).To(MatchError(weights.ErrInvalidWeights))
			Expect(backend.Count("/update_weights")).To(BeZero())
		})

		It("surfaces a backend rejection", func() {
			backend.Set(func(b *testutils.MockBackend) { b.WeightsError = "Weights must sum to 1.0" })
			err := c.UpdateWeights(ctx, weights.Defaults())
			Expect(err).To(MatchError("Weights must sum to 1.0"))
		})
	})

	Describe("Stream and ProgressSource", func() {
		BeforeEach(func() {
			backend.Set(func(b *testutils.MockBackend) {
				b.Progress[progress.JobDeck] = []progress.Update{{Current: 1, Total: 2}, {Current: 2, Total: 2}}
			})
		})

		It("opens the raw stream", func() {
			body, err := c.Stream(ctx, progress.JobDeck)
			Expect(err).NotTo(HaveOccurred())
			defer body.Close()

			data, err := io.ReadAll(body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("data: {\"current\":1,\"total\":2}\n\ndata: {\"current\":2,\"total\":2}\n\n"))
		})

		It("delivers decoded updates through the progress source", func() {
			updates := make(chan progress.Update, 4)
			sub, err := c.ProgressSource().Subscribe(ctx, progress.JobDeck, func(u progress.Update) { updates <- u })
			Expect(err).NotTo(HaveOccurred())
			Eventually(sub.Done()).Should(BeClosed())
			Expect(updates).To(HaveLen(2))
		})
	})

	Describe("WithRateLimit", func() {
		It("paces consecutive requests", func() {
			paced, err := client.New(backend.URL(), client.WithRateLimit(20), client.WithLogger(logger.Nop()))
			Expect(err).NotTo(HaveOccurred())

			start := time.Now()
			for range 3 {
				_, err := paced.Ready(ctx)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(time.Since(start)).To(BeNumerically(">=", 90*time.Millisecond))
		})

		It("honours context cancellation while waiting", func() {
			paced, err := client.New(backend.URL(), client.WithRateLimit(0.01))
			Expect(err).NotTo(HaveOccurred())
			_, err = paced.Ready(ctx)
			Expect(err).NotTo(HaveOccurred())

			short, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
			defer cancel()
			_, err = paced.Ready(short)
			Expect(err).To(MatchError(ContainSubstring("rate limiter")))
		})
	})

	Describe("WithTimeout", func() {
		It("bounds slow requests", func() {
			backend.Set(func(b *testutils.MockBackend) { b.Delay = time.Second })
			slow, err := client.New(backend.URL(), client.WithTimeout(20*time.Millisecond))
			Expect(err).NotTo(HaveOccurred())
			_, err = slow.Ready(ctx)
			Expect(err).To(HaveOccurred())
		})
	})
})
