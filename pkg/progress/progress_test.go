package progress_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/similicana/pkg/progress"
)

var _ = Describe("Update", func() {
	DescribeTable("Percent",
		func(u progress.Update, expected float64) {
			Expect(u.Percent()).To(BeNumerically("~", expected, 1e-9))
		},
		Entry("zero total", progress.Update{Current: 0, Total: 0}, 0.0),
		Entry("current without total", progress.Update{Current: 3, Total: 0}, 0.0),
		Entry("partial", progress.Update{Current: 1, Total: 4}, 25.0),
		Entry("complete", progress.Update{Current: 4, Total: 4}, 100.0),
		Entry("overshoot is capped", progress.Update{Current: 5, Total: 4}, 100.0),
	)

	It("is done once current reaches a positive total", func() {
		Expect(progress.Update{Current: 0, Total: 0}.Done()).To(BeFalse())
		Expect(progress.Update{Current: 2, Total: 3}.Done()).To(BeFalse())
		Expect(progress.Update{Current: 3, Total: 3}.Done()).To(BeTrue())
	})

	It("labels progress", func() {
		Expect(progress.Update{Current: 2, Total: 60}.Label()).To(Equal("Processing cards: 2/60"))
	})
})

var _ = Describe("Job", func() {
	It("maps to the backend stream path", func() {
		Expect(progress.JobBatch.Path()).To(Equal("/batch_progress"))
		Expect(progress.JobDeck.Path()).To(Equal("/deck_progress"))
	})
})
