package readiness_test

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/similicana/pkg/logger"
	"github.com/papercomputeco/similicana/pkg/readiness"
)

// readyAfter returns a checker that reports ready on the nth call, failing
// with a transport error on every even call before that.
func readyAfter(n int32, calls *atomic.Int32) readiness.Checker {
	return readiness.CheckerFunc(func(context.Context) (bool, error) {
		c := calls.Add(1)
		if c >= n {
			return true, nil
		}
		if c%2 == 0 {
			return false, errors.New("connection refused")
		}
		return false, nil
	})
}

var _ = Describe("Poller", func() {
	const interval = 5 * time.Millisecond

	Describe("Wait", func() {
		It("returns once the backend reports ready", func() {
			var calls atomic.Int32
			p := readiness.NewPoller(readyAfter(4, &calls), interval, logger.Nop())

			Expect(p.Wait(context.Background())).To(Succeed())
			Expect(calls.Load()).To(Equal(int32(4)))
		})

		It("does not wait when the first check succeeds", func() {
			var calls atomic.Int32
			p := readiness.NewPoller(readyAfter(1, &calls), time.Hour, logger.Nop())

			Expect(p.Wait(context.Background())).To(Succeed())
			Expect(calls.Load()).To(Equal(int32(1)))
		})

		It("returns the context error when cancelled", func() {
			var calls atomic.Int32
			p := readiness.NewPoller(readyAfter(1000, &calls), interval, logger.Nop())

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
			defer cancel()
			Expect(p.Wait(ctx)).To(MatchError(context.DeadlineExceeded))
		})
	})

	Describe("Start", func() {
		It("calls onReady exactly once", func() {
			var calls, readyCalls atomic.Int32
			p := readiness.NewPoller(readyAfter(3, &calls), interval, logger.Nop())

			p.Start(context.Background(), func() { readyCalls.Add(1) })
			Eventually(readyCalls.Load).Should(Equal(int32(1)))
			Consistently(calls.Load, 4*interval).Should(Equal(int32(3)))
			p.Stop()
		})

		It("never calls onReady after Stop", func() {
			var calls, readyCalls atomic.Int32
			p := readiness.NewPoller(readyAfter(1000, &calls), interval, logger.Nop())

			p.Start(context.Background(), func() { readyCalls.Add(1) })
			Eventually(calls.Load).Should(BeNumerically(">=", 2))
			p.Stop()
			p.Stop()

			stopped := calls.Load()
			Consistently(calls.Load, 4*interval).Should(Equal(stopped))
			Expect(readyCalls.Load()).To(BeZero())
		})
	})

	It("falls back to the default interval", func() {
		var calls atomic.Int32
		p := readiness.NewPoller(readyAfter(1, &calls), 0, nil)
		Expect(p.Wait(context.Background())).To(Succeed())
	})
})
