package api

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/similicana/pkg/logger"
)

type brokenConn struct{}

func (brokenConn) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

var _ = Describe("relay", func() {
	It("stops at the final update", func() {
		var out strings.Builder
		w := bufio.NewWriter(&out)
		src := strings.NewReader("data: {\"current\":1,\"total\":2}\n\ndata: {\"current\":2,\"total\":2}\n\ndata: {\"current\":3,\"total\":3}\n\n")

		relay(w, src, time.Hour, func() {}, logger.Nop())
		Expect(out.String()).To(ContainSubstring(`"current":2`))
		Expect(out.String()).NotTo(ContainSubstring(`"current":3`))
	})

	It("releases an idle backend stream once the client is gone", func() {
		src, backendSide := io.Pipe()
		released := make(chan struct{})
		release := sync.OnceFunc(func() {
			close(released)
			backendSide.CloseWithError(context.Canceled)
		})

		finished := make(chan struct{})
		go func() {
			defer close(finished)
			relay(bufio.NewWriterSize(brokenConn{}, 64), src, 10*time.Millisecond, release, logger.Nop())
		}()

		Eventually(released).Should(BeClosed())
		Eventually(finished).Should(BeClosed())
	})
})
