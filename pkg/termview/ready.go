package termview

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/papercomputeco/similicana/pkg/cliui"
	"github.com/papercomputeco/similicana/pkg/readiness"
)

// AwaitReady checks the backend once and, when it is still initializing and
// wait is set, polls behind a spinner on w until it is ready or ctx ends.
// A failed check counts as not ready.
func AwaitReady(ctx context.Context, w io.Writer, checker readiness.Checker, interval time.Duration, wait bool, logger *slog.Logger) bool {
	ready, err := checker.Ready(ctx)
	if err != nil {
		logger.Debug("status check failed", "error", err)
	}
	if ready || !wait {
		return ready
	}

	poller := readiness.NewPoller(checker, interval, logger)
	err = cliui.Step(w, "Waiting for the backend to load cards", func() error {
		return poller.Wait(ctx)
	})
	return err == nil
}
