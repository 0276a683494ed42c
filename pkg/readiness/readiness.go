// Package readiness polls the backend until it reports it has finished
// loading its card data.
package readiness

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is the delay between status checks.
const DefaultInterval = time.Second

// Checker reports whether the backend is ready to serve searches.
type Checker interface {
	Ready(ctx context.Context) (bool, error)
}

// CheckerFunc adapts a function to a Checker.
type CheckerFunc func(ctx context.Context) (bool, error)

func (f CheckerFunc) Ready(ctx context.Context) (bool, error) { return f(ctx) }

// Poller checks a Checker at a fixed interval until it reports ready.
// There is no backoff and no retry cap; a failed check is treated as not
// ready.
type Poller struct {
	checker  Checker
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPoller returns a Poller. A non-positive interval uses DefaultInterval.
func NewPoller(checker Checker, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		checker:  checker,
		interval: interval,
		logger:   logger,
	}
}

// Wait blocks until the backend is ready or ctx is done.
func (p *Poller) Wait(ctx context.Context) error {
	attempt := 0
	for {
		attempt++
		ready, err := p.checker.Ready(ctx)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.Debug("status check failed", "attempt", attempt, "error", err)
		case ready:
			p.logger.Debug("backend ready", "attempts", attempt)
			return nil
		default:
			p.logger.Debug("backend still initializing", "attempt", attempt)
		}

		timer := time.NewTimer(p.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Start polls in the background and calls onReady once, from the polling
// goroutine, when the backend becomes ready. Starting an already started
// poller restarts it.
func (p *Poller) Start(ctx context.Context, onReady func()) {
	p.Stop()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	p.mu.Lock()
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()
		if err := p.Wait(ctx); err != nil {
			return
		}
		if onReady != nil {
			onReady()
		}
	}()
}

// Stop cancels background polling and waits for it to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
