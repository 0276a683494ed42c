package session

import (
	"context"
	"log/slog"
	"strings"

	"github.com/papercomputeco/similicana/pkg/decklist"
	"github.com/papercomputeco/similicana/pkg/progress"
	"github.com/papercomputeco/similicana/pkg/render"
)

// BatchController finds similar cards for every name in a card list.
type BatchController struct {
	session *Session
	backend Backend
	view    BatchView
	logger  *slog.Logger
}

// NewBatchController returns a controller rendering into view.
func NewBatchController(s *Session, backend Backend, view BatchView, logger *slog.Logger) *BatchController {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchController{session: s, backend: backend, view: view, logger: logger}
}

// Submit normalizes input into card names and runs the batch search while
// following its progress.
func (c *BatchController) Submit(ctx context.Context, input string) (*render.BatchView, error) {
	if !c.session.Ready() {
		return nil, report(c.view, c.logger, "batch search", ErrNotReady)
	}

	names := decklist.Normalize(input)
	if len(names) == 0 {
		return nil, report(c.view, c.logger, "batch search", ErrNoCards)
	}

	stop := follow(ctx, c.session, progress.JobBatch, c.view, c.logger)
	results, err := c.backend.FindSimilarBatch(ctx, names, c.session.ResultCount())
	stop()

	if err != nil {
		return nil, report(c.view, c.logger, "batch search", err)
	}

	view := render.Batch(results)
	c.view.ShowBatch(view)
	return &view, nil
}

// DeckController builds a deck from a decklist.
type DeckController struct {
	session *Session
	backend Backend
	view    DeckView
	logger  *slog.Logger
}

// NewDeckController returns a controller rendering into view.
func NewDeckController(s *Session, backend Backend, view DeckView, logger *slog.Logger) *DeckController {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeckController{session: s, backend: backend, view: view, logger: logger}
}

// Analyze sends the decklist to the backend while following its progress.
// The decklist is sent as entered; the backend parses quantities itself.
func (c *DeckController) Analyze(ctx context.Context, list string, ignoreCollection bool) (*render.DeckView, error) {
	if !c.session.Ready() {
		return nil, report(c.view, c.logger, "deck analysis", ErrNotReady)
	}
	if strings.TrimSpace(list) == "" {
		return nil, report(c.view, c.logger, "deck analysis", ErrEmptyDecklist)
	}

	stop := follow(ctx, c.session, progress.JobDeck, c.view, c.logger)
	analysis, err := c.backend.AnalyzeDeck(ctx, list, ignoreCollection)
	stop()

	if err != nil {
		return nil, report(c.view, c.logger, "deck analysis", err)
	}

	view := render.Deck(analysis)
	c.view.ShowDeck(view)
	return &view, nil
}

// follow resets the progress display and subscribes to job through the
// session's tracker, replacing any open subscription for it. The returned
// func releases the subscription and hides the display. A failed subscription
// is logged and the job runs without progress, as does a session without a
// progress source.
func follow(ctx context.Context, s *Session, job progress.Job, view ProgressView, logger *slog.Logger) func() {
	view.ShowProgress(progress.Update{})

	tracker := s.Tracker()
	if tracker == nil {
		return view.HideProgress
	}

	sub, err := tracker.Start(ctx, job, view.ShowProgress)
	if err != nil {
		logger.Warn("progress unavailable", "job", string(job), "error", err)
	}

	return func() {
		tracker.Release(job, sub)
		view.HideProgress()
	}
}
