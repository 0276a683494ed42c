package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/papercomputeco/similicana/pkg/render"
)

// SearchController runs single card similarity searches.
type SearchController struct {
	session *Session
	backend Backend
	view    ResultsView
	logger  *slog.Logger

	mu     sync.Mutex
	latest uint64
}

// NewSearchController returns a controller rendering results into view.
func NewSearchController(s *Session, backend Backend, view ResultsView, logger *slog.Logger) *SearchController {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchController{
		session: s,
		backend: backend,
		view:    view,
		logger:  logger,
	}
}

// Search fetches the cards similar to cardName and shows them. The session's
// search term is updated before the request is sent. If another search is
// started before this one's response arrives, the response is dropped and
// ErrSuperseded is returned.
func (c *SearchController) Search(ctx context.Context, cardName string) (*render.ResultView, error) {
	if !c.session.Ready() {
		return nil, report(c.view, c.logger, "find similar", ErrNotReady)
	}

	cardName = strings.TrimSpace(cardName)
	if cardName == "" {
		return nil, report(c.view, c.logger, "find similar", ErrNoCardName)
	}

	c.session.SetSearchTerm(cardName)
	seq := c.next()

	c.view.SetLoading(true)
	resp, err := c.backend.FindSimilar(ctx, cardName, c.session.ResultCount())
	c.view.SetLoading(false)

	if !c.isLatest(seq) {
		c.logger.Debug("dropping superseded results", "card", cardName)
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, report(c.view, c.logger, "find similar", err)
	}

	view := render.Results(*resp.TargetCard, resp.SimilarCards, c.session.Page())
	c.view.ShowResults(view)
	return &view, nil
}

func (c *SearchController) next() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest++
	return c.latest
}

func (c *SearchController) isLatest(seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return seq == c.latest
}
