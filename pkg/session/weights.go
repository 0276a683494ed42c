package session

import (
	"context"
	"log/slog"

	"github.com/papercomputeco/similicana/pkg/card"
	"github.com/papercomputeco/similicana/pkg/render"
	"github.com/papercomputeco/similicana/pkg/weights"
)

// WeightsController drives the weights panel and pushes the vector to the
// backend.
type WeightsController struct {
	session *Session
	backend Backend
	panel   *weights.Panel
	search  *SearchController
	view    WeightsView
	logger  *slog.Logger
}

// NewWeightsController returns a controller whose panel starts at the
// session's weights. search may be nil, in which case Apply never re-runs a
// search.
func NewWeightsController(s *Session, backend Backend, search *SearchController, view WeightsView, logger *slog.Logger) *WeightsController {
	if logger == nil {
		logger = slog.Default()
	}
	return &WeightsController{
		session: s,
		backend: backend,
		panel:   weights.NewPanel(s.Weights()),
		search:  search,
		view:    view,
		logger:  logger,
	}
}

// State returns the panel state.
func (c *WeightsController) State() weights.State {
	return c.panel.State()
}

// Vector returns the panel's weights.
func (c *WeightsController) Vector() weights.Vector {
	return c.panel.Vector()
}

// Set moves one slider and shows the new state.
func (c *WeightsController) Set(f card.Factor, value int) (weights.State, error) {
	state, err := c.panel.Set(f, value)
	if err != nil {
		return state, err
	}
	c.view.ShowWeights(state)
	return state, nil
}

// Reset restores the default weights and shows the new state.
func (c *WeightsController) Reset() weights.State {
	state := c.panel.Reset()
	c.view.ShowWeights(state)
	return state
}

// Apply sends the panel's vector to the backend. An invalid vector is
// rejected without a request. When the backend accepts the vector and the
// session has a search term, the search is run again and its results are
// returned.
func (c *WeightsController) Apply(ctx context.Context) (*render.ResultView, error) {
	vector := c.panel.Vector()
	if err := vector.Validate(); err != nil {
		return nil, err
	}

	c.view.SetLoading(true)
	err := c.backend.UpdateWeights(ctx, vector)
	c.view.SetLoading(false)
	if err != nil {
		return nil, report(c.view, c.logger, "update weights", err)
	}

	c.session.SetWeights(vector)
	c.logger.Debug("weights applied", "sum", vector.Sum())

	term := c.session.SearchTerm()
	if c.search == nil || term == "" {
		return nil, nil
	}
	return c.search.Search(ctx, term)
}
