package session

import (
	"context"

	"github.com/papercomputeco/similicana/pkg/card"
	"github.com/papercomputeco/similicana/pkg/progress"
	"github.com/papercomputeco/similicana/pkg/render"
	"github.com/papercomputeco/similicana/pkg/weights"
)

// Backend is the part of the backend client the controllers use.
// *client.Client implements it.
type Backend interface {
	FindSimilar(ctx context.Context, cardName string, resultCount int) (*card.SimilarResponse, error)
	FindSimilarBatch(ctx context.Context, cards []string, resultCount int) ([]card.SimilarResponse, error)
	AnalyzeDeck(ctx context.Context, decklist string, ignoreCollection bool) (*card.DeckAnalysis, error)
	UpdateWeights(ctx context.Context, w weights.Vector) error
}

// View is the surface every controller reports to. The terminal, the TUI
// and the web front end each provide one.
type View interface {
	// Alert shows a blocking message.
	Alert(message string)

	// SetLoading shows or hides the loading indicator. Every SetLoading(true)
	// is followed by SetLoading(false) before the controller returns.
	SetLoading(loading bool)
}

// ResultsView shows single card results.
type ResultsView interface {
	View
	ShowResults(view render.ResultView)
}

// ProgressView shows job progress.
type ProgressView interface {
	View
	ShowProgress(update progress.Update)
	HideProgress()
}

// BatchView shows batch results.
type BatchView interface {
	ProgressView
	ShowBatch(view render.BatchView)
}

// DeckView shows deck analysis results.
type DeckView interface {
	ProgressView
	ShowDeck(view render.DeckView)
}

// WeightsView shows the weights panel.
type WeightsView interface {
	View
	ShowWeights(state weights.State)
}
