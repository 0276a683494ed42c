package api

import (
	"github.com/papercomputeco/similicana/pkg/progress"
	"github.com/papercomputeco/similicana/pkg/render"
	"github.com/papercomputeco/similicana/pkg/weights"
)

// fragmentView collects a controller's alert for one request. Results are
// taken from the controller's return value and rendered as a fragment, and
// the browser draws loading and progress itself.
type fragmentView struct {
	alert string
}

func (v *fragmentView) Alert(message string)          { v.alert = message }
func (v *fragmentView) SetLoading(bool)               {}
func (v *fragmentView) ShowProgress(progress.Update)  {}
func (v *fragmentView) HideProgress()                 {}
func (v *fragmentView) ShowResults(render.ResultView) {}
func (v *fragmentView) ShowBatch(render.BatchView)    {}
func (v *fragmentView) ShowDeck(render.DeckView)      {}
func (v *fragmentView) ShowWeights(weights.State)     {}
