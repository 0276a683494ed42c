package tuicmder

import (
	bubbletea "github.com/charmbracelet/bubbletea"

	"github.com/papercomputeco/similicana/pkg/card"
	"github.com/papercomputeco/similicana/pkg/render"
	"github.com/papercomputeco/similicana/pkg/weights"
)

// eventBuffer bounds the callbacks queued between the controllers and the
// program. Controllers block once it is full.
const eventBuffer = 64

type (
	readyMsg       struct{}
	suggestionsMsg struct{ matches []card.SearchMatch }
	hideMsg        struct{}
	alertMsg       struct{ message string }
	loadingMsg     struct{ loading bool }
	resultsMsg     struct{ view render.ResultView }
	weightsMsg     struct{ state weights.State }

	searchDoneMsg struct {
		name string
		err  error
	}
	appliedMsg struct{ err error }

	// bridged wraps a message that arrived through the bridge so Update
	// knows to listen for the next one.
	bridged struct{ msg bubbletea.Msg }
)

// bridge is the view the typeahead and session controllers report to. It
// turns their callbacks into program messages. Sends never go through
// (*bubbletea.Program).Send, which blocks while Update runs and would
// deadlock on callbacks made from inside Update.
type bridge struct {
	events chan bubbletea.Msg
}

func newBridge() *bridge {
	return &bridge{events: make(chan bubbletea.Msg, eventBuffer)}
}

func (b *bridge) send(msg bubbletea.Msg) {
	b.events <- msg
}

func (b *bridge) listen() bubbletea.Cmd {
	return func() bubbletea.Msg {
		return bridged{msg: <-b.events}
	}
}

func (b *bridge) ShowSuggestions(matches []card.SearchMatch) {
	b.send(suggestionsMsg{matches: matches})
}

func (b *bridge) HideSuggestions()                { b.send(hideMsg{}) }
func (b *bridge) Alert(message string)            { b.send(alertMsg{message: message}) }
func (b *bridge) SetLoading(loading bool)         { b.send(loadingMsg{loading: loading}) }
func (b *bridge) ShowResults(v render.ResultView) { b.send(resultsMsg{view: v}) }
func (b *bridge) ShowWeights(s weights.State)     { b.send(weightsMsg{state: s}) }
