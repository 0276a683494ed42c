// Package typeahead turns keystrokes into debounced card name searches.
package typeahead

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/papercomputeco/similicana/pkg/card"
)

const (
	// DefaultDebounce is how long input must be idle before a query is issued.
	DefaultDebounce = 300 * time.Millisecond

	// MinQueryLength is the shortest trimmed input that is searched.
	MinQueryLength = 2
)

// Searcher looks up card names matching a partial term.
type Searcher interface {
	SearchCards(ctx context.Context, term string) ([]card.SearchMatch, error)
}

// View displays suggestions. Calls are made in order from one goroutine at
// a time and must not call back into the Typeahead synchronously.
type View interface {
	ShowSuggestions(matches []card.SearchMatch)
	HideSuggestions()
}

// Typeahead debounces input and publishes the matches of the latest query.
// Every issued query gets a sequence number and only the response to the
// most recent one is shown.
type Typeahead struct {
	searcher Searcher
	view     View
	debounce time.Duration
	logger   *slog.Logger
	onSelect func(simpleName string)

	mu      sync.Mutex
	text    string
	timer   *time.Timer
	gen     uint64
	latest  uint64
	mounted bool
	ctx     context.Context
	cancel  context.CancelFunc

	// deliver orders view callbacks so a hide issued after a response is
	// never overtaken by it.
	deliver sync.Mutex
}

// Option configures a Typeahead.
type Option func(*Typeahead)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(t *Typeahead) {
		if d > 0 {
			t.debounce = d
		}
	}
}

// WithLogger sets the logger used for failed queries.
func WithLogger(l *slog.Logger) Option {
	return func(t *Typeahead) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithOnSelect sets the callback run when a suggestion is chosen.
func WithOnSelect(fn func(simpleName string)) Option {
	return func(t *Typeahead) { t.onSelect = fn }
}

// New returns an unmounted Typeahead.
func New(searcher Searcher, view View, opts ...Option) *Typeahead {
	t := &Typeahead{
		searcher: searcher,
		view:     view,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Mount attaches the typeahead. Queries run with ctx until Unmount.
func (t *Typeahead) Mount(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.mounted {
		return
	}
	t.ctx, t.cancel = context.WithCancel(ctx)
	t.mounted = true
}

// Unmount cancels any pending timer and in-flight query.
func (t *Typeahead) Unmount() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.mounted {
		return
	}
	t.stopTimerLocked()
	t.latest++
	t.cancel()
	t.mounted = false
}

// Text returns the current input.
func (t *Typeahead) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.text
}

// Input records new input text. Short input hides the suggestions at once;
// anything else restarts the debounce timer.
func (t *Typeahead) Input(text string) {
	term := strings.TrimSpace(text)

	t.mu.Lock()
	t.text = text
	if !t.mounted {
		t.mu.Unlock()
		return
	}
	t.stopTimerLocked()

	if utf8.RuneCountInString(term) < MinQueryLength {
		t.latest++
		t.mu.Unlock()
		t.hide()
		return
	}

	gen := t.gen
	t.timer = time.AfterFunc(t.debounce, func() { t.fire(gen, term) })
	t.mu.Unlock()
}

// Select fills the input with the match and reports it to the select callback.
func (t *Typeahead) Select(match card.SearchMatch) {
	t.mu.Lock()
	t.text = match.SimpleName
	t.stopTimerLocked()
	t.latest++
	onSelect := t.onSelect
	t.mu.Unlock()

	t.hide()
	if onSelect != nil {
		onSelect(match.SimpleName)
	}
}

// Dismiss hides the suggestions and drops any pending query.
func (t *Typeahead) Dismiss() {
	t.mu.Lock()
	t.stopTimerLocked()
	t.latest++
	t.mu.Unlock()

	t.hide()
}

func (t *Typeahead) fire(gen uint64, term string) {
	t.mu.Lock()
	if gen != t.gen || !t.mounted {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	t.latest++
	seq := t.latest
	ctx := t.ctx
	t.mu.Unlock()

	matches, err := t.searcher.SearchCards(ctx, term)

	t.deliver.Lock()
	defer t.deliver.Unlock()

	if !t.current(seq) {
		return
	}
	if err != nil {
		if ctx.Err() == nil {
			t.logger.Error("card search failed", "term", term, "error", err)
		}
		t.view.HideSuggestions()
		return
	}
	if len(matches) == 0 {
		t.view.HideSuggestions()
		return
	}
	t.view.ShowSuggestions(matches)
}

func (t *Typeahead) current(seq uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return seq == t.latest
}

func (t *Typeahead) hide() {
	t.deliver.Lock()
	defer t.deliver.Unlock()
	t.view.HideSuggestions()
}

// stopTimerLocked cancels the pending debounce. The generation bump makes a
// timer that already fired a no-op.
func (t *Typeahead) stopTimerLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
}
