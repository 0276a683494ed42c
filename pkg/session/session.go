// Package session holds the state of one user session and the controllers
// that drive searches, weights, batches and deck analysis against it.
package session

import (
	"sync"

	"github.com/papercomputeco/similicana/pkg/progress"
	"github.com/papercomputeco/similicana/pkg/render"
	"github.com/papercomputeco/similicana/pkg/weights"
)

// DefaultResultCount is the number of similar cards requested per search.
const DefaultResultCount = 5

// Session is the state shared by the controllers of one user. Each field is
// written by exactly one method and read under the same lock.
type Session struct {
	tracker *progress.Tracker

	mu          sync.RWMutex
	ready       bool
	weights     weights.Vector
	searchTerm  string
	page        render.Page
	resultCount int
}

// Option configures a Session.
type Option func(*Session)

// WithResultCount sets the number of similar cards requested per search.
func WithResultCount(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.resultCount = n
		}
	}
}

// WithWeights sets the weights the backend is assumed to be using.
func WithWeights(v weights.Vector) Option {
	return func(s *Session) {
		if v != nil {
			s.weights = v.Clone()
		}
	}
}

// WithPage sets the page the session is rendering for.
func WithPage(p render.Page) Option {
	return func(s *Session) {
		if p != "" {
			s.page = p
		}
	}
}

// New returns a session that opens progress subscriptions from source.
// With a nil source the session does not follow job progress. The session
// starts not ready.
func New(source progress.Source, opts ...Option) *Session {
	s := &Session{
		weights:     weights.Defaults(),
		page:        render.PageSingle,
		resultCount: DefaultResultCount,
	}
	if source != nil {
		s.tracker = progress.NewTracker(source)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MarkReady records that the backend has finished loading. It is meant to
// be passed to a readiness poller as the ready callback.
func (s *Session) MarkReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = true
}

// Ready reports whether MarkReady has been called.
func (s *Session) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// SetWeights records the vector last accepted by the backend.
func (s *Session) SetWeights(v weights.Vector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weights = v.Clone()
}

// Weights returns a copy of the vector last accepted by the backend.
func (s *Session) Weights() weights.Vector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weights.Clone()
}

// SetSearchTerm records the card name of the latest similarity search.
func (s *Session) SetSearchTerm(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchTerm = term
}

// SearchTerm returns the card name of the latest similarity search.
func (s *Session) SearchTerm() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchTerm
}

// SetPage records the page being rendered.
func (s *Session) SetPage(p render.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = p
}

// Page returns the page being rendered.
func (s *Session) Page() render.Page {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

// SetResultCount changes the number of similar cards requested per search.
// Non-positive values are ignored.
func (s *Session) SetResultCount(n int) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resultCount = n
}

// ResultCount returns the number of similar cards requested per search.
func (s *Session) ResultCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resultCount
}

// Tracker returns the tracker owning the session's progress subscriptions,
// or nil when the session does not follow progress.
func (s *Session) Tracker() *progress.Tracker {
	return s.tracker
}

// Close closes every open progress subscription.
func (s *Session) Close() {
	if s.tracker != nil {
		s.tracker.CloseAll()
	}
}
