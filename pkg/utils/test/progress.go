package testutils

import (
	"context"
	"fmt"
	"sync"

	"github.com/papercomputeco/similicana/pkg/progress"
)

// MockProgressSource is a synthetic progress.Source. Updates are delivered
// synchronously by Emit so tests control ordering exactly.
type MockProgressSource struct {
	mu   sync.Mutex
	subs []*MockSubscription

	// FailWith makes Subscribe return the error.
	FailWith error

	// OnSubscribe, when set, is given each handler before Subscribe returns.
	// It simulates an update racing ahead of the subscription.
	OnSubscribe func(job progress.Job, h progress.Handler)
}

func NewMockProgressSource() *MockProgressSource {
	return &MockProgressSource{}
}

func (m *MockProgressSource) Subscribe(_ context.Context, job progress.Job, h progress.Handler) (progress.Subscription, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	m.mu.Lock()
	sub := &MockSubscription{
		id:      fmt.Sprintf("mock-%d", len(m.subs)+1),
		Job:     job,
		handler: h,
		done:    make(chan struct{}),
	}
	m.subs = append(m.subs, sub)
	m.mu.Unlock()

	if m.OnSubscribe != nil {
		m.OnSubscribe(job, h)
	}

	return sub, nil
}

// Subscriptions returns every subscription opened so far, oldest first.
func (m *MockProgressSource) Subscriptions() []*MockSubscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockSubscription(nil), m.subs...)
}

// Latest returns the most recent subscription for job, or nil.
func (m *MockProgressSource) Latest(job progress.Job) *MockSubscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.subs) - 1; i >= 0; i-- {
		if m.subs[i].Job == job {
			return m.subs[i]
		}
	}
	return nil
}

// MockSubscription is returned by MockProgressSource.
type MockSubscription struct {
	id      string
	Job     progress.Job
	handler progress.Handler

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

func (s *MockSubscription) ID() string { return s.id }

func (s *MockSubscription) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.done)
	}
}

func (s *MockSubscription) Done() <-chan struct{} { return s.done }

// Closed reports whether Close has been called.
func (s *MockSubscription) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Emit delivers updates to the handler. Updates to a closed subscription are
// dropped, as a real stream would not deliver them.
func (s *MockSubscription) Emit(updates ...progress.Update) {
	for _, u := range updates {
		if s.Closed() {
			return
		}
		s.handler(u)
	}
}
