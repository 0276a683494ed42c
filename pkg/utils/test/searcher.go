package testutils

import (
	"context"
	"sync"

	"github.com/papercomputeco/similicana/pkg/card"
)

// MockSearcher answers card name searches from a fixed table.
type MockSearcher struct {
	mu    sync.Mutex
	terms []string

	// Matches maps a search term to its results. Unknown terms match nothing.
	Matches map[string][]card.SearchMatch

	// Block holds a search for the term until the channel is closed.
	Block map[string]chan struct{}

	// Err is returned by every search when set.
	Err error
}

func NewMockSearcher() *MockSearcher {
	return &MockSearcher{
		Matches: make(map[string][]card.SearchMatch),
		Block:   make(map[string]chan struct{}),
	}
}

func (m *MockSearcher) SearchCards(ctx context.Context, term string) ([]card.SearchMatch, error) {
	m.mu.Lock()
	m.terms = append(m.terms, term)
	block := m.Block[term]
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.Err != nil {
		return nil, m.Err
	}
	return m.Matches[term], nil
}

// Terms returns every term searched so far.
func (m *MockSearcher) Terms() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.terms...)
}
