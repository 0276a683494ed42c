package dotdir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const lastSearchFile = "last_search.json"

// LastSearch is the most recent single-card search issued from the CLI.
type LastSearch struct {
	Card        string    `json:"card"`
	ResultCount int       `json:"result_count"`
	SearchedAt  time.Time `json:"searched_at"`
}

// LoadLastSearch reads the last search from the target directory.
// Returns nil, nil when nothing has been searched yet.
func (m *Manager) LoadLastSearch(overrideDir string) (*LastSearch, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, lastSearchFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading last search: %w", err)
	}

	state := &LastSearch{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parsing last search: %w", err)
	}

	if strings.TrimSpace(state.Card) == "" {
		return nil, nil
	}

	return state, nil
}

// SaveLastSearch persists the given search, replacing any previous one.
func (m *Manager) SaveLastSearch(state *LastSearch, overrideDir string) error {
	if state == nil {
		return errors.New("cannot save nil last search")
	}

	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling last search: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, lastSearchFile), data, 0o600); err != nil {
		return fmt.Errorf("writing last search: %w", err)
	}

	return nil
}

// ClearLastSearch removes the last search file. Missing files are not an error.
func (m *Manager) ClearLastSearch(overrideDir string) error {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(dir, lastSearchFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing last search: %w", err)
	}

	return nil
}
