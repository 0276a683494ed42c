package weights

import (
	"fmt"
	"math"
	"sync"

	"github.com/papercomputeco/similicana/pkg/card"
)

// SliderMax is the slider value that represents a weight of 1.00.
const SliderMax = 100

// State is a snapshot of the panel after a change.
type State struct {
	// Sliders holds the integer slider position of every factor.
	Sliders map[card.Factor]int

	// Total is the sum of all weights, normally displayed with two decimals.
	Total float64

	// Valid is true when Total is within Tolerance of 1.0. Apply is only
	// enabled while Valid is true.
	Valid bool
}

// Panel is the weights editor: one integer slider per factor.
type Panel struct {
	mu      sync.Mutex
	sliders map[card.Factor]int
}

// NewPanel returns a panel positioned at initial. Factors missing from
// initial start at their default.
func NewPanel(initial Vector) *Panel {
	p := &Panel{sliders: make(map[card.Factor]int, len(card.Factors))}
	defaults := Defaults()
	for _, f := range card.Factors {
		w, ok := initial[f]
		if !ok {
			w = defaults[f]
		}
		p.sliders[f] = toSlider(w)
	}
	return p
}

// Set moves the slider for factor to value and returns the new state.
func (p *Panel) Set(factor card.Factor, value int) (State, error) {
	if !factor.Valid() {
		return p.State(), fmt.Errorf("unknown factor %q", factor)
	}
	if value < 0 || value > SliderMax {
		return p.State(), fmt.Errorf("slider value for %s must be between 0 and %d, got %d", factor, SliderMax, value)
	}

	p.mu.Lock()
	p.sliders[factor] = value
	p.mu.Unlock()

	return p.State(), nil
}

// Reset restores every slider to its default.
func (p *Panel) Reset() State {
	defaults := Defaults()

	p.mu.Lock()
	for _, f := range card.Factors {
		p.sliders[f] = toSlider(defaults[f])
	}
	p.mu.Unlock()

	return p.State()
}

// State returns the current sliders, total and validity.
func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	sliders := make(map[card.Factor]int, len(p.sliders))
	sum := 0
	for f, v := range p.sliders {
		sliders[f] = v
		sum += v
	}

	total := float64(sum) / SliderMax
	return State{
		Sliders: sliders,
		Total:   total,
		Valid:   math.Abs(total-1.0) <= Tolerance,
	}
}

// Vector returns the weights the sliders currently describe.
func (p *Panel) Vector() Vector {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := make(Vector, len(p.sliders))
	for f, s := range p.sliders {
		v[f] = float64(s) / SliderMax
	}
	return v
}

func toSlider(w float64) int {
	return int(math.Round(w * SliderMax))
}
