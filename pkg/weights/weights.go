// Package weights holds the similarity weight vector and the slider panel
// used to edit it.
package weights

import (
	"errors"
	"fmt"
	"math"

	"github.com/papercomputeco/similicana/pkg/card"
)

// Tolerance is how far the sum of a vector may drift from 1.0.
const Tolerance = 0.001

// ErrInvalidWeights is returned when a vector does not sum to 1.0.
var ErrInvalidWeights = errors.New("weights must sum to 1.0")

// InvalidError describes a vector that failed validation.
type InvalidError struct {
	Sum    float64
	Reason string
}

func (e *InvalidError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("weights sum to %.4f, must sum to 1.0", e.Sum)
}

// Is lets errors.Is match ErrInvalidWeights.
func (e *InvalidError) Is(target error) bool {
	return target == ErrInvalidWeights
}

// Vector maps every similarity factor to a weight in [0,1].
type Vector map[card.Factor]float64

// Defaults returns the weights the backend starts with. They sum to 1.00.
func Defaults() Vector {
	return Vector{
		card.FactorInkCost:    0.15,
		card.FactorStrength:   0.10,
		card.FactorWillpower:  0.10,
		card.FactorLorePoints: 0.10,
		card.FactorTags:       0.01,
		card.FactorAbility:    0.24,
		card.FactorMechanics:  0.15,
		card.FactorInkColor:   0.05,
		card.FactorCardType:   0.05,
		card.FactorInkwell:    0.05,
	}
}

// FromMap converts string keyed weights, such as those read from config,
// into a Vector. Unknown keys are dropped.
func FromMap(m map[string]float64) Vector {
	v := make(Vector, len(card.Factors))
	for _, f := range card.Factors {
		if w, ok := m[string(f)]; ok {
			v[f] = w
		}
	}
	return v
}

// Map returns the vector with string keys.
func (v Vector) Map() map[string]float64 {
	m := make(map[string]float64, len(v))
	for f, w := range v {
		m[string(f)] = w
	}
	return m
}

// Clone returns a copy of v.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	for f, w := range v {
		out[f] = w
	}
	return out
}

// Sum returns the total of all factor weights.
func (v Vector) Sum() float64 {
	var sum float64
	for _, f := range card.Factors {
		sum += v[f]
	}
	return sum
}

// Validate checks that every factor is present and in [0,1] and that the
// weights sum to 1.0 within Tolerance.
func (v Vector) Validate() error {
	for _, f := range card.Factors {
		w, ok := v[f]
		if !ok {
			return &InvalidError{Sum: v.Sum(), Reason: fmt.Sprintf("missing weight for %s", f)}
		}
		if w < 0 || w > 1 {
			return &InvalidError{Sum: v.Sum(), Reason: fmt.Sprintf("weight for %s must be between 0 and 1, got %g", f, w)}
		}
	}

	if sum := v.Sum(); math.Abs(sum-1.0) > Tolerance {
		return &InvalidError{Sum: sum}
	}

	return nil
}
