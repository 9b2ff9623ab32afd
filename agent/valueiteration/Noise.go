package valueiteration

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// NoiseModel determines the probability P(a'|a) that action a' is
// executed when action a is chosen in an environment which overrides
// actions with probability ε
type NoiseModel string

const (
	// StepNoise replaces the chosen action with probability ε by an
	// action drawn uniformly from the whole action space, which may be
	// the chosen action again:
	//
	//	P(a'|a) = (1 - ε)·[a' = a] + ε/|A|
	//
	// This is the exact distribution sampled by simple.SimpleEnv.Step.
	StepNoise NoiseModel = "step"

	// ResidualNoise executes the chosen action with probability 1 - ε
	// and splits the residual ε evenly among the other actions:
	//
	//	P(a|a) = 1 - ε,	P(a'|a) = ε/(|A| - 1) for a' ≠ a
	ResidualNoise NoiseModel = "residual"
)

// ParseNoiseModel returns the NoiseModel called name
func ParseNoiseModel(name string) (NoiseModel, error) {
	switch NoiseModel(name) {
	case StepNoise, ResidualNoise:
		return NoiseModel(name), nil
	}
	return "", fmt.Errorf("unknown noise model %q, want %q or %q", name,
		StepNoise, ResidualNoise)
}

// Matrix returns the |A| x |A| matrix whose row a is the distribution
// P(·|a) of executed actions when action a is chosen. Each row sums to 1.
func (n NoiseModel) Matrix(actions int, ε float64) *mat.Dense {
	probs := mat.NewDense(actions, actions, nil)

	// With a single action there is nothing to be confused with
	if actions == 1 {
		probs.Set(0, 0, 1.0)
		return probs
	}

	for chosen := 0; chosen < actions; chosen++ {
		for executed := 0; executed < actions; executed++ {
			var p float64
			switch n {
			case ResidualNoise:
				if executed == chosen {
					p = 1.0 - ε
				} else {
					p = ε / float64(actions-1)
				}

			default:
				p = ε / float64(actions)
				if executed == chosen {
					p += 1.0 - ε
				}
			}
			probs.Set(chosen, executed, p)
		}
	}
	return probs
}
