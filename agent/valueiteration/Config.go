package valueiteration

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// DefaultLogEvery is the number of sweeps between progress logs when a
// Config does not set LogEvery
const DefaultLogEvery int = 5

// Config represents a configuration for running Value Iteration
type Config struct {
	// RandomProb is the probability with which the environment replaces
	// the chosen action by a uniformly random one
	RandomProb float64

	// Theta is the convergence threshold: training stops after the first
	// sweep in which no state value changed by Theta or more
	Theta float64

	// Gamma is the discount factor. Values of 1 or more may diverge,
	// which is not detected unless MaxSweeps is set.
	Gamma float64

	// LogEvery is the number of sweeps between progress logs. Zero uses
	// DefaultLogEvery and a negative value disables progress logs.
	LogEvery int

	// Noise determines how RandomProb enters the Bellman back-up,
	// defaulting to StepNoise
	Noise NoiseModel

	// MaxSweeps caps the number of sweeps. Zero runs until convergence.
	MaxSweeps int

	// History records the delta and value table of every sweep, see
	// ValueFunction.Deltas and ValueFunction.Trace
	History bool

	// Logger receives progress logs, defaulting to log.Default()
	Logger *log.Logger
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.RandomProb < 0 || c.RandomProb > 1 {
		return fmt.Errorf("random probability must be in [0, 1], got %v",
			c.RandomProb)
	}
	if c.Theta <= 0 {
		return fmt.Errorf("theta must be positive, got %v", c.Theta)
	}
	if c.Gamma < 0 {
		return fmt.Errorf("gamma cannot be lower than 0, got %v", c.Gamma)
	}
	if c.MaxSweeps < 0 {
		return fmt.Errorf("max sweeps cannot be lower than 0, got %v",
			c.MaxSweeps)
	}
	if c.Noise != "" {
		if _, err := ParseNoiseModel(string(c.Noise)); err != nil {
			return err
		}
	}
	return nil
}

// withDefaults returns a copy of the Config with unset fields filled in
func (c Config) withDefaults() Config {
	if c.LogEvery == 0 {
		c.LogEvery = DefaultLogEvery
	}
	if c.Noise == "" {
		c.Noise = StepNoise
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
	return c
}
