// Package envconfig provides configuration structs for configuring
// environments, either by naming a registered environment or by
// describing the MDP topology directly. Environment configurations in
// this package are decoded from HCL.
//
// An environment is configured as:
//
//	environment {
//	  random_prob = 0.1
//	  seed        = 1923
//
//	  mdp {
//	    actions = 2
//
//	    state "0" {
//	      initial = true
//	      next    = [1, 2]
//	      rewards = [0, -0.1]
//	    }
//
//	    state "1" {
//	      terminal = true
//	    }
//	  }
//	}
//
// If the mdp block is omitted, the registered environment named by the
// name attribute is created instead.
package envconfig

import (
	"fmt"
	"strconv"

	env "github.com/samuelfneumann/simpleenv/environment"
	"github.com/samuelfneumann/simpleenv/environment/simple"
)

// Defaults for attributes missing from a Config
const (
	DefaultName       string  = simple.FiveStateID
	DefaultRandomProb float64 = 0.1
)

// Config implements a configuration of an environment
type Config struct {
	Name       string   `hcl:"name,optional"`
	RandomProb *float64 `hcl:"random_prob,optional"`
	Seed       uint64   `hcl:"seed,optional"`
	MDP        *MDP     `hcl:"mdp,block"`
}

// MDP configures the topology of a SimpleEnv. States are numbered by
// their labels, which must be 0, 1, ... N-1 for N state blocks.
type MDP struct {
	Actions int     `hcl:"actions"`
	States  []State `hcl:"state,block"`
}

// State configures a single state of an MDP and its outgoing
// transitions, one per action
type State struct {
	ID       string    `hcl:"id,label"`
	Initial  bool      `hcl:"initial,optional"`
	Terminal bool      `hcl:"terminal,optional"`
	Next     []int     `hcl:"next,optional"`
	Rewards  []float64 `hcl:"rewards,optional"`
}

// Default returns the default environment Config, the 5-state
// SimpleEnv with actions replaced at random with probability 0.1
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills in attributes missing from the Config
func (c *Config) ApplyDefaults() {
	if c.Name == "" && c.MDP == nil {
		c.Name = DefaultName
	}
	if c.RandomProb == nil {
		randomProb := DefaultRandomProb
		c.RandomProb = &randomProb
	}
}

// Probability returns the configured random action probability
func (c *Config) Probability() float64 {
	if c.RandomProb == nil {
		return DefaultRandomProb
	}
	return *c.RandomProb
}

// Topology converts the mdp block of the Config to a simple.Topology
func (m *MDP) Topology() (simple.Topology, error) {
	t := simple.Topology{
		States:      len(m.States),
		Actions:     m.Actions,
		Transitions: make([][]int, len(m.States)),
		Rewards:     make([][]float64, len(m.States)),
	}

	seen := make([]bool, len(m.States))
	for _, state := range m.States {
		id, err := strconv.Atoi(state.ID)
		if err != nil {
			return simple.Topology{}, fmt.Errorf("topology: state label %q "+
				"is not an integer", state.ID)
		}
		if id < 0 || id >= len(m.States) {
			return simple.Topology{}, fmt.Errorf("topology: state %d out of "+
				"range [0, %d)", id, len(m.States))
		}
		if seen[id] {
			return simple.Topology{}, fmt.Errorf("topology: state %d "+
				"defined more than once", id)
		}
		seen[id] = true

		if state.Initial {
			t.Initial = append(t.Initial, id)
		}
		if state.Terminal {
			t.Terminal = append(t.Terminal, id)
		}
		t.Transitions[id] = append([]int{}, state.Next...)
		t.Rewards[id] = append([]float64{}, state.Rewards...)
	}

	return t, t.Validate()
}

// Validate returns an error describing whether or not the
// configuration is valid
func (c *Config) Validate() error {
	if p := c.Probability(); p < 0 || p > 1 {
		return fmt.Errorf("validate: random_prob must be in [0, 1], got %v",
			p)
	}
	if c.MDP != nil {
		if _, err := c.MDP.Topology(); err != nil {
			return fmt.Errorf("validate: %w", err)
		}
		return nil
	}
	for _, name := range env.Registered() {
		if name == c.Name {
			return nil
		}
	}
	return fmt.Errorf("validate: no such environment %q", c.Name)
}

// Create returns the environment described by the Config
func (c *Config) Create() (env.Environment, error) {
	if c.MDP == nil {
		e, err := env.Make(c.Name, c.Probability(), c.Seed)
		if err != nil {
			return nil, fmt.Errorf("create: %w", err)
		}
		return e, nil
	}

	topology, err := c.MDP.Topology()
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	s, err := simple.New(topology, c.Probability(), c.Seed)
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	return s, nil
}
