// Package environment outlines the interfaces and structs needed to
// implement concrete tabular environments
package environment

import (
	"github.com/samuelfneumann/simpleenv/timestep"
)

// Starter implements a distribution of starting states and samples starting
// states for environments
type Starter interface {
	Start() int
}

// Ender determines when episodes should end. If End returns true, it
// will have modified the argument TimeStep so that its StepType is
// timestep.Last.
type Ender interface {
	End(*timestep.TimeStep) bool
}

// MDP exposes the dynamics of a finite Markov Decision Process as
// read-only tables. Transitions()[s][a] is the state reached by taking
// action a in state s, and Rewards()[s][a] the reward for doing so.
// Terminal states have no outgoing transitions.
type MDP interface {
	NumStates() int
	NumActions() int
	Transitions() [][]int
	Rewards() [][]float64
	TerminalStates() []int
}

// Environment implements a simulated environment over a finite MDP
//
// An Environment must be Reset before it is stepped, and must be Reset
// again once an episode has reached a terminal state.
type Environment interface {
	MDP
	Reset() (timestep.TimeStep, error)
	Step(action int) (timestep.TimeStep, bool, error)
	ObservationSpec() Spec
	ActionSpec() Spec
}
