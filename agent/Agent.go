// Package agent defines the interfaces of agents acting in tabular
// environments
package agent

import (
	"github.com/samuelfneumann/simpleenv/timestep"
)

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. Given the most recent
// TimeStep of an environment, a Policy returns the index of the discrete
// action to take next.
type Policy interface {
	SelectAction(t timestep.TimeStep) int
}

// Planner computes a solution of a known MDP ahead of acting, rather
// than learning from sampled interaction.
//
// A Planner and the Policy derived from it should share the same
// underlying tables so that any changes made by planning are reflected
// in the actions the Policy chooses.
type Planner interface {
	// Value returns the current estimate of the value of a state
	Value(state int) float64

	// Values returns a copy of the current value estimates of all states
	Values() []float64

	// Converged reports whether planning has reached its stopping
	// criterion
	Converged() bool
}

// PlanningPolicy is a Planner that can also act greedily with respect
// to its plan
type PlanningPolicy interface {
	Planner
	Policy
}

// Config represents a configuration for running a Planner on an MDP
type Config interface {
	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error
}
