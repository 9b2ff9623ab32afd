// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a TimeStep can be, either  first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// TimeStep packages together a single timestep in an environment
//
// The Observation is a one-hot encoding of the state the environment is
// in after the step was taken, and State is the index of the 1.0 entry
// in the Observation. Info carries auxiliary per-step information and is
// never nil.
type TimeStep struct {
	StepType    StepType
	Reward      float64
	Observation *mat.VecDense
	State       int
	Number      int
	Info        map[string]interface{}
}

// New returns a new TimeStep
func New(t StepType, r float64, o *mat.VecDense, state, n int) TimeStep {
	return TimeStep{
		StepType:    t,
		Reward:      r,
		Observation: o,
		State:       state,
		Number:      n,
		Info:        map[string]interface{}{},
	}
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  State: %v  |  Reward:  %.2f  |  " +
		"Step Number:  %v"

	return fmt.Sprintf(str, t.StepType, t.State, t.Reward, t.Number)
}
