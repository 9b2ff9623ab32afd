package environment

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SpecType determines what kind of specification a Spec is. A Spec can
// specify the layout of an action or an observation
type SpecType int

const (
	Action SpecType = iota
	Observation
)

// Cardinality determines the cardinality of a number (discrete or continuous)
type Cardinality string

const (
	Continuous Cardinality = "Continuous"
	Discrete   Cardinality = "Discrete"
)

// Spec implements an environment specification, which tells the type,
// shape, and bounds of an action or observation in an environment
type Spec struct {
	Shape      mat.Vector
	Type       SpecType
	LowerBound mat.Vector
	UpperBound mat.Vector
	Cardinality
}

// NewSpec constructs a new environment specification
// The shape argument outlines the shape of the data described by the
// specification. The argument t outlines what the specification is
// describing (e.g. actions, observations). The cardinality
// arguments describes whether the values that the spec describes are
// continuous or discrete.
func NewSpec(shape mat.Vector, t SpecType, lowerBound,
	upperBound mat.Vector, cardinality Cardinality) Spec {
	if shape.Len() != lowerBound.Len() {
		panic(fmt.Sprintf("shape length %v must match lower bounds length %v",
			shape.Len(), lowerBound.Len()))
	}
	if shape.Len() != upperBound.Len() {
		panic(fmt.Sprintf("shape length %v must match upper bounds length %v",
			shape.Len(), upperBound.Len()))
	}
	return Spec{shape, t, lowerBound, upperBound, cardinality}
}

// NewDiscreteActionSpec returns the Spec of a single discrete action
// taking values in (0, 1, ... actions-1)
func NewDiscreteActionSpec(actions int) Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{0.0})
	upperBound := mat.NewVecDense(1, []float64{float64(actions - 1)})

	return NewSpec(shape, Action, lowerBound, upperBound, Discrete)
}

// NewOneHotObservationSpec returns the Spec of a one-hot observation
// over states states
func NewOneHotObservationSpec(states int) Spec {
	shape := mat.NewVecDense(states, nil)
	lowerBound := mat.NewVecDense(states, nil)

	upper := make([]float64, states)
	for i := range upper {
		upper[i] = 1.0
	}
	upperBound := mat.NewVecDense(states, upper)

	return NewSpec(shape, Observation, lowerBound, upperBound, Discrete)
}

// NumActions returns the number of discrete actions described by an
// action Spec
func (s Spec) NumActions() int {
	if s.Type != Action || s.Cardinality != Discrete {
		panic("numActions: spec does not describe discrete actions")
	}
	return int(s.UpperBound.AtVec(0)) + 1
}
