// Package simple implements SimpleEnv, a small finite MDP whose states
// form a graph with one labelled outgoing edge per action
package simple

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/simpleenv/environment"
	ts "github.com/samuelfneumann/simpleenv/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// SimpleEnv implements a finite MDP described by a Topology
//
// At each step, with probability randomProb the action passed to Step
// is replaced by an action drawn uniformly from the whole action space.
// The replacement may coincide with the original action. Observations
// are one-hot encodings of the current state.
//
// A SimpleEnv must be Reset before it is first stepped and after every
// episode reaches a terminal state.
type SimpleEnv struct {
	topology   Topology
	terminal   []bool
	randomProb float64

	starter      *environment.CategoricalStarter
	explore      distuv.Bernoulli
	randomAction distuv.Categorical

	current     int
	needsReset  bool
	currentStep ts.TimeStep
}

// New creates a new SimpleEnv over the MDP described by t. Each action
// is overridden by a uniformly random action with probability
// randomProb, which must lie in [0, 1].
//
// Malformed transition or reward tables are reported with an error
// wrapping environment.ErrShapeMismatch.
func New(t Topology, randomProb float64, seed uint64) (*SimpleEnv, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if randomProb < 0 || randomProb > 1 {
		return nil, fmt.Errorf("new: random probability must be in [0, 1], "+
			"got %v", randomProb)
	}

	t = t.Clone()
	terminal, _ := t.terminalMask()

	starter, err := environment.NewCategoricalStarter(t.Initial, seed)
	if err != nil {
		return nil, fmt.Errorf("new: could not create starter: %w", err)
	}

	source := rand.NewSource(seed + 1)
	weights := make([]float64, t.Actions)
	for i := range weights {
		weights[i] = 1.0 / float64(t.Actions)
	}

	return &SimpleEnv{
		topology:     t,
		terminal:     terminal,
		randomProb:   randomProb,
		starter:      starter,
		explore:      distuv.Bernoulli{P: randomProb, Src: source},
		randomAction: distuv.NewCategorical(weights, source),
		current:      -1,
		needsReset:   true,
	}, nil
}

// Reset selects a starting state uniformly from the initial states and
// returns the first timestep of the new episode
func (s *SimpleEnv) Reset() (ts.TimeStep, error) {
	s.current = s.starter.Start()
	s.needsReset = false

	step := ts.New(ts.First, 0, s.observation(), s.current, 0)
	s.currentStep = step

	return step, nil
}

// Step takes a single environmental step. The returned boolean reports
// whether the episode has ended in a terminal state.
func (s *SimpleEnv) Step(action int) (ts.TimeStep, bool, error) {
	if s.needsReset {
		return ts.TimeStep{}, true, &environment.Error{
			Op:  "step",
			Err: environment.ErrInvalidState,
		}
	}
	if action < 0 || action >= s.topology.Actions {
		return ts.TimeStep{}, false, &environment.Error{
			Op: "step",
			Err: fmt.Errorf("action %d not in [0, %d): %w", action,
				s.topology.Actions, environment.ErrInvalidAction),
		}
	}

	if s.explore.Rand() == 1.0 {
		action = int(s.randomAction.Rand())
	}

	next := s.topology.Transitions[s.current][action]
	reward := s.topology.Rewards[s.current][action]
	done := s.terminal[next]
	s.current = next

	stepType := ts.Mid
	if done {
		stepType = ts.Last
		s.needsReset = true
	}

	step := ts.New(stepType, reward, s.observation(), next,
		s.currentStep.Number+1)
	s.currentStep = step

	return step, done, nil
}

// CurrentTimeStep returns the last timestep returned by the environment
func (s *SimpleEnv) CurrentTimeStep() ts.TimeStep {
	return s.currentStep
}

// State returns the current state, or -1 if the environment has never
// been reset
func (s *SimpleEnv) State() int {
	return s.current
}

// NeedsReset returns whether the environment must be reset before it
// can be stepped
func (s *SimpleEnv) NeedsReset() bool {
	return s.needsReset
}

// RandomProb returns the probability with which actions are replaced by
// uniformly random actions
func (s *SimpleEnv) RandomProb() float64 {
	return s.randomProb
}

// NumStates returns the number of states in the MDP
func (s *SimpleEnv) NumStates() int {
	return s.topology.States
}

// NumActions returns the size of the action space
func (s *SimpleEnv) NumActions() int {
	return s.topology.Actions
}

// Transitions returns a copy of the transition table
func (s *SimpleEnv) Transitions() [][]int {
	return s.topology.Clone().Transitions
}

// Rewards returns a copy of the reward table
func (s *SimpleEnv) Rewards() [][]float64 {
	return s.topology.Clone().Rewards
}

// TerminalStates returns the ids of all terminal states in increasing
// order
func (s *SimpleEnv) TerminalStates() []int {
	var states []int
	for state, terminal := range s.terminal {
		if terminal {
			states = append(states, state)
		}
	}
	return states
}

// InitialStates returns the states that episodes may start in
func (s *SimpleEnv) InitialStates() []int {
	return s.starter.States()
}

// Topology returns a copy of the Topology the environment simulates
func (s *SimpleEnv) Topology() Topology {
	return s.topology.Clone()
}

// ObservationSpec returns the observation specification of the
// environment
func (s *SimpleEnv) ObservationSpec() environment.Spec {
	return environment.NewOneHotObservationSpec(s.topology.States)
}

// ActionSpec returns the action specification of the environment
func (s *SimpleEnv) ActionSpec() environment.Spec {
	return environment.NewDiscreteActionSpec(s.topology.Actions)
}

func (s *SimpleEnv) String() string {
	str := "SimpleEnv | States: %d  |  Actions: %d  |  At: %d  |  " +
		"Random Probability: %.2f"

	return fmt.Sprintf(str, s.topology.States, s.topology.Actions,
		s.current, s.randomProb)
}

// observation returns the one-hot encoding of the current state
func (s *SimpleEnv) observation() *mat.VecDense {
	return OneHot(s.current, s.topology.States)
}

// OneHot returns the one-hot encoding of state in a space of states
// states
func OneHot(state, states int) *mat.VecDense {
	vec := mat.NewVecDense(states, nil)
	vec.SetVec(state, 1.0)
	return vec
}

// StateOf returns the state encoded by a one-hot observation, or -1 if
// obs has no non-zero entry
func StateOf(obs mat.Vector) int {
	for i := 0; i < obs.Len(); i++ {
		if obs.AtVec(i) != 0.0 {
			return i
		}
	}
	return -1
}
