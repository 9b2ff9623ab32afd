package simple

import (
	"fmt"

	"github.com/samuelfneumann/simpleenv/environment"
)

// Topology describes the graph of a finite MDP: how many states and
// actions there are, which states are terminal, which states episodes
// may start in, and the destination and reward of every (state, action)
// pair.
//
// Transitions[s][a] is the state reached by taking action a in state s
// and Rewards[s][a] is the reward received for doing so. Rows of
// terminal states must be empty, and rows of all other states must
// contain exactly Actions entries.
type Topology struct {
	States      int
	Actions     int
	Terminal    []int
	Initial     []int
	Transitions [][]int
	Rewards     [][]float64
}

// Validate checks that the Topology describes a well-formed MDP. Errors
// concerning the shape of the transition or reward tables wrap
// environment.ErrShapeMismatch.
func (t Topology) Validate() error {
	if t.States <= 0 {
		return fmt.Errorf("validate: number of states must be positive, "+
			"got %d", t.States)
	}
	if t.Actions <= 0 {
		return fmt.Errorf("validate: number of actions must be positive, "+
			"got %d", t.Actions)
	}

	if len(t.Transitions) != t.States {
		return shapeMismatch("transition table has %d rows, want %d",
			len(t.Transitions), t.States)
	}
	if len(t.Rewards) != t.States {
		return shapeMismatch("reward table has %d rows, want %d",
			len(t.Rewards), t.States)
	}

	terminal, err := t.terminalMask()
	if err != nil {
		return err
	}

	for s := 0; s < t.States; s++ {
		if terminal[s] {
			if len(t.Transitions[s]) != 0 || len(t.Rewards[s]) != 0 {
				return shapeMismatch("terminal state %d has outgoing "+
					"transitions", s)
			}
			continue
		}

		if n := len(t.Transitions[s]); n != t.Actions {
			return shapeMismatch("state %d has %d transitions, want %d", s,
				n, t.Actions)
		}
		if n := len(t.Rewards[s]); n != t.Actions {
			return shapeMismatch("state %d has %d rewards, want %d", s, n,
				t.Actions)
		}
		for a, next := range t.Transitions[s] {
			if next < 0 || next >= t.States {
				return shapeMismatch("state %d action %d leads to unknown "+
					"state %d", s, a, next)
			}
		}
	}

	if len(t.Initial) == 0 {
		return fmt.Errorf("validate: at least one initial state is required")
	}
	for _, s := range t.Initial {
		if s < 0 || s >= t.States {
			return fmt.Errorf("validate: initial state %d out of range "+
				"[0, %d)", s, t.States)
		}
		if terminal[s] {
			return fmt.Errorf("validate: initial state %d is terminal", s)
		}
	}

	return nil
}

// terminalMask returns a slice marking each terminal state with true
func (t Topology) terminalMask() ([]bool, error) {
	terminal := make([]bool, t.States)
	for _, s := range t.Terminal {
		if s < 0 || s >= t.States {
			return nil, fmt.Errorf("validate: terminal state %d out of "+
				"range [0, %d)", s, t.States)
		}
		terminal[s] = true
	}
	return terminal, nil
}

// Clone returns a deep copy of the Topology
func (t Topology) Clone() Topology {
	clone := Topology{
		States:      t.States,
		Actions:     t.Actions,
		Terminal:    append([]int(nil), t.Terminal...),
		Initial:     append([]int(nil), t.Initial...),
		Transitions: make([][]int, len(t.Transitions)),
		Rewards:     make([][]float64, len(t.Rewards)),
	}
	for s := range t.Transitions {
		clone.Transitions[s] = append([]int{}, t.Transitions[s]...)
	}
	for s := range t.Rewards {
		clone.Rewards[s] = append([]float64{}, t.Rewards[s]...)
	}
	return clone
}

func shapeMismatch(format string, args ...interface{}) error {
	return &environment.Error{
		Op:  "validate",
		Err: fmt.Errorf(format+": %w", append(args, environment.ErrShapeMismatch)...),
	}
}
