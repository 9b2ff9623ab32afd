// Package valueiteration implements tabular Value Iteration over a
// finite MDP, as described by Sutton and Barto in "Reinforcement
// Learning: An Introduction".
package valueiteration

import (
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/samuelfneumann/simpleenv/environment"
	"github.com/samuelfneumann/simpleenv/environment/simple"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrNotConverged is returned by Train when Config.MaxSweeps sweeps were
// performed without reaching the convergence threshold
var ErrNotConverged = errors.New("value iteration did not converge")

// Status is the training status of a ValueFunction
type Status int

const (
	Uninitialized Status = iota
	Training
	Converged
)

func (s Status) String() string {
	switch s {
	case Training:
		return "Training"
	case Converged:
		return "Converged"
	default:
		return "Uninitialized"
	}
}

// ValueFunction computes the optimal state-value function of a finite
// MDP by Value Iteration.
//
// Each sweep performs a Bellman optimality back-up of every
// non-terminal state in increasing order of state id. Back-ups are done
// in place, so later states in a sweep already see the updated values of
// earlier states. The value of terminal states is always 0.
type ValueFunction struct {
	values      *mat.VecDense
	transitions [][]int
	rewards     [][]float64
	terminal    []bool
	actions     int

	// noise[a][a'] is the probability of executing a' when choosing a
	noise *mat.Dense

	gamma  float64
	config Config
	logger *log.Logger

	status Status
	sweeps int
	delta  float64

	// deltas[i] and trace[i] are the delta and values after sweep i
	deltas []float64
	trace  [][]float64
}

// New returns a new, untrained ValueFunction
func New() *ValueFunction {
	return &ValueFunction{
		status: Uninitialized,
		logger: log.Default(),
	}
}

// TrainSimpleEnv runs Value Iteration on the 5-state SimpleEnv with
// actions overridden with probability randomProb, convergence threshold
// theta and discount factor gamma
func (v *ValueFunction) TrainSimpleEnv(randomProb, theta,
	gamma float64) (int, error) {
	env, err := environment.Make(simple.FiveStateID, randomProb, 0)
	if err != nil {
		return 0, fmt.Errorf("trainSimpleEnv: %w", err)
	}

	return v.Train(env, Config{
		RandomProb: randomProb,
		Theta:      theta,
		Gamma:      gamma,
	})
}

// Train runs Value Iteration on m until the largest change of any state
// value over a sweep drops below c.Theta. The value table is rebuilt
// with all values set to 0 before the first sweep. Train returns the
// number of sweeps performed.
//
// Train does not detect divergence. If c.MaxSweeps is positive and that
// many sweeps pass without convergence, ErrNotConverged is returned.
func (v *ValueFunction) Train(m environment.MDP, c Config) (int, error) {
	if err := c.Validate(); err != nil {
		return 0, fmt.Errorf("train: invalid config: %w", err)
	}
	c = c.withDefaults()

	if err := v.load(m, c); err != nil {
		return 0, fmt.Errorf("train: %w", err)
	}

	v.status = Training
	v.logger.Info("starting value iteration", "states", v.values.Len(),
		"actions", v.actions, "gamma", c.Gamma, "theta", c.Theta,
		"random_prob", c.RandomProb, "noise", c.Noise)

	old := make([]float64, v.values.Len())
	for iteration := 0; ; iteration++ {
		copy(old, v.values.RawVector().Data)

		for state := 0; state < v.values.Len(); state++ {
			if v.terminal[state] {
				continue
			}
			v.SetValue(state, v.ComputeValue(state))
		}

		// Each state is backed up once per sweep, so its change over
		// the sweep is its change in the back-up
		v.delta = floats.Distance(old, v.values.RawVector().Data, math.Inf(1))
		v.sweeps = iteration + 1
		if c.History {
			v.deltas = append(v.deltas, v.delta)
			v.trace = append(v.trace, v.Values())
		}

		if c.LogEvery > 0 && iteration%c.LogEvery == 0 {
			v.logProgress(iteration)
		}

		if v.delta < c.Theta {
			v.status = Converged
			v.logger.Info("value iteration converged", "iteration", iteration,
				"delta", v.delta, "values", v.Values())
			return v.sweeps, nil
		}

		if c.MaxSweeps > 0 && v.sweeps >= c.MaxSweeps {
			v.logger.Warn("value iteration stopped before converging",
				"sweeps", v.sweeps, "delta", v.delta)
			return v.sweeps, fmt.Errorf("train: %w after %d sweeps "+
				"(delta = %v)", ErrNotConverged, v.sweeps, v.delta)
		}
	}
}

// load copies the dynamics of m and resets the value table
func (v *ValueFunction) load(m environment.MDP, c Config) error {
	states, actions := m.NumStates(), m.NumActions()
	if states <= 0 || actions <= 0 {
		return fmt.Errorf("mdp must have states and actions, got %d "+
			"states and %d actions", states, actions)
	}

	transitions, rewards := m.Transitions(), m.Rewards()
	if len(transitions) != states || len(rewards) != states {
		return &environment.Error{
			Op: "load",
			Err: fmt.Errorf("tables have %d and %d rows, want %d: %w",
				len(transitions), len(rewards), states,
				environment.ErrShapeMismatch),
		}
	}

	terminal := make([]bool, states)
	for _, s := range m.TerminalStates() {
		if s < 0 || s >= states {
			return fmt.Errorf("terminal state %d out of range [0, %d)", s,
				states)
		}
		terminal[s] = true
	}

	for s := 0; s < states; s++ {
		if terminal[s] {
			continue
		}
		if len(transitions[s]) != actions || len(rewards[s]) != actions {
			return &environment.Error{
				Op: "load",
				Err: fmt.Errorf("state %d has %d transitions and %d "+
					"rewards, want %d: %w", s, len(transitions[s]),
					len(rewards[s]), actions, environment.ErrShapeMismatch),
			}
		}
	}

	v.values = mat.NewVecDense(states, nil)
	v.transitions = transitions
	v.rewards = rewards
	v.terminal = terminal
	v.actions = actions
	v.noise = c.Noise.Matrix(actions, c.RandomProb)
	v.gamma = c.Gamma
	v.config = c
	v.logger = c.Logger
	v.sweeps = 0
	v.delta = 0
	v.deltas = nil
	v.trace = nil

	return nil
}

// logProgress logs the current value function
func (v *ValueFunction) logProgress(iteration int) {
	v.logger.Info("sweep complete", "iteration", iteration, "delta", v.delta,
		"values", v.Values())
}

// Value returns the value of a state
func (v *ValueFunction) Value(state int) float64 {
	v.mustBeLoaded("value")
	return v.values.AtVec(state)
}

// SetValue sets the value of a state
func (v *ValueFunction) SetValue(state int, value float64) {
	v.mustBeLoaded("setValue")
	v.values.SetVec(state, value)
}

// Values returns a copy of the value table
func (v *ValueFunction) Values() []float64 {
	v.mustBeLoaded("values")
	values := make([]float64, v.values.Len())
	copy(values, v.values.RawVector().Data)
	return values
}

// QValues returns the action values Q(s, a) of all actions a in state s
// under the current value table:
//
//	Q(s, a) = Σ_a' P(a'|a) [R(s, a') + γ V(next(s, a'))]
//
// where P(a'|a) is given by the configured NoiseModel. Terminal states
// have no actions and nil is returned for them.
func (v *ValueFunction) QValues(state int) []float64 {
	v.mustBeLoaded("qValues")
	if v.terminal[state] {
		return nil
	}

	outcomes := mat.NewVecDense(v.actions, nil)
	for a := 0; a < v.actions; a++ {
		next := v.transitions[state][a]
		outcomes.SetVec(a, v.rewards[state][a]+v.gamma*v.values.AtVec(next))
	}

	q := mat.NewVecDense(v.actions, nil)
	q.MulVec(v.noise, outcomes)

	return q.RawVector().Data
}

// ComputeValue returns the Bellman optimality back-up of a state,
// max_a Q(s, a), without modifying the value table. The back-up of a
// terminal state is 0.
func (v *ValueFunction) ComputeValue(state int) float64 {
	q := v.QValues(state)
	if len(q) == 0 {
		return 0.0
	}
	return floats.Max(q)
}

// nextStateValues returns γ V(next(s, a)) for each action a in state s
func (v *ValueFunction) nextStateValues(state int) []float64 {
	values := make([]float64, v.actions)
	for a := range values {
		values[a] = v.gamma * v.values.AtVec(v.transitions[state][a])
	}
	return values
}

// NextAction returns the action in state s leading to the state of
// highest discounted value, argmax_a γ V(next(s, a)), breaking ties
// towards the lowest action. The immediate reward of the action is
// not taken into account; see GreedyAction for the action maximising
// the full action value. NextAction returns -1 for terminal states.
func (v *ValueFunction) NextAction(state int) int {
	v.mustBeLoaded("nextAction")
	if v.terminal[state] {
		return -1
	}
	return floats.MaxIdx(v.nextStateValues(state))
}

// GreedyAction returns argmax_a Q(s, a), breaking ties towards the
// lowest action. GreedyAction returns -1 for terminal states.
func (v *ValueFunction) GreedyAction(state int) int {
	q := v.QValues(state)
	if len(q) == 0 {
		return -1
	}
	return floats.MaxIdx(q)
}

// BellmanResidual returns max_s |V(s) - ComputeValue(s)| over all
// non-terminal states
func (v *ValueFunction) BellmanResidual() float64 {
	v.mustBeLoaded("bellmanResidual")

	var residual float64
	for state := 0; state < v.values.Len(); state++ {
		if v.terminal[state] {
			continue
		}
		diff := math.Abs(v.values.AtVec(state) - v.ComputeValue(state))
		residual = math.Max(residual, diff)
	}
	return residual
}

// IsTerminal returns whether a state is terminal in the MDP the value
// function was trained on
func (v *ValueFunction) IsTerminal(state int) bool {
	v.mustBeLoaded("isTerminal")
	return v.terminal[state]
}

// NumActions returns the number of actions in the MDP the value
// function was trained on
func (v *ValueFunction) NumActions() int {
	return v.actions
}

// Status returns the training status
func (v *ValueFunction) Status() Status {
	return v.status
}

// Converged returns whether the last call to Train converged
func (v *ValueFunction) Converged() bool {
	return v.status == Converged
}

// Sweeps returns the number of sweeps performed by the last call to
// Train
func (v *ValueFunction) Sweeps() int {
	return v.sweeps
}

// Delta returns the largest change of any state value in the last sweep
func (v *ValueFunction) Delta() float64 {
	return v.delta
}

// Deltas returns the delta of each sweep of the last call to Train. It
// is empty unless Config.History was set.
func (v *ValueFunction) Deltas() []float64 {
	deltas := make([]float64, len(v.deltas))
	copy(deltas, v.deltas)
	return deltas
}

// Trace returns the value table after each sweep of the last call to
// Train. Trace()[i][s] is the value of state s after sweep i. It is
// empty unless Config.History was set.
func (v *ValueFunction) Trace() [][]float64 {
	trace := make([][]float64, len(v.trace))
	for i := range v.trace {
		trace[i] = append([]float64(nil), v.trace[i]...)
	}
	return trace
}

// Config returns the configuration of the last call to Train, with
// defaults filled in
func (v *ValueFunction) Config() Config {
	return v.config
}

func (v *ValueFunction) mustBeLoaded(op string) {
	if v.values == nil {
		panic(fmt.Sprintf("%v: value function has not been trained", op))
	}
}

func (v *ValueFunction) String() string {
	if v.values == nil {
		return fmt.Sprintf("ValueFunction | Status: %v", v.status)
	}

	str := "ValueFunction | Status: %v  |  Sweeps: %d  |  Delta: %.3g  |  " +
		"Values: %.4f"
	return fmt.Sprintf(str, v.status, v.sweeps, v.delta, v.Values())
}
