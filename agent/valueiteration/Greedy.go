package valueiteration

import (
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/simpleenv/agent"
	"github.com/samuelfneumann/simpleenv/timestep"
	"github.com/samuelfneumann/simpleenv/utils/floatutils"
)

var _ agent.PlanningPolicy = (*Greedy)(nil)
var _ agent.Planner = (*ValueFunction)(nil)
var _ agent.Config = Config{}

// Greedy implements a policy which acts greedily with respect to a
// ValueFunction. Ties between equally good actions are broken uniformly
// at random.
//
// By default, actions are scored as in ValueFunction.NextAction, by the
// discounted value of the state they lead to. If the policy is created
// with withReward set, actions are instead scored by their full action
// value Q(s, a), as in ValueFunction.GreedyAction.
type Greedy struct {
	vf         *ValueFunction
	withReward bool
	rng        *rand.Rand
}

// NewGreedy creates a new Greedy policy over the value function vf. The
// policy shares vf's value table, so later training of vf changes the
// actions the policy selects.
func NewGreedy(vf *ValueFunction, withReward bool, seed uint64) *Greedy {
	return &Greedy{
		vf:         vf,
		withReward: withReward,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// SelectAction selects the greedy action in the state of a timestep
func (g *Greedy) SelectAction(t timestep.TimeStep) int {
	state := t.State
	if g.vf.IsTerminal(state) {
		return -1
	}

	var scores []float64
	if g.withReward {
		scores = g.vf.QValues(state)
	} else {
		scores = g.vf.nextStateValues(state)
	}

	_, ties := floatutils.MaxSlice(scores)
	return ties[g.rng.Intn(len(ties))]
}

// Value returns the value of a state under the underlying value function
func (g *Greedy) Value(state int) float64 {
	return g.vf.Value(state)
}

// Values returns the state values of the underlying value function
func (g *Greedy) Values() []float64 {
	return g.vf.Values()
}

// Converged returns whether the underlying value function has converged
func (g *Greedy) Converged() bool {
	return g.vf.Converged()
}
