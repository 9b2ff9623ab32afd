package simple

import "github.com/samuelfneumann/simpleenv/environment"

// Ids under which the built-in topologies are registered
const (
	FiveStateID string = "SimpleEnv-v0"
	SixStateID  string = "SimpleEnv6-v0"
)

func init() {
	environment.Register(FiveStateID, factory(FiveState))
	environment.Register(SixStateID, factory(SixState))
}

// factory returns an environment.Factory creating SimpleEnvs over the
// Topology returned by topology
func factory(topology func() Topology) environment.Factory {
	return func(randomProb float64, seed uint64) (environment.Environment,
		error) {
		env, err := New(topology(), randomProb, seed)
		if err != nil {
			return nil, err
		}
		return env, nil
	}
}

// FiveState returns the 5-state, 2-action topology. Episodes start in
// state 0 or 1 and end in state 4.
//
//	state	action 0		action 1
//	0		-> 1, r = 0		-> 2, r = -0.1
//	1		-> 2, r = -0.1	-> 3, r = -0.1
//	2		-> 2, r = -0.01	-> 4, r = 0
//	3		-> 4, r = 1		-> 0, r = 0
func FiveState() Topology {
	return Topology{
		States:   5,
		Actions:  2,
		Terminal: []int{4},
		Initial:  []int{0, 1},
		Transitions: [][]int{
			{1, 2},
			{2, 3},
			{2, 4},
			{4, 0},
			{},
		},
		Rewards: [][]float64{
			{0, -0.1},
			{-0.1, -0.1},
			{-0.01, 0},
			{1, 0},
			{},
		},
	}
}

// SixState returns the 6-state, 3-action topology. Episodes always
// start in state 0 and end in state 5.
func SixState() Topology {
	return Topology{
		States:   6,
		Actions:  3,
		Terminal: []int{5},
		Initial:  []int{0},
		Transitions: [][]int{
			{2, 3, 1},
			{0, 4, 3},
			{2, 5, 0},
			{5, 4, 1},
			{5, 3, 4},
			{},
		},
		Rewards: [][]float64{
			{-0.1, -0.1, 0},
			{0, -0.1, 0},
			{-0.01, 0, 0},
			{1, 0.5, 0},
			{0.5, 0, -0.01},
			{},
		},
	}
}
