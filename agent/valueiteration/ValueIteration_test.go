package valueiteration

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/samuelfneumann/simpleenv/environment"
	"github.com/samuelfneumann/simpleenv/environment/simple"
	"github.com/samuelfneumann/simpleenv/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel})
}

func fiveState(t *testing.T, randomProb float64) *simple.SimpleEnv {
	env, err := simple.New(simple.FiveState(), randomProb, 1)
	require.NoError(t, err)
	return env
}

func TestNewIsUninitialized(t *testing.T) {
	vf := New()
	assert.Equal(t, Uninitialized, vf.Status())
	assert.False(t, vf.Converged())
	assert.Panics(t, func() { vf.Value(0) })
}

func TestTrainConverges(t *testing.T) {
	env := fiveState(t, 0.1)
	vf := New()

	theta := 1e-9
	sweeps, err := vf.Train(env, Config{
		RandomProb: 0.1,
		Theta:      theta,
		Gamma:      0.99,
		MaxSweeps:  10_000,
		Logger:     quietLogger(),
	})
	require.NoError(t, err)

	assert.Equal(t, Converged, vf.Status())
	assert.True(t, vf.Converged())
	assert.Equal(t, sweeps, vf.Sweeps())
	assert.Less(t, vf.Delta(), theta)
	assert.Less(t, vf.BellmanResidual(), theta)

	// The terminal state is never backed up
	assert.Equal(t, 0.0, vf.Value(4))

	// Reaching state 3 and taking action 0 is the only way to a positive
	// reward, so state 3 is the most valuable state
	values := vf.Values()
	for s := 0; s < 3; s++ {
		assert.Greater(t, values[3], values[s])
	}
}

func TestTrainDeterministicValues(t *testing.T) {
	env := fiveState(t, 0.0)
	vf := New()

	_, err := vf.Train(env, Config{
		Theta:  1e-12,
		Gamma:  0.9,
		Logger: quietLogger(),
	})
	require.NoError(t, err)

	want := []float64{0.72, 0.8, 0.0, 1.0, 0.0}
	assert.InDeltaSlice(t, want, vf.Values(), 1e-9)
}

func TestTrainNoDiscount(t *testing.T) {
	env := fiveState(t, 0.0)
	vf := New()

	sweeps, err := vf.Train(env, Config{
		Theta:  1e-9,
		Gamma:  0.0,
		Logger: quietLogger(),
	})
	require.NoError(t, err)

	// The first sweep sets every value to its best immediate reward and
	// the second sweep changes nothing
	assert.Equal(t, 2, sweeps)
	assert.InDeltaSlice(t, []float64{0, -0.1, 0, 1, 0}, vf.Values(), 1e-12)
}

func TestTrainHistory(t *testing.T) {
	env := fiveState(t, 0.0)
	vf := New()

	sweeps, err := vf.Train(env, Config{
		Theta:   1e-9,
		Gamma:   0.0,
		History: true,
		Logger:  quietLogger(),
	})
	require.NoError(t, err)

	deltas := vf.Deltas()
	require.Len(t, deltas, sweeps)
	assert.Equal(t, 1.0, deltas[0])
	assert.Equal(t, 0.0, deltas[1])
	assert.Equal(t, vf.Delta(), deltas[len(deltas)-1])

	trace := vf.Trace()
	require.Len(t, trace, sweeps)
	assert.Equal(t, vf.Values(), trace[len(trace)-1])

	// Retraining starts a new history
	_, err = vf.Train(env, Config{Theta: 1e-9, Gamma: 0.0, History: true,
		Logger: quietLogger()})
	require.NoError(t, err)
	assert.Len(t, vf.Deltas(), sweeps)
}

func TestTrainWithoutHistory(t *testing.T) {
	env := fiveState(t, 0.1)
	vf := New()

	sweeps, err := vf.Train(env, Config{
		RandomProb: 0.1,
		Theta:      1e-12,
		Gamma:      0.99,
		MaxSweeps:  3,
		Logger:     quietLogger(),
	})
	require.ErrorIs(t, err, ErrNotConverged)
	assert.Equal(t, 3, sweeps)
	assert.Empty(t, vf.Deltas())
	assert.Empty(t, vf.Trace())
}

func TestTrainResetsValues(t *testing.T) {
	env := fiveState(t, 0.0)
	vf := New()
	config := Config{Theta: 1e-9, Gamma: 0.5, Logger: quietLogger()}

	first, err := vf.Train(env, config)
	require.NoError(t, err)
	firstValues := vf.Values()

	vf.SetValue(0, 100)
	second, err := vf.Train(env, config)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstValues, vf.Values())
}

func TestTrainMaxSweeps(t *testing.T) {
	env := fiveState(t, 0.1)
	vf := New()

	sweeps, err := vf.Train(env, Config{
		RandomProb: 0.1,
		Theta:      1e-12,
		Gamma:      0.99,
		MaxSweeps:  3,
		Logger:     quietLogger(),
	})
	require.ErrorIs(t, err, ErrNotConverged)
	assert.Equal(t, 3, sweeps)
	assert.Equal(t, Training, vf.Status())
}

func TestTrainInvalidConfig(t *testing.T) {
	env := fiveState(t, 0.0)

	for _, c := range []Config{
		{RandomProb: -0.1, Theta: 1e-3, Gamma: 0.9},
		{RandomProb: 1.1, Theta: 1e-3, Gamma: 0.9},
		{Theta: 0, Gamma: 0.9},
		{Theta: 1e-3, Gamma: -0.5},
		{Theta: 1e-3, Gamma: 0.9, Noise: "bogus"},
		{Theta: 1e-3, Gamma: 0.9, MaxSweeps: -1},
	} {
		_, err := New().Train(env, c)
		assert.Error(t, err, "config %+v", c)
	}
}

func TestTrainSimpleEnv(t *testing.T) {
	vf := New()
	_, err := vf.TrainSimpleEnv(0.1, 1e-6, 0.9)
	require.NoError(t, err)
	assert.True(t, vf.Converged())
	assert.Equal(t, DefaultLogEvery, vf.Config().LogEvery)
	assert.Equal(t, StepNoise, vf.Config().Noise)

	_, err = New().TrainSimpleEnv(1.5, 1e-6, 0.9)
	assert.Error(t, err)
}

func TestTrainLogsProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})

	env := fiveState(t, 0.0)
	_, err := New().Train(env, Config{
		Theta:    1e-9,
		Gamma:    0.0,
		LogEvery: 1,
		Logger:   logger,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "sweep complete"))
	assert.Equal(t, 1, strings.Count(out, "value iteration converged"))

	buf.Reset()
	_, err = New().Train(env, Config{
		Theta:    1e-9,
		Gamma:    0.0,
		LogEvery: -1,
		Logger:   logger,
	})
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "sweep complete")
}

func TestComputeValueIdempotent(t *testing.T) {
	env := fiveState(t, 0.1)
	vf := New()
	_, err := vf.Train(env, Config{
		RandomProb: 0.1,
		Theta:      1e-3,
		Gamma:      0.99,
		Logger:     quietLogger(),
	})
	require.NoError(t, err)

	for s := 0; s < 4; s++ {
		first := vf.ComputeValue(s)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, vf.ComputeValue(s))
		}
	}
	assert.Equal(t, 0.0, vf.ComputeValue(4))
	assert.Nil(t, vf.QValues(4))
}

func TestComputeValueStepNoise(t *testing.T) {
	env := fiveState(t, 0.2)
	vf := New()
	_, err := vf.Train(env, Config{
		RandomProb: 0.2,
		Theta:      1e-3,
		Gamma:      0.5,
		MaxSweeps:  1,
		Logger:     quietLogger(),
	})
	if err != nil {
		require.ErrorIs(t, err, ErrNotConverged)
	}

	values := []float64{0.3, -0.2, 0.1, 0.7, 0}
	for s, value := range values {
		vf.SetValue(s, value)
	}

	// State 3: action 0 -> 4 with r = 1, action 1 -> 0 with r = 0
	outcome0 := 1 + 0.5*values[4]
	outcome1 := 0 + 0.5*values[0]
	q0 := 0.9*outcome0 + 0.1*outcome1
	q1 := 0.1*outcome0 + 0.9*outcome1

	q := vf.QValues(3)
	assert.InDelta(t, q0, q[0], 1e-12)
	assert.InDelta(t, q1, q[1], 1e-12)
	assert.InDelta(t, q0, vf.ComputeValue(3), 1e-12)
}

func TestNextActionOmitsReward(t *testing.T) {
	topology := simple.Topology{
		States:   4,
		Actions:  2,
		Terminal: []int{3},
		Initial:  []int{0},
		Transitions: [][]int{
			{1, 2},
			{3, 3},
			{3, 3},
			{},
		},
		Rewards: [][]float64{
			{0, 5},
			{1, 1},
			{0, 0},
			{},
		},
	}
	env, err := simple.New(topology, 0.0, 1)
	require.NoError(t, err)

	vf := New()
	_, err = vf.Train(env, Config{Theta: 1e-9, Gamma: 0.9,
		Logger: quietLogger()})
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{5, 1, 0, 0}, vf.Values(), 1e-9)
	assert.Equal(t, 0, vf.NextAction(0))
	assert.Equal(t, 1, vf.GreedyAction(0))
	assert.Equal(t, -1, vf.NextAction(3))
	assert.Equal(t, -1, vf.GreedyAction(3))
}

func TestGreedyPolicy(t *testing.T) {
	env := fiveState(t, 0.0)
	vf := New()
	_, err := vf.Train(env, Config{Theta: 1e-9, Gamma: 0.9,
		Logger: quietLogger()})
	require.NoError(t, err)

	obs := mat.NewVecDense(5, nil)
	step := timestep.New(timestep.First, 0, obs, 0, 0)

	// V = [0.72, 0.8, 0, 1, 0]. Both scorings head for state 3 first
	for _, withReward := range []bool{false, true} {
		policy := NewGreedy(vf, withReward, 3)

		step.State = 0
		assert.Equal(t, 0, policy.SelectAction(step))
		step.State = 1
		assert.Equal(t, 1, policy.SelectAction(step))
		step.State = 4
		assert.Equal(t, -1, policy.SelectAction(step))
	}

	// In state 3, scoring by successor value alone prefers returning to
	// state 0 over collecting the reward of 1 at the terminal state
	step.State = 3
	assert.Equal(t, 1, NewGreedy(vf, false, 3).SelectAction(step))
	assert.Equal(t, 0, NewGreedy(vf, true, 3).SelectAction(step))
	assert.Equal(t, 1, vf.NextAction(3))
	assert.Equal(t, 0, vf.GreedyAction(3))
}

func TestLoadRejectsShapeMismatch(t *testing.T) {
	vf := New()
	_, err := vf.Train(badMDP{}, Config{Theta: 1e-3, Gamma: 0.9,
		Logger: quietLogger()})
	require.Error(t, err)
	assert.True(t, environment.IsShapeMismatch(err))
	assert.Equal(t, Uninitialized, vf.Status())
}

// badMDP declares two actions but defines a single action in state 0
type badMDP struct{}

func (badMDP) NumStates() int        { return 2 }
func (badMDP) NumActions() int       { return 2 }
func (badMDP) Transitions() [][]int  { return [][]int{{1}, {}} }
func (badMDP) Rewards() [][]float64  { return [][]float64{{0}, {}} }
func (badMDP) TerminalStates() []int { return []int{1} }
