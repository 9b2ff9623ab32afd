package envconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/simpleenv/agent/valueiteration"
	env "github.com/samuelfneumann/simpleenv/environment"
	"github.com/samuelfneumann/simpleenv/environment/simple"
)

const chain = `
environment {
  random_prob = 0
  seed        = 7

  mdp {
    actions = 2

    state "0" {
      initial = true
      next    = [1, 0]
      rewards = [0, -1]
    }

    state "1" {
      next    = [2, 0]
      rewards = [1, 0]
    }

    state "2" {
      terminal = true
    }
  }
}

solver {
  gamma     = 0.5
  theta     = 1e-6
  log_every = -1
  noise     = "residual"
}

experiment {
  episodes = 3
  cutoff   = 20
}
`

func TestDefaultFile(t *testing.T) {
	f := DefaultFile()
	require.NoError(t, f.Validate())

	assert.Equal(t, simple.FiveStateID, f.Environment.Name)
	assert.Equal(t, DefaultRandomProb, f.Environment.Probability())
	assert.Equal(t, DefaultEpisodes, f.Experiment.Episodes)
	require.NotNil(t, f.Experiment.Cutoff)
	assert.Equal(t, DefaultCutoff, *f.Experiment.Cutoff)

	c := f.SolverConfig(nil)
	assert.Equal(t, DefaultGamma, c.Gamma)
	assert.Equal(t, DefaultTheta, c.Theta)
	assert.Equal(t, DefaultRandomProb, c.RandomProb)
	assert.Equal(t, valueiteration.StepNoise, c.Noise)
}

func TestLoadMissingFile(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultFile(), f)
}

func TestLoadFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "chain.hcl")
	require.NoError(t, os.WriteFile(filename, []byte(chain), 0o600))

	f, err := Load(filename)
	require.NoError(t, err)

	assert.Equal(t, 0.0, f.Environment.Probability())
	assert.Equal(t, uint64(7), f.Environment.Seed)
	assert.Empty(t, f.Environment.Name)
	assert.Equal(t, 3, f.Experiment.Episodes)
	require.NotNil(t, f.Experiment.Cutoff)
	assert.Equal(t, 20, *f.Experiment.Cutoff)
	assert.False(t, f.Experiment.WithReward)

	c := f.SolverConfig(nil)
	assert.Equal(t, 0.5, c.Gamma)
	assert.Equal(t, 1e-6, c.Theta)
	assert.Equal(t, -1, c.LogEvery)
	assert.Equal(t, valueiteration.ResidualNoise, c.Noise)
}

func TestParseTopology(t *testing.T) {
	f, err := Parse([]byte(chain), "chain.hcl")
	require.NoError(t, err)

	topology, err := f.Environment.MDP.Topology()
	require.NoError(t, err)
	assert.Equal(t, 3, topology.States)
	assert.Equal(t, 2, topology.Actions)
	assert.Equal(t, []int{0}, topology.Initial)
	assert.Equal(t, []int{2}, topology.Terminal)
	assert.Equal(t, [][]int{{1, 0}, {2, 0}, {}}, topology.Transitions)
	assert.Equal(t, [][]float64{{0, -1}, {1, 0}, {}}, topology.Rewards)

	e, err := f.Environment.Create()
	require.NoError(t, err)
	step, err := e.Reset()
	require.NoError(t, err)
	assert.Equal(t, 0, step.State)

	step, done, err := e.Step(0)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, 1, step.State)

	step, done, err = e.Step(0)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, 2, step.State)
	assert.Equal(t, 1.0, step.Reward)
}

func TestParseCutoff(t *testing.T) {
	f, err := Parse([]byte(`experiment {
  episodes = 2
}`), "default.hcl")
	require.NoError(t, err)
	assert.Equal(t, DefaultCutoff, *f.Experiment.Cutoff)

	f, err = Parse([]byte(`experiment {
  cutoff = 0
}`), "unlimited.hcl")
	require.NoError(t, err)
	assert.Equal(t, 0, *f.Experiment.Cutoff)
}

func TestParseRegisteredEnvironment(t *testing.T) {
	src := `
environment {
  name        = "SimpleEnv6-v0"
  random_prob = 0.25
}
`
	f, err := Parse([]byte(src), "six.hcl")
	require.NoError(t, err)

	e, err := f.Environment.Create()
	require.NoError(t, err)
	assert.Equal(t, 6, e.NumStates())
	assert.Equal(t, 3, e.NumActions())
	assert.Equal(t, 0.25, f.SolverConfig(nil).RandomProb)
}

func TestParseErrors(t *testing.T) {
	for name, src := range map[string]string{
		"syntax": `environment {`,
		"unknown attribute": `
environment {
  colour = "blue"
}`,
		"unknown environment": `
environment {
  name = "NoSuchEnv-v0"
}`,
		"random prob": `
environment {
  random_prob = 2
}`,
		"theta": `
solver {
  theta = 0
}`,
		"noise": `
solver {
  noise = "gaussian"
}`,
		"episodes": `
experiment {
  episodes = -1
}`,
		"cutoff": `
experiment {
  cutoff = -5
}`,
	} {
		_, err := Parse([]byte(src), name+".hcl")
		assert.Error(t, err, name)
	}
}

func TestTopologyShapeMismatch(t *testing.T) {
	src := `
environment {
  mdp {
    actions = 2

    state "0" {
      initial = true
      next    = [1]
      rewards = [0]
    }

    state "1" {
      terminal = true
    }
  }
}
`
	_, err := Parse([]byte(src), "mismatch.hcl")
	require.Error(t, err)
	assert.True(t, env.IsShapeMismatch(err))
}

func TestTopologyBadLabels(t *testing.T) {
	for name, states := range map[string][]State{
		"not an integer": {{ID: "zero", Initial: true, Terminal: true}},
		"out of range":   {{ID: "1", Initial: true, Terminal: true}},
		"duplicate": {
			{ID: "0", Initial: true, Next: []int{1}, Rewards: []float64{0}},
			{ID: "0", Terminal: true},
		},
	} {
		m := MDP{Actions: 1, States: states}
		_, err := m.Topology()
		assert.Error(t, err, name)
	}
}
