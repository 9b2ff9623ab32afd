package envconfig

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/samuelfneumann/simpleenv/agent/valueiteration"
)

// Defaults for the solver and experiment blocks of a File
const (
	DefaultGamma    float64 = 0.99
	DefaultTheta    float64 = 1e-9
	DefaultEpisodes int     = 10

	// DefaultCutoff bounds episode length when the experiment block does
	// not set a cutoff. Greedy policies may cycle forever without it.
	DefaultCutoff int = 100
)

// File is a complete run configuration:
//
//	environment { ... }
//
//	solver {
//	  gamma      = 0.99
//	  theta      = 1e-9
//	  log_every  = 5
//	  noise      = "step"
//	  max_sweeps = 0
//	}
//
//	experiment {
//	  episodes    = 10
//	  cutoff      = 100
//	  with_reward = true
//	}
//
// Every block is optional. A cutoff of 0 disables the episode step limit.
type File struct {
	Environment *Config     `hcl:"environment,block"`
	Solver      *Solver     `hcl:"solver,block"`
	Experiment  *Experiment `hcl:"experiment,block"`
}

// Solver configures Value Iteration
type Solver struct {
	Gamma     *float64 `hcl:"gamma,optional"`
	Theta     *float64 `hcl:"theta,optional"`
	LogEvery  int      `hcl:"log_every,optional"`
	Noise     string   `hcl:"noise,optional"`
	MaxSweeps int      `hcl:"max_sweeps,optional"`
}

// Experiment configures the episodes run with the greedy policy of a
// trained value function
type Experiment struct {
	Episodes   int    `hcl:"episodes,optional"`
	Cutoff     *int   `hcl:"cutoff,optional"`
	WithReward bool   `hcl:"with_reward,optional"`
	Seed       uint64 `hcl:"seed,optional"`
}

// DefaultFile returns the default run configuration
func DefaultFile() *File {
	f := &File{}
	f.ApplyDefaults()
	return f
}

// Load loads a run configuration from an HCL file. If the file does not
// exist, the default configuration is returned.
func Load(filename string) (*File, error) {
	src, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		log.Debug("configuration file not found, using defaults",
			"file", filename)
		return DefaultFile(), nil
	} else if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return Parse(src, filename)
}

// Parse parses a run configuration from HCL source. The filename is only
// used in error messages.
func Parse(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse: failed to parse HCL: %s",
			diags.Error())
	}

	var f File
	diags = gohcl.DecodeBody(file.Body, nil, &f)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse: failed to decode HCL: %s",
			diags.Error())
	}

	f.ApplyDefaults()
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return &f, nil
}

// ApplyDefaults fills in blocks and attributes missing from the File
func (f *File) ApplyDefaults() {
	if f.Environment == nil {
		f.Environment = &Config{}
	}
	f.Environment.ApplyDefaults()

	if f.Solver == nil {
		f.Solver = &Solver{}
	}
	if f.Solver.Gamma == nil {
		gamma := DefaultGamma
		f.Solver.Gamma = &gamma
	}
	if f.Solver.Theta == nil {
		theta := DefaultTheta
		f.Solver.Theta = &theta
	}
	if f.Solver.Noise == "" {
		f.Solver.Noise = string(valueiteration.StepNoise)
	}

	if f.Experiment == nil {
		f.Experiment = &Experiment{}
	}
	if f.Experiment.Episodes == 0 {
		f.Experiment.Episodes = DefaultEpisodes
	}
	if f.Experiment.Cutoff == nil {
		cutoff := DefaultCutoff
		f.Experiment.Cutoff = &cutoff
	}
}

// Validate returns an error describing whether or not the File is valid
func (f *File) Validate() error {
	if err := f.Environment.Validate(); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	if err := f.SolverConfig(nil).Validate(); err != nil {
		return fmt.Errorf("solver: %w", err)
	}
	if f.Experiment.Episodes < 0 {
		return fmt.Errorf("experiment: episodes cannot be negative, got %d",
			f.Experiment.Episodes)
	}
	if f.Experiment.Cutoff != nil && *f.Experiment.Cutoff < 0 {
		return fmt.Errorf("experiment: cutoff cannot be negative, got %d",
			*f.Experiment.Cutoff)
	}
	return nil
}

// SolverConfig returns the Value Iteration configuration described by
// the File. The solver uses the random action probability of the
// environment block so that the back-up matches the simulated dynamics.
func (f *File) SolverConfig(logger *log.Logger) valueiteration.Config {
	c := valueiteration.Config{
		RandomProb: f.Environment.Probability(),
		Gamma:      DefaultGamma,
		Theta:      DefaultTheta,
		Logger:     logger,
	}
	if f.Solver == nil {
		return c
	}

	if f.Solver.Gamma != nil {
		c.Gamma = *f.Solver.Gamma
	}
	if f.Solver.Theta != nil {
		c.Theta = *f.Solver.Theta
	}
	c.LogEvery = f.Solver.LogEvery
	c.Noise = valueiteration.NoiseModel(f.Solver.Noise)
	c.MaxSweeps = f.Solver.MaxSweeps
	return c
}
